package calc

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func CalculateDiscount(baseTotal, discountPercent decimal.Decimal) decimal.Decimal {
	return baseTotal.Mul(discountPercent).Div(hundred)
}

// DiscountPercent derives the whole percentage saved when original is
// strictly greater than price. It returns 0 otherwise.
func DiscountPercent(price, original decimal.Decimal) int {
	if !original.IsPositive() || !original.GreaterThan(price) {
		return 0
	}
	pct := original.Sub(price).Div(original).Mul(hundred).Round(0)
	return int(pct.IntPart())
}

// ParseDiscountLabel reads the leading number of labels like "20% off" or
// "12.5". Anything without a number yields 0.
func ParseDiscountLabel(label string) float64 {
	label = strings.TrimSpace(label)
	end := 0
	seenDot := false
	for end < len(label) {
		c := label[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(label[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
