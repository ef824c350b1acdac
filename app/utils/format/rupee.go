package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var rupee = accounting.Accounting{Symbol: "₹", Precision: 2, Thousand: ",", Decimal: "."}

// FormatRupee renders an amount as "₹1,299.00". Unsupported types render as zero.
func FormatRupee(amount interface{}) string {
	var decAmount decimal.Decimal
	switch v := amount.(type) {
	case decimal.Decimal:
		decAmount = v
	case decimal.NullDecimal:
		if !v.Valid {
			return ""
		}
		decAmount = v.Decimal
	case float64:
		decAmount = decimal.NewFromFloat(v)
	case int:
		decAmount = decimal.NewFromInt(int64(v))
	case int64:
		decAmount = decimal.NewFromInt(v)
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return rupee.FormatMoney(decimal.Zero)
		}
		decAmount = parsed
	default:
		return rupee.FormatMoney(decimal.Zero)
	}
	return rupee.FormatMoney(decAmount)
}
