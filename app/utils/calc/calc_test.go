package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscountPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		price    int64
		original int64
		want     int
	}{
		{"half price", 100, 200, 50},
		{"rounded", 299, 399, 25},
		{"no saving", 200, 200, 0},
		{"original lower", 300, 200, 0},
		{"no original", 300, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountPercent(decimal.NewFromInt(tt.price), decimal.NewFromInt(tt.original))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDiscountLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 20.0, ParseDiscountLabel("20% off"))
	assert.Equal(t, 12.5, ParseDiscountLabel(" 12.5%"))
	assert.Equal(t, 0.0, ParseDiscountLabel("off"))
	assert.Equal(t, 0.0, ParseDiscountLabel(""))
}

func TestTotals(t *testing.T) {
	t.Parallel()

	subtotal := decimal.NewFromInt(1000)
	tax := CalculateTax(subtotal)
	assert.True(t, tax.Equal(decimal.NewFromInt(180)))
	assert.True(t, ShippingFee(0).IsZero())
	assert.True(t, ShippingFee(2).Equal(decimal.NewFromInt(49)))

	total := CalculateGrandTotal(subtotal, tax, ShippingFee(1), decimal.Zero)
	assert.True(t, total.Equal(decimal.NewFromInt(1229)))
}
