package calc

import "github.com/shopspring/decimal"

var (
	taxPercent  = decimal.NewFromInt(18)
	shippingFee = decimal.NewFromInt(49)
)

func GetTaxPercent() decimal.Decimal {
	return taxPercent
}

func CalculateTax(baseTotal decimal.Decimal) decimal.Decimal {
	return baseTotal.Mul(GetTaxPercent()).Div(hundred).Round(2)
}

// ShippingFee is flat for any non-empty cart.
func ShippingFee(itemCount int) decimal.Decimal {
	if itemCount <= 0 {
		return decimal.Zero
	}
	return shippingFee
}

func CalculateGrandTotal(baseTotal, taxAmount, shipping, discountAmount decimal.Decimal) decimal.Decimal {
	return baseTotal.Add(taxAmount).Add(shipping).Sub(discountAmount)
}
