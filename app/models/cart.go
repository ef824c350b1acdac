package models

import "github.com/shopspring/decimal"

// CartSummary is the price breakdown shown on the cart page.
type CartSummary struct {
	ItemCount  int
	Subtotal   decimal.Decimal
	TaxPercent decimal.Decimal
	TaxAmount  decimal.Decimal
	Shipping   decimal.Decimal
	Discount   decimal.Decimal
	GrandTotal decimal.Decimal
}
