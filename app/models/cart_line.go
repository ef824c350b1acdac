package models

import "github.com/shopspring/decimal"

// CartLine is one purchasable entry in the browser cart. Lines are unique
// by (ProductID, Size).
type CartLine struct {
	ProductID            string              `json:"id"`
	Source               string              `json:"source,omitempty"`
	Title                string              `json:"title"`
	Price                decimal.Decimal     `json:"price"`
	OriginalPrice        decimal.NullDecimal `json:"originalPrice"`
	Images               []string            `json:"images"`
	Size                 string              `json:"size"`
	Quantity             int                 `json:"quantity"`
	PrescriptionRequired bool                `json:"prescriptionRequired,omitempty"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l CartLine) MainImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

func (l CartLine) Matches(productID, size string) bool {
	return l.ProductID == productID && l.Size == size
}
