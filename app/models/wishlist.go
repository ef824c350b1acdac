package models

import "github.com/shopspring/decimal"

type WishlistEntry struct {
	ProductID string          `json:"id"`
	Source    string          `json:"source,omitempty"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Images    []string        `json:"images"`
}

func (w WishlistEntry) MainImage() string {
	if len(w.Images) == 0 {
		return ""
	}
	return w.Images[0]
}
