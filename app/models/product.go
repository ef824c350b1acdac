package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const OneSize = "One Size"

// Product is the normalized catalog record every page works with,
// independent of how the backend names its fields.
type Product struct {
	ID                   string              `json:"id"`
	Source               string              `json:"source,omitempty"`
	Title                string              `json:"title"`
	Description          string              `json:"description,omitempty"`
	Price                decimal.Decimal     `json:"price"`
	OriginalPrice        decimal.NullDecimal `json:"originalPrice"`
	DiscountPercent      int                 `json:"discountPercent,omitempty"`
	Category             string              `json:"category"`
	SubCategory          string              `json:"subCategory,omitempty"`
	Brand                string              `json:"brand"`
	Images               []string            `json:"images"`
	Sizes                []string            `json:"sizes"`
	InStock              bool                `json:"inStock"`
	StockQuantity        *int                `json:"stockQuantity,omitempty"`
	PrescriptionRequired bool                `json:"prescriptionRequired"`
	Rating               float64             `json:"rating,omitempty"`
	ReviewCount          int                 `json:"reviewCount,omitempty"`
	Features             []string            `json:"features,omitempty"`
}

// HasSizeChoice reports whether the shopper must pick a size before adding
// the product to the cart.
func (p Product) HasSizeChoice() bool {
	if len(p.Sizes) == 0 {
		return false
	}
	return !(len(p.Sizes) == 1 && p.Sizes[0] == OneSize)
}

func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// HasDiscount is true only when a strictly higher original price is known.
func (p Product) HasDiscount() bool {
	return p.OriginalPrice.Valid && p.OriginalPrice.Decimal.GreaterThan(p.Price)
}

func (p Product) DiscountLabel() string {
	if p.DiscountPercent <= 0 {
		return ""
	}
	return fmt.Sprintf("%d%% off", p.DiscountPercent)
}
