package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/utils/calc"
)

const (
	SortPriceLowHigh = "Price: Low to High"
	SortPriceHighLow = "Price: High to Low"
	SortDiscount     = "Discount"
)

// SortKeys lists the orderings offered on listing pages.
var SortKeys = []string{SortPriceLowHigh, SortPriceHighLow, SortDiscount}

// ApplyFilters returns a new slice; products is never reordered in place.
// An empty brand selection keeps everything and an unknown sort key keeps
// the incoming order.
func ApplyFilters(products []models.Product, selectedBrands []string, sortKey string) []models.Product {
	out := make([]models.Product, 0, len(products))

	if len(selectedBrands) == 0 {
		out = append(out, products...)
	} else {
		wanted := make(map[string]struct{}, len(selectedBrands))
		for _, b := range selectedBrands {
			wanted[b] = struct{}{}
		}
		for _, p := range products {
			if _, ok := wanted[p.Brand]; ok {
				out = append(out, p)
			}
		}
	}

	switch sortKey {
	case SortPriceLowHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceHighLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case SortDiscount:
		sort.SliceStable(out, func(i, j int) bool { return discountValue(out[i]) > discountValue(out[j]) })
	}
	return out
}

// discountValue reads the numeric discount shown on a card.
func discountValue(p models.Product) float64 {
	if p.DiscountPercent > 0 {
		return float64(p.DiscountPercent)
	}
	return calc.ParseDiscountLabel(p.DiscountLabel())
}

// Brands returns the distinct brands in display order.
func Brands(products []models.Product) []string {
	seen := make(map[string]struct{})
	var brands []string
	for _, p := range products {
		if p.Brand == "" {
			continue
		}
		if _, ok := seen[p.Brand]; ok {
			continue
		}
		seen[p.Brand] = struct{}{}
		brands = append(brands, p.Brand)
	}
	sort.Strings(brands)
	return brands
}

// SearchProducts matches the term against title, brand and category,
// ignoring case. A blank term matches nothing.
func SearchProducts(products []models.Product, term string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []models.Product{}
	}

	out := make([]models.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Brand), term) ||
			strings.Contains(strings.ToLower(p.Category), term) ||
			strings.Contains(strings.ToLower(p.SubCategory), term) {
			out = append(out, p)
		}
	}
	return out
}

// FilterBySubcategory keeps exact matches, or case-insensitive partial
// matches when nothing matches exactly.
func FilterBySubcategory(products []models.Product, name string) []models.Product {
	exact := make([]models.Product, 0)
	for _, p := range products {
		if p.SubCategory == name {
			exact = append(exact, p)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	needle := strings.ToLower(name)
	loose := make([]models.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.SubCategory), needle) {
			loose = append(loose, p)
		}
	}
	return loose
}

// ParseQuantity reads a form quantity; blanks and garbage become 1.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}
