package services

import (
	"math"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/models/other"
	"github.com/Rakhulsr/go-carestore/app/utils/calc"
	"github.com/shopspring/decimal"
)

const (
	defaultTitle    = "No Title"
	defaultCategory = "uncategorized"
	defaultBrand    = "Generic"
)

// ProductTransformer normalizes backend records from one catalog source.
// It holds no mutable state and is safe for concurrent use.
type ProductTransformer struct {
	source   models.CatalogSource
	resolver *ImageResolver
}

func NewProductTransformer(source models.CatalogSource, resolver *ImageResolver) *ProductTransformer {
	return &ProductTransformer{source: source, resolver: resolver}
}

// Transform prefers backend-specific field names and falls back to the
// generic ones. Feeding its own JSON output back in yields the same product.
func (t *ProductTransformer) Transform(raw other.RawProduct) models.Product {
	p := models.Product{
		ID:                   raw.String("productId", "id"),
		Source:               raw.String("source"),
		Title:                raw.String("productName", "title", "name"),
		Description:          raw.Text("productDescription", "description"),
		Category:             raw.String("productCategory", "category"),
		SubCategory:          raw.String("productSubCategory", "subCategory"),
		Brand:                raw.String("brandName", "brand"),
		Sizes:                raw.List("sizes", "productSizes"),
		Features:             raw.List("features", "benefitsList"),
		PrescriptionRequired: boolOr(raw, "prescriptionRequired", false),
	}

	if p.Source == "" {
		p.Source = t.source.Name
	}
	if p.Title == "" {
		p.Title = defaultTitle
	}
	if p.Category == "" {
		p.Category = defaultCategory
	}
	if p.Brand == "" {
		p.Brand = defaultBrand
	}
	if len(p.Sizes) == 0 {
		p.Sizes = []string{models.OneSize}
	}

	if price, ok := raw.Decimal("productPrice", "price"); ok && price.IsPositive() {
		p.Price = price
	}
	if original, ok := raw.Decimal("productOldPrice", "originalPrice", "mrp"); ok && original.IsPositive() {
		p.OriginalPrice = decimal.NewNullDecimal(original)
	}

	if explicit := explicitDiscount(raw); explicit > 0 {
		p.DiscountPercent = explicit
	} else if p.OriginalPrice.Valid {
		p.DiscountPercent = calc.DiscountPercent(p.Price, p.OriginalPrice.Decimal)
	}

	if qty, ok := raw.Int("stockQuantity", "productStock"); ok {
		q := qty
		p.StockQuantity = &q
	}
	switch {
	case raw.Has("inStock"):
		p.InStock = boolOr(raw, "inStock", true)
	case p.StockQuantity != nil:
		p.InStock = *p.StockQuantity > 0
	default:
		p.InStock = true
	}

	if rating, ok := raw.Float("rating", "productRating"); ok {
		p.Rating = rating
	}
	if reviews, ok := raw.Int("reviewCount", "productReviewCount"); ok {
		p.ReviewCount = reviews
	}

	p.Images = t.resolver.Resolve(raw, p.ID, t.source.BaseURL, t.source.ImageEndpoints)
	return p
}

func (t *ProductTransformer) TransformAll(raws []other.RawProduct) []models.Product {
	products := make([]models.Product, 0, len(raws))
	for _, raw := range raws {
		products = append(products, t.Transform(raw))
	}
	return products
}

func (t *ProductTransformer) TransformJSON(data []byte) (models.Product, error) {
	raw, err := other.DecodeRawProduct(data)
	if err != nil {
		return models.Product{}, err
	}
	return t.Transform(raw), nil
}

func explicitDiscount(raw other.RawProduct) int {
	for _, key := range []string{"discountPercent", "discountPercentage", "discount"} {
		if label, ok := raw[key].(string); ok {
			if v := calc.ParseDiscountLabel(label); v > 0 {
				return int(math.Round(v))
			}
			continue
		}
		if v, ok := raw.Float(key); ok && v > 0 {
			return int(math.Round(v))
		}
	}
	return 0
}

func boolOr(raw other.RawProduct, key string, fallback bool) bool {
	if v, ok := raw.Bool(key); ok {
		return v
	}
	return fallback
}
