package helpers

import (
	"fmt"
	"net/url"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/models/other"
	"github.com/Rakhulsr/go-carestore/app/utils/format"
	"github.com/Rakhulsr/go-carestore/app/utils/richtext"
	"github.com/shopspring/decimal"
)

func ProductURL(source, id string) string {
	return fmt.Sprintf("/products/%s/%s", url.PathEscape(source), url.PathEscape(id))
}

func PrescriptionURL(source, id string) string {
	return fmt.Sprintf("/prescriptions/%s/%s", url.PathEscape(source), url.PathEscape(id))
}

// NewProductCard shows the original price only when it is higher than
// the selling price.
func NewProductCard(p models.Product, inWishlist bool) other.ProductCard {
	card := other.ProductCard{
		ID:                   p.ID,
		Source:               p.Source,
		Title:                p.Title,
		Brand:                p.Brand,
		Image:                p.MainImage(),
		Price:                format.FormatRupee(p.Price),
		DiscountLabel:        p.DiscountLabel(),
		InStock:              p.InStock,
		PrescriptionRequired: p.PrescriptionRequired,
		HasSizeChoice:        p.HasSizeChoice(),
		InWishlist:           inWishlist,
		DetailURL:            ProductURL(p.Source, p.ID),
		UploadURL:            PrescriptionURL(p.Source, p.ID),
	}
	if p.HasDiscount() {
		card.OriginalPrice = format.FormatRupee(p.OriginalPrice.Decimal)
	}
	return card
}

func NewProductCards(products []models.Product, inWishlist func(id string) bool) []other.ProductCard {
	cards := make([]other.ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, NewProductCard(p, inWishlist != nil && inWishlist(p.ID)))
	}
	return cards
}

func NewProductDetail(p models.Product, inWishlist, hasPrescription bool, selectedSize string, related []other.ProductCard) other.ProductDetail {
	detail := other.ProductDetail{
		ProductCard:     NewProductCard(p, inWishlist),
		Category:        p.Category,
		SubCategory:     p.SubCategory,
		Images:          p.Images,
		DescriptionHTML: richtext.Render(p.Description),
		Features:        p.Features,
		Rating:          p.Rating,
		ReviewCount:     p.ReviewCount,
		HasPrescription: hasPrescription,
		Related:         related,
	}

	for _, s := range p.Sizes {
		detail.Sizes = append(detail.Sizes, other.SizeOption{Value: s, Selected: s == selectedSize})
	}

	switch {
	case !p.InStock:
		detail.StockLabel = "Out of Stock"
	case p.StockQuantity != nil && *p.StockQuantity <= 5:
		detail.StockLabel = fmt.Sprintf("Only %d left", *p.StockQuantity)
	default:
		detail.StockLabel = "In Stock"
	}
	return detail
}

func NewCartLineViews(lines []models.CartLine) []other.CartLineView {
	views := make([]other.CartLineView, 0, len(lines))
	for i, l := range lines {
		v := other.CartLineView{
			Index:                i,
			ProductID:            l.ProductID,
			Title:                l.Title,
			Image:                l.MainImage(),
			Size:                 l.Size,
			Quantity:             l.Quantity,
			Price:                format.FormatRupee(l.Price),
			LineTotal:            format.FormatRupee(l.LineTotal()),
			PrescriptionRequired: l.PrescriptionRequired,
			DetailURL:            ProductURL(l.Source, l.ProductID),
		}
		if l.OriginalPrice.Valid && l.OriginalPrice.Decimal.GreaterThan(l.Price) {
			v.OriginalPrice = format.FormatRupee(l.OriginalPrice.Decimal)
		}
		views = append(views, v)
	}
	return views
}

func NewWishlistViews(entries []models.WishlistEntry) []other.WishlistEntryView {
	views := make([]other.WishlistEntryView, 0, len(entries))
	for i, e := range entries {
		views = append(views, other.WishlistEntryView{
			Index:     i,
			ProductID: e.ProductID,
			Title:     e.Title,
			Image:     e.MainImage(),
			Price:     format.FormatRupee(e.Price),
			DetailURL: ProductURL(e.Source, e.ProductID),
		})
	}
	return views
}

func NewCartSummaryView(s models.CartSummary) other.CartSummaryView {
	return other.CartSummaryView{
		ItemCount:  s.ItemCount,
		Subtotal:   format.FormatRupee(s.Subtotal),
		TaxPercent: s.TaxPercent.StringFixed(0) + "%",
		TaxAmount:  format.FormatRupee(s.TaxAmount),
		Shipping:   format.FormatRupee(s.Shipping),
		Discount:   format.FormatRupee(s.Discount),
		GrandTotal: format.FormatRupee(s.GrandTotal),
	}
}

// SumPrices is used by the CLI listing footer.
func SumPrices(products []models.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total
}
