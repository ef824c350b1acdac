package other

import "html/template"

// ProductCard is what a listing grid needs to draw one product. All money
// is preformatted so templates never compute prices.
type ProductCard struct {
	ID                   string
	Source               string
	Title                string
	Brand                string
	Image                string
	Price                string
	OriginalPrice        string
	DiscountLabel        string
	InStock              bool
	PrescriptionRequired bool
	HasSizeChoice        bool
	InWishlist           bool
	DetailURL            string
	UploadURL            string
}

type SizeOption struct {
	Value    string
	Selected bool
}

type ProductDetail struct {
	ProductCard
	Category        string
	SubCategory     string
	Images          []string
	Sizes           []SizeOption
	DescriptionHTML template.HTML
	Features        []string
	Rating          float64
	ReviewCount     int
	StockLabel      string
	HasPrescription bool
	Related         []ProductCard
}

type CartLineView struct {
	Index                int
	ProductID            string
	Title                string
	Image                string
	Size                 string
	Quantity             int
	Price                string
	OriginalPrice        string
	LineTotal            string
	PrescriptionRequired bool
	DetailURL            string
}

type WishlistEntryView struct {
	Index     int
	ProductID string
	Title     string
	Image     string
	Price     string
	DetailURL string
}

type CartSummaryView struct {
	ItemCount  int
	Subtotal   string
	TaxPercent string
	TaxAmount  string
	Shipping   string
	Discount   string
	GrandTotal string
}
