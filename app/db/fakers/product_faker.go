package fakers

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/go-faker/faker/v4"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// ProductTemplate seeds fake products of one storefront section.
type ProductTemplate struct {
	Category     string
	SubCategory  string
	Brands       []string
	Names        []string
	Sizes        []string
	Prescription bool
	// ImageEndpoints mirrors backends that serve images at
	// {base}/{id}/image instead of embedding URLs.
	ImageEndpoints bool
}

var PharmacyTemplates = []ProductTemplate{
	{
		Category:    "Medicine",
		SubCategory: "Pain Relief And Fever",
		Brands:      []string{"Crocin", "Dolo", "Calpol", "Combiflam"},
		Names:       []string{"Paracetamol 500mg", "Ibuprofen 400mg", "Pain Relief Gel", "Fever Syrup"},
	},
	{
		Category:    "Medicine",
		SubCategory: "allergy",
		Brands:      []string{"Allegra", "Cetzine", "Vicks", "Otrivin"},
		Names:       []string{"Cetirizine 10mg", "Nasal Spray", "Cough Syrup", "Vapour Rub"},
	},
	{
		Category:     "Medicine",
		SubCategory:  "Antibiotics",
		Brands:       []string{"Cipla", "Sun Pharma"},
		Names:        []string{"Amoxicillin 250mg", "Azithromycin 500mg"},
		Prescription: true,
	},
	{
		Category:    "Wellness",
		SubCategory: "Immunity Booster",
		Brands:      []string{"Himalaya", "Dabur", "Limcee"},
		Names:       []string{"Vitamin C Chewables", "Chyawanprash", "Giloy Tablets", "Zinc Supplement"},
	},
}

var MotherCareTemplates = []ProductTemplate{
	{
		Category:       "Baby Care",
		Brands:         []string{"Pampers", "Huggies", "Johnson's", "Mamaearth"},
		Names:          []string{"Baby Diapers", "Baby Wipes", "Baby Lotion", "Rash Cream"},
		Sizes:          []string{"S", "M", "L", "XL"},
		ImageEndpoints: true,
	},
	{
		Category:       "Mother Care",
		Brands:         []string{"Morisons", "Chicco", "Mee Mee"},
		Names:          []string{"Maternity Pillow", "Nursing Pads", "Stretch Mark Cream"},
		ImageEndpoints: true,
	},
}

// ProductFaker builds one raw backend record for the template, shaped the
// way the backends that serve the storefront name their fields.
func ProductFaker(rng *rand.Rand, id int, tpl ProductTemplate) map[string]interface{} {
	brand := tpl.Brands[rng.Intn(len(tpl.Brands))]
	name := tpl.Names[rng.Intn(len(tpl.Names))]
	price := fakePrice(rng)

	product := map[string]interface{}{
		"productId":            fmt.Sprint(id),
		"productName":          brand + " " + name,
		"brandName":            brand,
		"productCategory":      tpl.Category,
		"productPrice":         price,
		"productStock":         rng.Intn(30),
		"prescriptionRequired": tpl.Prescription,
		"rating":               precision(3+rng.Float64()*2, 1),
		"reviewCount":          rng.Intn(500),
		"productDescription":   fmt.Sprintf("**%s** by %s.\n\n%s\n\nStore in a cool, dry place.", name, brand, faker.Paragraph()),
		"benefitsList":         fakeBenefits(1 + rng.Intn(3)),
	}
	if tpl.SubCategory != "" {
		product["productSubCategory"] = tpl.SubCategory
	}
	if len(tpl.Sizes) > 0 {
		product["sizes"] = tpl.Sizes
	}
	if rng.Intn(3) > 0 {
		markup := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(1.1 + rng.Float64()*0.4)).Round(0)
		product["productOldPrice"] = markup.InexactFloat64()
	}

	if tpl.ImageEndpoints {
		product["subImageCount"] = rng.Intn(3)
	} else {
		product["productMainImage"] = "/images/products/" + slug.Make(name) + ".jpg"
	}
	return product
}

// fakeBenefits draws lorem text from faker, so only the catalog fields
// taken from rng stay reproducible for a given seed.
func fakeBenefits(n int) []string {
	benefits := make([]string, n)
	for i := range benefits {
		benefits[i] = strings.TrimSuffix(faker.Sentence(), ".")
	}
	return benefits
}

func fakePrice(rng *rand.Rand) float64 {
	return precision(20+rng.Float64()*math.Pow10(1+rng.Intn(3)), 0)
}

func precision(val float64, pre int) float64 {
	a := math.Pow10(pre)
	return float64(int(val*a)) / a
}
