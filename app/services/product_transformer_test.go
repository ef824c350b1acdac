package services

import (
	"encoding/json"
	"testing"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/models/other"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSource = models.CatalogSource{
	Name:           "pharmacy",
	BaseURL:        "http://catalog.test/api/products",
	ByIDPath:       "get-product",
	AllPath:        "get-all-products",
	ImageEndpoints: true,
}

func newTestTransformer() *ProductTransformer {
	return NewProductTransformer(testSource, NewImageResolver("http://assets.test"))
}

func decodeRaw(t *testing.T, body string) other.RawProduct {
	t.Helper()
	raw, err := other.DecodeRawProduct([]byte(body))
	require.NoError(t, err)
	return raw
}

func TestTransformComputesDiscount(t *testing.T) {
	t.Parallel()

	p := newTestTransformer().Transform(decodeRaw(t, `{"id":1,"price":100,"originalPrice":200}`))

	assert.Equal(t, "1", p.ID)
	assert.Equal(t, 50, p.DiscountPercent)
	assert.Equal(t, "50% off", p.DiscountLabel())
	assert.True(t, p.HasDiscount())
}

func TestTransformFieldPrecedence(t *testing.T) {
	t.Parallel()

	p := newTestTransformer().Transform(decodeRaw(t, `{
		"productId": "P-7",
		"id": "ignored",
		"productName": "Baby Lotion",
		"title": "ignored",
		"productPrice": 299,
		"price": 1,
		"productOldPrice": "₹399",
		"productCategory": "babycare",
		"productSubCategory": "skin",
		"brandName": "Himalaya",
		"productSizes": "[\"100ml\",\"200ml\"]",
		"productStock": 3,
		"prescriptionRequired": true,
		"productDescription": ["Mild", "Tear free"]
	}`))

	assert.Equal(t, "P-7", p.ID)
	assert.Equal(t, "Baby Lotion", p.Title)
	assert.Equal(t, "299", p.Price.String())
	assert.Equal(t, "399", p.OriginalPrice.Decimal.String())
	assert.Equal(t, 25, p.DiscountPercent)
	assert.Equal(t, "babycare", p.Category)
	assert.Equal(t, "skin", p.SubCategory)
	assert.Equal(t, "Himalaya", p.Brand)
	assert.Equal(t, []string{"100ml", "200ml"}, p.Sizes)
	require.NotNil(t, p.StockQuantity)
	assert.Equal(t, 3, *p.StockQuantity)
	assert.True(t, p.InStock)
	assert.True(t, p.PrescriptionRequired)
	assert.Equal(t, "Mild. Tear free", p.Description)
	assert.Equal(t, "pharmacy", p.Source)
}

func TestTransformDefaults(t *testing.T) {
	t.Parallel()

	p := newTestTransformer().Transform(decodeRaw(t, `{"id":"9","price":-5}`))

	assert.Equal(t, "No Title", p.Title)
	assert.True(t, p.Price.IsZero())
	assert.False(t, p.OriginalPrice.Valid)
	assert.Equal(t, 0, p.DiscountPercent)
	assert.Equal(t, "uncategorized", p.Category)
	assert.Equal(t, "Generic", p.Brand)
	assert.Equal(t, []string{models.OneSize}, p.Sizes)
	assert.False(t, p.HasSizeChoice())
	assert.True(t, p.InStock)
	assert.NotEmpty(t, p.Images)
}

func TestTransformExplicitDiscountWins(t *testing.T) {
	t.Parallel()

	tr := newTestTransformer()

	p := tr.Transform(decodeRaw(t, `{"id":"1","price":100,"originalPrice":200,"discount":"20% off"}`))
	assert.Equal(t, 20, p.DiscountPercent)

	p = tr.Transform(decodeRaw(t, `{"id":"1","price":100,"discountPercentage":15}`))
	assert.Equal(t, 15, p.DiscountPercent)
}

func TestTransformNoDiscountWhenOriginalNotHigher(t *testing.T) {
	t.Parallel()

	p := newTestTransformer().Transform(decodeRaw(t, `{"id":"1","price":300,"mrp":200}`))
	assert.Equal(t, 0, p.DiscountPercent)
	assert.False(t, p.HasDiscount())
}

func TestTransformStock(t *testing.T) {
	t.Parallel()

	tr := newTestTransformer()

	tests := []struct {
		name string
		body string
		want bool
	}{
		{"explicit false", `{"id":"1","inStock":false,"stockQuantity":5}`, false},
		{"explicit true", `{"id":"1","inStock":true,"stockQuantity":0}`, true},
		{"zero stock", `{"id":"1","stockQuantity":0}`, false},
		{"positive stock", `{"id":"1","productStock":"4"}`, true},
		{"unknown", `{"id":"1"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Transform(decodeRaw(t, tt.body)).InStock)
		})
	}
}

func TestTransformSizeShapes(t *testing.T) {
	t.Parallel()

	tr := newTestTransformer()

	tests := []struct {
		name string
		body string
		want []string
	}{
		{"array", `{"id":"1","sizes":["S","M"]}`, []string{"S", "M"}},
		{"json string", `{"id":"1","sizes":"[\"S\",\"M\"]"}`, []string{"S", "M"}},
		{"csv", `{"id":"1","productSizes":"S, M ,L"}`, []string{"S", "M", "L"}},
		{"empty", `{"id":"1","sizes":[]}`, []string{models.OneSize}},
		{"blank string", `{"id":"1","sizes":""}`, []string{models.OneSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Transform(decodeRaw(t, tt.body)).Sizes)
		})
	}
}

func TestTransformIsIdempotent(t *testing.T) {
	t.Parallel()

	tr := newTestTransformer()
	bodies := []string{
		`{"id":1,"price":100,"originalPrice":200}`,
		`{"productId":"P-2","productName":"Cough Syrup","productPrice":"149.50","productOldPrice":199,"productMainImage":"img.png","productSubImages":["a","https://cdn.test/b.png"],"prescriptionRequired":true}`,
		`{"id":"3","title":"Wipes","price":80,"sizes":"S,M","inStock":false,"stockQuantity":0,"description":"**Soft**","rating":4.5,"reviewCount":12}`,
		`{"id":"4"}`,
	}

	for _, body := range bodies {
		first := tr.Transform(decodeRaw(t, body))

		encoded, err := json.Marshal(first)
		require.NoError(t, err)

		second, err := tr.TransformJSON(encoded)
		require.NoError(t, err)

		reencoded, err := json.Marshal(second)
		require.NoError(t, err)
		assert.JSONEq(t, string(encoded), string(reencoded), body)
	}
}

func TestTransformAll(t *testing.T) {
	t.Parallel()

	raws, err := other.DecodeProductList([]byte(`{"content":[{"id":"1"},{"id":"2"}],"totalPages":1}`))
	require.NoError(t, err)

	products := newTestTransformer().TransformAll(raws)
	require.Len(t, products, 2)
	assert.Equal(t, "2", products[1].ID)
}
