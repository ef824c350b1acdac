package helpers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductCardDiscount(t *testing.T) {
	t.Parallel()

	p := models.Product{
		ID:              "1",
		Source:          "pharmacy",
		Title:           "Lotion",
		Price:           decimal.NewFromInt(100),
		OriginalPrice:   decimal.NewNullDecimal(decimal.NewFromInt(200)),
		DiscountPercent: 50,
		Sizes:           []string{models.OneSize},
		InStock:         true,
		Images:          []string{"http://img.test/1.png"},
	}

	card := NewProductCard(p, true)
	assert.Equal(t, "₹100.00", card.Price)
	assert.Equal(t, "₹200.00", card.OriginalPrice)
	assert.Equal(t, "50% off", card.DiscountLabel)
	assert.Equal(t, "/products/pharmacy/1", card.DetailURL)
	assert.True(t, card.InWishlist)
	assert.False(t, card.HasSizeChoice)
}

func TestNewProductCardHidesLowerOriginal(t *testing.T) {
	t.Parallel()

	p := models.Product{
		ID:            "1",
		Price:         decimal.NewFromInt(300),
		OriginalPrice: decimal.NewNullDecimal(decimal.NewFromInt(200)),
	}
	assert.Empty(t, NewProductCard(p, false).OriginalPrice)
}

func TestNewProductDetailStockLabel(t *testing.T) {
	t.Parallel()

	qty := 2
	p := models.Product{ID: "1", InStock: true, StockQuantity: &qty, Sizes: []string{"S", "M"}, Description: "**Gentle**"}
	d := NewProductDetail(p, false, true, "M", nil)

	assert.Equal(t, "Only 2 left", d.StockLabel)
	require.Len(t, d.Sizes, 2)
	assert.True(t, d.Sizes[1].Selected)
	assert.Contains(t, string(d.DescriptionHTML), "<strong>Gentle</strong>")
	assert.True(t, d.HasPrescription)

	p.InStock = false
	assert.Equal(t, "Out of Stock", NewProductDetail(p, false, false, "", nil).StockLabel)
}

func TestNewCartSummaryView(t *testing.T) {
	t.Parallel()

	v := NewCartSummaryView(models.CartSummary{
		ItemCount:  2,
		Subtotal:   decimal.NewFromInt(1000),
		TaxPercent: decimal.NewFromInt(18),
		TaxAmount:  decimal.NewFromInt(180),
		Shipping:   decimal.NewFromInt(49),
		GrandTotal: decimal.NewFromInt(1229),
	})
	assert.Equal(t, "18%", v.TaxPercent)
	assert.Equal(t, "₹1,229.00", v.GrandTotal)
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Please select a size before adding to cart.", UserMessage(services.ErrSizeRequired))
	assert.Equal(t, "Sorry, this product is out of stock.", UserMessage(fmt.Errorf("add: %w", services.ErrOutOfStock)))
	assert.Empty(t, UserMessage(nil))
}

func TestRedirectWithMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/add", nil)
	RedirectWithMessage(rec, req, "/products/pharmacy/1?size=M", "error", "Pick a size")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/products/pharmacy/1", loc.Path)
	assert.Equal(t, "M", loc.Query().Get("size"))
	assert.Equal(t, "error", loc.Query().Get("status"))
	assert.Equal(t, "Pick a size", loc.Query().Get("message"))

	rec = httptest.NewRecorder()
	RedirectWithMessage(rec, req, "https://evil.test/", "success", "x")
	loc, err = url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/", loc.Path)
}

func TestGetBaseDataKeepsHandlerValues(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/cart?status=success&message=Added", nil)
	req = req.WithContext(context.WithValue(req.Context(), CartCountKey, 4))

	data := GetBaseData(req, map[string]interface{}{"Title": "Cart"})
	assert.Equal(t, "Cart", data["Title"])
	assert.Equal(t, 4, data["CartCount"])
	assert.Equal(t, "Added", data["Message"])
	assert.Equal(t, "success", data["MessageStatus"])
}

func TestFirstValidationMessage(t *testing.T) {
	t.Parallel()

	type form struct {
		ProductID string `validate:"required"`
	}
	err := Validate.Struct(form{})
	assert.Equal(t, "ProductID is required.", FirstValidationMessage(err))
}
