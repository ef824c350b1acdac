package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-carestore/app/helpers"
	"github.com/Rakhulsr/go-carestore/app/services"
	"github.com/Rakhulsr/go-carestore/app/utils/breadcrumb"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"
)

type CartHandler struct {
	render  *render.Render
	catalog *services.Catalog
}

func NewCartHandler(r *render.Render, catalog *services.Catalog) *CartHandler {
	return &CartHandler{render: r, catalog: catalog}
}

type addToCartForm struct {
	ProductID string `validate:"required"`
	Source    string
	Size      string `validate:"max=64"`
	Quantity  int    `validate:"min=1,max=99"`
}

type lineForm struct {
	Index    int `validate:"min=0"`
	Quantity int `validate:"max=99"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart := helpers.CartStore(r)

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":       "Shopping Cart",
		"Lines":       helpers.NewCartLineViews(cart.Lines()),
		"Summary":     helpers.NewCartSummaryView(cart.Summary()),
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Cart", URL: "/cart"}),
	})
	_ = h.render.HTML(w, http.StatusOK, "cart", data)
}

func (h *CartHandler) CartCount(w http.ResponseWriter, r *http.Request) {
	cart := helpers.CartStore(r)
	_ = h.render.JSON(w, http.StatusOK, map[string]int{
		"count":    cart.Count(),
		"wishlist": len(cart.Wishlist()),
	})
}

func (h *CartHandler) AddItemCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := addToCartForm{
		ProductID: r.FormValue("product_id"),
		Source:    r.FormValue("source"),
		Size:      r.FormValue("size"),
		Quantity:  services.ParseQuantity(r.FormValue("qty")),
	}
	back := helpers.BackTo(r, helpers.ProductURL(form.Source, form.ProductID))

	if err := helpers.Validate.Struct(form); err != nil {
		helpers.RedirectWithMessage(w, r, back, "error", helpers.FirstValidationMessage(err))
		return
	}

	store := h.catalog.Default()
	if form.Source != "" {
		s, ok := h.catalog.Store(form.Source)
		if !ok {
			helpers.RedirectWithMessage(w, r, "/", "error", helpers.UserMessage(services.ErrProductNotFound))
			return
		}
		store = s
	}

	product, err := store.FetchByID(r.Context(), form.ProductID)
	if err != nil {
		helpers.RedirectWithMessage(w, r, back, "error", helpers.UserMessage(err))
		return
	}

	count, err := helpers.CartStore(r).AddToCart(r.Context(), *product, form.Size, form.Quantity)
	if err != nil {
		log.Info().Err(err).Str("product_id", form.ProductID).Msg("CartHandler.AddItemCart: rejected")
		helpers.RedirectWithMessage(w, r, back, "error", helpers.UserMessage(err))
		return
	}

	log.Debug().Str("product_id", product.ID).Int("count", count).Msg("CartHandler.AddItemCart: added")
	helpers.RedirectWithMessage(w, r, back, "success", product.Title+" added to cart.")
}

func (h *CartHandler) UpdateItemCart(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseLineForm(w, r)
	if !ok {
		return
	}

	if _, err := helpers.CartStore(r).UpdateQuantity(r.Context(), form.Index, form.Quantity); err != nil {
		helpers.RedirectWithMessage(w, r, "/cart", "error", helpers.UserMessage(err))
		return
	}
	if form.Quantity < 1 {
		helpers.RedirectWithMessage(w, r, "/cart", "success", "Item removed from cart.")
		return
	}
	helpers.RedirectWithMessage(w, r, "/cart", "success", "Cart updated.")
}

func (h *CartHandler) RemoveItemCart(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseLineForm(w, r)
	if !ok {
		return
	}

	if _, err := helpers.CartStore(r).RemoveLine(r.Context(), form.Index); err != nil {
		helpers.RedirectWithMessage(w, r, "/cart", "error", helpers.UserMessage(err))
		return
	}
	helpers.RedirectWithMessage(w, r, "/cart", "success", "Item removed from cart.")
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := helpers.CartStore(r).ClearCart(r.Context()); err != nil {
		log.Error().Err(err).Msg("CartHandler.ClearCart: failed")
		helpers.RedirectWithMessage(w, r, "/cart", "error", helpers.UserMessage(err))
		return
	}
	helpers.RedirectWithMessage(w, r, "/cart", "success", "Cart cleared.")
}

func (h *CartHandler) parseLineForm(w http.ResponseWriter, r *http.Request) (lineForm, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return lineForm{}, false
	}

	form := lineForm{
		Index:    parseIndex(r.FormValue("index")),
		Quantity: services.ParseQuantity(r.FormValue("qty")),
	}
	if err := helpers.Validate.Struct(form); err != nil {
		helpers.RedirectWithMessage(w, r, "/cart", "error", helpers.FirstValidationMessage(err))
		return lineForm{}, false
	}
	return form, true
}
