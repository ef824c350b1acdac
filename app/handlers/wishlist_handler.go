package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/go-carestore/app/helpers"
	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/services"
	"github.com/Rakhulsr/go-carestore/app/utils/breadcrumb"
	"github.com/unrolled/render"
)

type WishlistHandler struct {
	render  *render.Render
	catalog *services.Catalog
}

func NewWishlistHandler(r *render.Render, catalog *services.Catalog) *WishlistHandler {
	return &WishlistHandler{render: r, catalog: catalog}
}

type toggleWishlistForm struct {
	ProductID string `validate:"required"`
	Source    string
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":       "Wishlist",
		"Entries":     helpers.NewWishlistViews(helpers.CartStore(r).Wishlist()),
		"Breadcrumbs": breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Wishlist", URL: "/wishlist"}),
	})
	_ = h.render.HTML(w, http.StatusOK, "wishlist", data)
}

func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := toggleWishlistForm{ProductID: r.FormValue("product_id"), Source: r.FormValue("source")}
	back := helpers.BackTo(r, "/wishlist")
	if err := helpers.Validate.Struct(form); err != nil {
		helpers.RedirectWithMessage(w, r, back, "error", helpers.FirstValidationMessage(err))
		return
	}

	cart := helpers.CartStore(r)
	product := models.Product{ID: form.ProductID}
	if !cart.InWishlist(form.ProductID) {
		store := h.catalog.Default()
		if s, ok := h.catalog.Store(form.Source); ok {
			store = s
		}
		fetched, err := store.FetchByID(r.Context(), form.ProductID)
		if err != nil {
			helpers.RedirectWithMessage(w, r, back, "error", helpers.UserMessage(err))
			return
		}
		product = *fetched
	}

	added, err := cart.ToggleWishlist(r.Context(), product)
	if err != nil {
		helpers.RedirectWithMessage(w, r, back, "error", helpers.UserMessage(err))
		return
	}
	if added {
		helpers.RedirectWithMessage(w, r, back, "success", "Added to wishlist.")
		return
	}
	helpers.RedirectWithMessage(w, r, back, "success", "Removed from wishlist.")
}

// Move copies a saved product into the cart as one "One Size" unit and
// leaves it in the wishlist.
func (h *WishlistHandler) Move(w http.ResponseWriter, r *http.Request) {
	cart := helpers.CartStore(r)

	entry, err := cart.WishlistEntry(parseIndex(r.FormValue("index")))
	if err != nil {
		helpers.RedirectWithMessage(w, r, "/wishlist", "error", helpers.UserMessage(err))
		return
	}
	if _, err := cart.MergeWishlistItemIntoCart(r.Context(), entry); err != nil {
		helpers.RedirectWithMessage(w, r, "/wishlist", "error", helpers.UserMessage(err))
		return
	}
	helpers.RedirectWithMessage(w, r, "/wishlist", "success", entry.Title+" added to cart.")
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := helpers.CartStore(r).RemoveWishlistEntry(r.Context(), parseIndex(r.FormValue("index"))); err != nil {
		helpers.RedirectWithMessage(w, r, "/wishlist", "error", helpers.UserMessage(err))
		return
	}
	helpers.RedirectWithMessage(w, r, "/wishlist", "success", "Removed from wishlist.")
}

func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := helpers.CartStore(r).ClearWishlist(r.Context()); err != nil {
		helpers.RedirectWithMessage(w, r, "/wishlist", "error", helpers.UserMessage(err))
		return
	}
	helpers.RedirectWithMessage(w, r, "/wishlist", "success", "Wishlist cleared.")
}

// parseIndex maps garbage to -1 so the store reports the line as missing.
func parseIndex(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return -1
	}
	return n
}
