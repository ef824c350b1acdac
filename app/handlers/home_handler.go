package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-carestore/app/helpers"
	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/services"
	"github.com/unrolled/render"
)

const featuredCount = 8

type HomeHandler struct {
	render  *render.Render
	pages   models.PageCatalog
	catalog *services.Catalog
}

func NewHomeHandler(r *render.Render, pages models.PageCatalog, catalog *services.Catalog) *HomeHandler {
	return &HomeHandler{
		render:  r,
		pages:   pages,
		catalog: catalog,
	}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	var (
		featured []models.Product
		err      error
	)
	if store := h.catalog.Default(); store != nil {
		featured, err = store.FetchPage(r.Context(), 0, featuredCount)
	}

	cart := helpers.CartStore(r)
	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":        "Home",
		"Pages":        h.pages.Pages,
		"Featured":     helpers.NewProductCards(featured, cart.InWishlist),
		"CatalogError": err != nil,
		"RetryURL":     r.URL.RequestURI(),
	})
	_ = h.render.HTML(w, http.StatusOK, "home", data)
}

func (h *HomeHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
