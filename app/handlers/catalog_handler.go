package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-carestore/app/helpers"
	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/repositories"
	"github.com/Rakhulsr/go-carestore/app/services"
	"github.com/Rakhulsr/go-carestore/app/utils/breadcrumb"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"
)

const relatedLimit = 4

type CatalogHandler struct {
	render  *render.Render
	pages   models.PageCatalog
	catalog *services.Catalog
	storage repositories.StorageRepository
}

func NewCatalogHandler(r *render.Render, pages models.PageCatalog, catalog *services.Catalog, storage repositories.StorageRepository) *CatalogHandler {
	return &CatalogHandler{
		render:  r,
		pages:   pages,
		catalog: catalog,
		storage: storage,
	}
}

type brandOption struct {
	Name     string
	Selected bool
}

func (h *CatalogHandler) storeFor(source string) *services.CatalogStore {
	if source == "" {
		return h.catalog.Default()
	}
	store, ok := h.catalog.Store(source)
	if !ok {
		return nil
	}
	return store
}

func (h *CatalogHandler) CategoryPage(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	page, ok := h.pages.Page(slug)
	if !ok {
		h.notFound(w, r, "Category not found.")
		return
	}

	store := h.storeFor(page.Source)
	if store == nil {
		log.Error().Str("slug", slug).Str("source", page.Source).Msg("CatalogHandler.CategoryPage: page points at unknown source")
		h.notFound(w, r, "Category not found.")
		return
	}

	products, err := store.FetchForPage(r.Context(), page)

	q := r.URL.Query()
	selectedBrands := q["brand"]
	sortKey := q.Get("sort")
	filtered := services.ApplyFilters(products, selectedBrands, sortKey)

	selected := make(map[string]bool, len(selectedBrands))
	for _, b := range selectedBrands {
		selected[b] = true
	}
	var brands []brandOption
	for _, b := range services.Brands(products) {
		brands = append(brands, brandOption{Name: b, Selected: selected[b]})
	}

	cart := helpers.CartStore(r)
	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":        page.Title,
		"Page":         page,
		"Products":     helpers.NewProductCards(filtered, cart.InWishlist),
		"ProductCount": len(filtered),
		"Brands":       brands,
		"SortKeys":     services.SortKeys,
		"SortKey":      sortKey,
		"CatalogError": err != nil,
		"RetryURL":     r.URL.RequestURI(),
		"Breadcrumbs":  breadcrumb.Trail(breadcrumb.Breadcrumb{Name: page.Title, URL: "/c/" + page.Slug}),
	})
	_ = h.render.HTML(w, http.StatusOK, "category", data)
}

func (h *CatalogHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	store := h.storeFor(vars["source"])
	if store == nil {
		h.notFound(w, r, "Product not found.")
		return
	}

	ctx := r.Context()
	product, err := store.FetchByID(ctx, vars["id"])
	if errors.Is(err, services.ErrProductNotFound) {
		h.notFound(w, r, "Product not found.")
		return
	}
	if err != nil {
		h.unavailable(w, r)
		return
	}

	storage := services.NewBrowserStorage(h.storage, helpers.BrowserID(r))
	if err := storage.SetString(ctx, services.KeySelectedProductID, product.ID); err != nil {
		log.Warn().Err(err).Msg("CatalogHandler.ProductDetail: failed to remember selected product")
	}

	_, hasPrescription, err := services.NewPrescriptionStore(storage).Get(ctx, product.ID)
	if err != nil {
		log.Warn().Err(err).Msg("CatalogHandler.ProductDetail: failed to read prescriptions")
	}

	cart := helpers.CartStore(r)
	related, _ := store.Related(ctx, *product, relatedLimit)
	detail := helpers.NewProductDetail(*product, cart.InWishlist(product.ID), hasPrescription,
		r.URL.Query().Get("size"), helpers.NewProductCards(related, cart.InWishlist))

	crumbs := []breadcrumb.Breadcrumb{}
	if page, ok := h.pageFor(*product); ok {
		crumbs = append(crumbs, breadcrumb.Breadcrumb{Name: page.Title, URL: "/c/" + page.Slug})
	}
	crumbs = append(crumbs, breadcrumb.Breadcrumb{Name: product.Title, URL: helpers.ProductURL(product.Source, product.ID)})

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":       product.Title,
		"Product":     detail,
		"Breadcrumbs": breadcrumb.Trail(crumbs...),
	})
	_ = h.render.HTML(w, http.StatusOK, "product", data)
}

// Search falls back to the last remembered term when q is absent.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storage := services.NewBrowserStorage(h.storage, helpers.BrowserID(r))

	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if _, given := r.URL.Query()["q"]; given {
		if err := storage.SetString(ctx, services.KeySearchTerm, term); err != nil {
			log.Warn().Err(err).Msg("CatalogHandler.Search: failed to remember search term")
		}
	} else if stored, err := storage.GetString(ctx, services.KeySearchTerm); err == nil {
		term = stored
	}

	var (
		results  []models.Product
		fetchErr error
	)
	if term != "" {
		for _, store := range h.catalog.Stores() {
			all, err := store.FetchAll(ctx)
			if err != nil {
				fetchErr = err
			}
			results = append(results, services.SearchProducts(all, term)...)
		}
	}

	cart := helpers.CartStore(r)
	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":        "Search",
		"SearchTerm":   term,
		"Products":     helpers.NewProductCards(results, cart.InWishlist),
		"ProductCount": len(results),
		"CatalogError": fetchErr != nil && len(results) == 0,
		"RetryURL":     r.URL.RequestURI(),
		"Breadcrumbs":  breadcrumb.Trail(breadcrumb.Breadcrumb{Name: "Search", URL: "/search"}),
	})
	_ = h.render.HTML(w, http.StatusOK, "search", data)
}

func (h *CatalogHandler) pageFor(p models.Product) (models.CategoryPage, bool) {
	for _, page := range h.pages.Pages {
		if page.SubCategory != "" && strings.EqualFold(page.SubCategory, p.SubCategory) {
			return page, true
		}
	}
	for _, page := range h.pages.Pages {
		if page.Category != "" && strings.EqualFold(page.Category, p.Category) {
			return page, true
		}
	}
	return models.CategoryPage{}, false
}

func (h *CatalogHandler) notFound(w http.ResponseWriter, r *http.Request, message string) {
	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":  "Not Found",
		"Reason": message,
	})
	_ = h.render.HTML(w, http.StatusNotFound, "not_found", data)
}

func (h *CatalogHandler) unavailable(w http.ResponseWriter, r *http.Request) {
	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":        "Unavailable",
		"CatalogError": true,
		"RetryURL":     r.URL.RequestURI(),
	})
	_ = h.render.HTML(w, http.StatusServiceUnavailable, "unavailable", data)
}
