package routes

import (
	"net/http"

	"github.com/Rakhulsr/go-carestore/app/handlers"
	"github.com/Rakhulsr/go-carestore/app/middlewares"
	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/repositories"
	"github.com/Rakhulsr/go-carestore/app/services"
	"github.com/Rakhulsr/go-carestore/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type Deps struct {
	Render         *render.Render
	Pages          models.PageCatalog
	Catalog        *services.Catalog
	Storage        repositories.StorageRepository
	Sessions       sessions.SessionStore
	Uploads        *services.UploadRegistry
	UploadMaxBytes int64
	// CSRFKey enables form protection when set.
	CSRFKey      []byte
	SecureCookie bool
}

func NewRouter(d Deps) http.Handler {
	router := mux.NewRouter()

	home := handlers.NewHomeHandler(d.Render, d.Pages, d.Catalog)
	router.HandleFunc("/healthz", home.Healthz).Methods("GET")

	site := router.PathPrefix("/").Subrouter()
	site.Use(
		middlewares.RequestLogger,
		middlewares.NavPagesMiddleware(d.Pages.Pages),
		middlewares.BrowserSessionMiddleware(d.Sessions, d.Storage),
		middlewares.CartCountMiddleware,
	)

	catalog := handlers.NewCatalogHandler(d.Render, d.Pages, d.Catalog, d.Storage)
	cart := handlers.NewCartHandler(d.Render, d.Catalog)
	wishlist := handlers.NewWishlistHandler(d.Render, d.Catalog)
	prescriptions := handlers.NewPrescriptionHandler(d.Render, d.Catalog, d.Storage, d.Uploads, d.UploadMaxBytes)

	site.HandleFunc("/", home.Home).Methods("GET")
	site.HandleFunc("/c/{slug}", catalog.CategoryPage).Methods("GET")
	site.HandleFunc("/products/{source}/{id}", catalog.ProductDetail).Methods("GET")
	site.HandleFunc("/search", catalog.Search).Methods("GET")

	site.HandleFunc("/cart", cart.GetCart).Methods("GET")
	site.HandleFunc("/cart/count", cart.CartCount).Methods("GET")
	site.HandleFunc("/cart/add", cart.AddItemCart).Methods("POST")
	site.HandleFunc("/cart/update", cart.UpdateItemCart).Methods("POST")
	site.HandleFunc("/cart/remove", cart.RemoveItemCart).Methods("POST")
	site.HandleFunc("/cart/clear", cart.ClearCart).Methods("POST")

	site.HandleFunc("/wishlist", wishlist.GetWishlist).Methods("GET")
	site.HandleFunc("/wishlist/toggle", wishlist.Toggle).Methods("POST")
	site.HandleFunc("/wishlist/move", wishlist.Move).Methods("POST")
	site.HandleFunc("/wishlist/remove", wishlist.Remove).Methods("POST")
	site.HandleFunc("/wishlist/clear", wishlist.Clear).Methods("POST")

	site.HandleFunc("/prescriptions/{source}/{id}", prescriptions.Show).Methods("GET")
	site.HandleFunc("/prescriptions/{source}/{id}/stage", prescriptions.Stage).Methods("POST")
	site.HandleFunc("/prescriptions/{source}/{id}/submit", prescriptions.Submit).Methods("POST")
	site.HandleFunc("/prescriptions/{source}/{id}/cancel", prescriptions.Cancel).Methods("POST")

	if len(d.CSRFKey) == 0 {
		return router
	}
	return csrf.Protect(d.CSRFKey,
		csrf.Secure(d.SecureCookie),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
	)(router)
}
