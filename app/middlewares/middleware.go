package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/Rakhulsr/go-carestore/app/helpers"
	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/repositories"
	"github.com/Rakhulsr/go-carestore/app/services"
	"github.com/Rakhulsr/go-carestore/app/utils/sessions"
	"github.com/rs/zerolog/log"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// BrowserSessionMiddleware issues the browser ID cookie and loads that
// browser's cart and wishlist for the request.
func BrowserSessionMiddleware(store sessions.SessionStore, repo repositories.StorageRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			browserID, err := store.EnsureBrowserID(w, r)
			if err != nil {
				log.Error().Err(err).Msg("BrowserSessionMiddleware: failed to issue browser id")
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}

			cart, err := services.LoadCartStore(r.Context(), services.NewBrowserStorage(repo, browserID))
			if err != nil {
				log.Error().Err(err).Str("browser_id", browserID).Msg("BrowserSessionMiddleware: failed to load cart")
				http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyBrowserID, browserID)
			ctx = context.WithValue(ctx, helpers.ContextKeyCartStore, cart)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CartCountMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cart := helpers.CartStore(r)
		if cart == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), helpers.CartCountKey, cart.Count())
		ctx = context.WithValue(ctx, helpers.WishlistCountKey, len(cart.Wishlist()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func NavPagesMiddleware(pages []models.CategoryPage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), helpers.ContextKeyNavPages, pages)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
