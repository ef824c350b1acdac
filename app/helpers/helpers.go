package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/models/other"
	"github.com/Rakhulsr/go-carestore/app/services"
	"github.com/Rakhulsr/go-carestore/app/utils/breadcrumb"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	ContextKeyBrowserID contextKey = "browserID"
	ContextKeyCartStore contextKey = "cartStore"
	ContextKeyNavPages  contextKey = "navPages"
	CartCountKey        contextKey = "cart_count"
	WishlistCountKey    contextKey = "wishlist_count"
)

const defaultTitle = "CareStore"

var Validate = validator.New()

func BrowserID(r *http.Request) string {
	id, _ := r.Context().Value(ContextKeyBrowserID).(string)
	return id
}

func CartStore(r *http.Request) *services.CartStore {
	store, _ := r.Context().Value(ContextKeyCartStore).(*services.CartStore)
	return store
}

// NewBasePageData collects what every page layout needs from the request.
func NewBasePageData(r *http.Request) other.BasePageData {
	q := r.URL.Query()
	data := other.BasePageData{
		Title:         defaultTitle,
		CSRFToken:     csrf.Token(r),
		CSRFField:     csrf.TemplateField(r),
		Message:       q.Get("message"),
		MessageStatus: q.Get("status"),
		Query:         q,
		Breadcrumbs:   []breadcrumb.Breadcrumb{},
		CurrentPath:   r.URL.Path,
		SearchTerm:    q.Get("q"),
	}

	if v := r.Context().Value(CartCountKey); v != nil {
		if count, ok := v.(int); ok {
			data.CartCount = count
		} else {
			log.Warn().Interface("value", v).Msg("NewBasePageData: cart count in context is not an int")
		}
	}
	if count, ok := r.Context().Value(WishlistCountKey).(int); ok {
		data.WishlistCount = count
	}
	if pages, ok := r.Context().Value(ContextKeyNavPages).([]models.CategoryPage); ok {
		data.NavPages = pages
	}
	return data
}

// GetBaseData fills the layout keys a handler did not set itself.
func GetBaseData(r *http.Request, pageSpecificData map[string]interface{}) map[string]interface{} {
	if pageSpecificData == nil {
		pageSpecificData = make(map[string]interface{})
	}

	base := NewBasePageData(r)
	defaults := map[string]interface{}{
		"Title":         base.Title,
		"CartCount":     base.CartCount,
		"WishlistCount": base.WishlistCount,
		"CSRFToken":     base.CSRFToken,
		"CSRFField":     base.CSRFField,
		"Message":       base.Message,
		"MessageStatus": base.MessageStatus,
		"Query":         base.Query,
		"Breadcrumbs":   base.Breadcrumbs,
		"CurrentPath":   base.CurrentPath,
		"SearchTerm":    base.SearchTerm,
		"NavPages":      base.NavPages,
	}
	for k, v := range defaults {
		if _, exists := pageSpecificData[k]; !exists {
			pageSpecificData[k] = v
		}
	}
	return pageSpecificData
}

// RedirectWithMessage sends the browser to target carrying a transient
// notification in the query string.
func RedirectWithMessage(w http.ResponseWriter, r *http.Request, target, status, message string) {
	u, err := url.Parse(target)
	if err != nil || !strings.HasPrefix(u.Path, "/") || u.Host != "" {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	q.Set("status", status)
	q.Set("message", message)
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// BackTo returns a same-site path to return to after a form post.
func BackTo(r *http.Request, fallback string) string {
	if next := r.FormValue("next"); strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return fallback
}

// UserMessage maps an operation error to the notification shown to the
// shopper.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, services.ErrOutOfStock):
		return "Sorry, this product is out of stock."
	case errors.Is(err, services.ErrSizeRequired):
		return "Please select a size before adding to cart."
	case errors.Is(err, services.ErrInvalidSize):
		return "Please select one of the available sizes."
	case errors.Is(err, services.ErrInvalidQuantity):
		return "Quantity must be at least 1."
	case errors.Is(err, services.ErrLineNotFound):
		return "That item is no longer in your list."
	case errors.Is(err, services.ErrMissingFile):
		return "Please choose a prescription file first."
	case errors.Is(err, services.ErrFileTooLarge):
		return "The prescription file is too large."
	case errors.Is(err, services.ErrProductNotFound):
		return "Product not found."
	case errors.Is(err, services.ErrCatalogUnavailable):
		return "We could not load products right now. Please retry."
	default:
		return "Something went wrong. Please try again."
	}
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", err.Field())
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s must be a number.", err.Field())
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s.", err.Field(), err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s.", err.Field(), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed %s validation.", err.Field(), err.Tag())
		}
	}
	return errorMessages
}

// FirstValidationMessage flattens a validation failure into one line for
// a flash notification.
func FirstValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request."
	}
	return FormatValidationErrors(verrs[:1])[strings.ToLower(verrs[0].Field())]
}
