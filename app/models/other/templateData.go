package other

import (
	"html/template"
	"net/url"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/utils/breadcrumb"
)

type BasePageData struct {
	Title         string
	CartCount     int
	WishlistCount int
	CSRFToken     string
	CSRFField     template.HTML
	Message       string
	MessageStatus string
	Query         url.Values
	Breadcrumbs   []breadcrumb.Breadcrumb
	CurrentPath   string
	SearchTerm    string
	NavPages      []models.CategoryPage
}
