package seeders

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/go-carestore/app/db/fakers"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

// Seeder holds the generated records of one fake backend.
type Seeder struct {
	products []map[string]interface{}
	byID     map[string]map[string]interface{}
}

func NewSeeder(seed int64, perTemplate int, templates []fakers.ProductTemplate) *Seeder {
	rng := rand.New(rand.NewSource(seed))
	s := &Seeder{byID: make(map[string]map[string]interface{})}

	id := 1
	for _, tpl := range templates {
		for i := 0; i < perTemplate; i++ {
			p := fakers.ProductFaker(rng, id, tpl)
			s.products = append(s.products, p)
			s.byID[p["productId"].(string)] = p
			id++
		}
	}
	return s
}

func (s *Seeder) Products() []map[string]interface{} {
	return s.products
}

func (s *Seeder) filter(field, value string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0)
	for _, p := range s.products {
		if v, _ := p[field].(string); strings.EqualFold(v, value) {
			out = append(out, p)
		}
	}
	return out
}

// DemoCatalog serves a pharmacy backend under /api/products and a
// mother-and-baby backend under /api/mb/products, matching the built-in
// pages.
func DemoCatalog(seed int64, perTemplate int) http.Handler {
	r := render.New()
	pharmacy := NewSeeder(seed, perTemplate, fakers.PharmacyTemplates)
	mothercare := NewSeeder(seed+1, perTemplate, fakers.MotherCareTemplates)

	router := mux.NewRouter()

	api := router.PathPrefix("/api/products").Subrouter()
	api.HandleFunc("/get-product/{id}", func(w http.ResponseWriter, req *http.Request) {
		p, ok := pharmacy.byID[mux.Vars(req)["id"]]
		if !ok {
			http.NotFound(w, req)
			return
		}
		_ = r.JSON(w, http.StatusOK, p)
	}).Methods("GET")
	api.HandleFunc("/get-by-category/{name}", func(w http.ResponseWriter, req *http.Request) {
		_ = r.JSON(w, http.StatusOK, pharmacy.filter("productCategory", mux.Vars(req)["name"]))
	}).Methods("GET")
	api.HandleFunc("/get-by-sub-category/{name}", func(w http.ResponseWriter, req *http.Request) {
		_ = r.JSON(w, http.StatusOK, pharmacy.filter("productSubCategory", mux.Vars(req)["name"]))
	}).Methods("GET")
	api.HandleFunc("/get-all-products", func(w http.ResponseWriter, req *http.Request) {
		_ = r.JSON(w, http.StatusOK, page(pharmacy.products, req))
	}).Methods("GET")

	mb := router.PathPrefix("/api/mb/products").Subrouter()
	mb.HandleFunc("/get-all", func(w http.ResponseWriter, req *http.Request) {
		_ = r.JSON(w, http.StatusOK, mothercare.products)
	}).Methods("GET")
	mb.HandleFunc("/{id}", func(w http.ResponseWriter, req *http.Request) {
		p, ok := mothercare.byID[mux.Vars(req)["id"]]
		if !ok {
			http.NotFound(w, req)
			return
		}
		_ = r.JSON(w, http.StatusOK, p)
	}).Methods("GET")
	mb.HandleFunc("/{id}/image", placeholderImage).Methods("GET")
	mb.HandleFunc("/{id}/subimage/{index:[0-9]+}", placeholderImage).Methods("GET")

	router.PathPrefix("/images/").HandlerFunc(placeholderImage)
	return router
}

func page(all []map[string]interface{}, req *http.Request) map[string]interface{} {
	number, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, err := strconv.Atoi(req.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = 10
	}
	if number < 0 {
		number = 0
	}

	start := number * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}

	return map[string]interface{}{
		"content":       all[start:end],
		"totalElements": len(all),
		"totalPages":    (len(all) + size - 1) / size,
		"number":        number,
		"size":          size,
	}
}

func placeholderImage(w http.ResponseWriter, req *http.Request) {
	http.Redirect(w, req, "https://via.placeholder.com/300x300?text=CareStore", http.StatusFound)
}
