package models

// CatalogSource describes one backend product API. Two shapes exist in the
// wild: "{base}/get-product/{id}" with "get-all-products" paging, and
// "{base}/{id}" with a flat "get-all".
type CatalogSource struct {
	Name           string `yaml:"name"`
	BaseURL        string `yaml:"base_url"`
	ByIDPath       string `yaml:"by_id"`
	AllPath        string `yaml:"all"`
	ImageEndpoints bool   `yaml:"image_endpoints"`
}

// CategoryPage is one storefront listing page, parameterized by the
// backend sub-category (or category) it shows.
type CategoryPage struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Source      string `yaml:"source"`
	Category    string `yaml:"category"`
	SubCategory string `yaml:"sub_category"`
	Description string `yaml:"description"`
}

type PageCatalog struct {
	Sources []CatalogSource `yaml:"sources"`
	Pages   []CategoryPage  `yaml:"pages"`
}

func (c PageCatalog) Source(name string) (CatalogSource, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return CatalogSource{}, false
}

func (c PageCatalog) Page(slug string) (CategoryPage, bool) {
	for _, p := range c.Pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return CategoryPage{}, false
}
