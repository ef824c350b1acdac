package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/models/other"
	"github.com/Rakhulsr/go-carestore/app/repositories"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultPageSize = 10
	pagedAllPath    = "get-all-products"
)

// CatalogStore reads one backend catalog source. It never mutates shared
// state: list reads always return a usable slice, and any error it
// returns wraps ErrCatalogUnavailable or ErrProductNotFound.
type CatalogStore struct {
	source      models.CatalogSource
	baseURL     string
	client      *http.Client
	transformer *ProductTransformer
	cache       repositories.CatalogCache
	group       singleflight.Group
	pageSize    int
}

type CatalogOption func(*CatalogStore)

func WithHTTPClient(client *http.Client) CatalogOption {
	return func(s *CatalogStore) { s.client = client }
}

// WithTimeout bounds each backend call. Zero means no timeout.
func WithTimeout(timeout time.Duration) CatalogOption {
	return func(s *CatalogStore) { s.client = &http.Client{Timeout: timeout} }
}

func WithCache(cache repositories.CatalogCache) CatalogOption {
	return func(s *CatalogStore) {
		if cache != nil {
			s.cache = cache
		}
	}
}

func WithPageSize(size int) CatalogOption {
	return func(s *CatalogStore) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

func NewCatalogStore(source models.CatalogSource, resolver *ImageResolver, opts ...CatalogOption) *CatalogStore {
	s := &CatalogStore{
		source:      source,
		baseURL:     strings.TrimRight(source.BaseURL, "/"),
		client:      &http.Client{},
		transformer: NewProductTransformer(source, resolver),
		cache:       repositories.NewNoopCatalogCache(),
		pageSize:    DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CatalogStore) Source() models.CatalogSource {
	return s.source
}

func (s *CatalogStore) Transformer() *ProductTransformer {
	return s.transformer
}

func (s *CatalogStore) doRequest(ctx context.Context, path string) ([]byte, error) {
	fullURL := s.baseURL + "/" + path
	log.Debug().Str("source", s.source.Name).Str("url", fullURL).Msg("CatalogStore.doRequest")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrCatalogUnavailable, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrCatalogUnavailable, path, resp.StatusCode)
	}
	return body, nil
}

// FetchByID returns ErrProductNotFound when the backend has no such
// product and ErrCatalogUnavailable when it cannot be reached.
func (s *CatalogStore) FetchByID(ctx context.Context, id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrProductNotFound
	}

	path := url.PathEscape(id)
	if s.source.ByIDPath != "" {
		path = strings.Trim(s.source.ByIDPath, "/") + "/" + path
	}

	v, err, _ := s.group.Do("id:"+path, func() (interface{}, error) {
		var cached models.Product
		if s.cacheGet(ctx, path, &cached) {
			return &cached, nil
		}

		body, err := s.doRequest(ctx, path)
		if err != nil {
			return nil, err
		}

		trimmed := strings.TrimSpace(string(body))
		if trimmed == "" || trimmed == "null" {
			return nil, ErrProductNotFound
		}

		raw, err := other.DecodeRawProduct(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
		}
		product := s.transformer.Transform(raw)
		if product.ID == "" {
			product.ID = id
		}

		s.cacheSet(ctx, path, product)
		return &product, nil
	})
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			log.Error().Err(err).Str("source", s.source.Name).Str("id", id).Msg("CatalogStore.FetchByID: fetch failed")
		}
		return nil, err
	}

	product := *v.(*models.Product)
	return &product, nil
}

// FetchBySubcategory falls back to the whole catalog when the
// sub-category yields nothing.
func (s *CatalogStore) FetchBySubcategory(ctx context.Context, name string) ([]models.Product, error) {
	products, err := s.fetchList(ctx, "get-by-sub-category/"+url.PathEscape(name))
	if len(products) > 0 {
		return products, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("sub_category", name).Msg("CatalogStore.FetchBySubcategory: falling back to full catalog")
	}
	return s.FetchAll(ctx)
}

func (s *CatalogStore) FetchByCategory(ctx context.Context, name string) ([]models.Product, error) {
	return s.fetchList(ctx, "get-by-category/"+url.PathEscape(name))
}

// FetchForPage loads the listing behind a category page: its sub-category
// when set, else its category, else the whole catalog.
func (s *CatalogStore) FetchForPage(ctx context.Context, page models.CategoryPage) ([]models.Product, error) {
	switch {
	case page.SubCategory != "":
		return s.FetchBySubcategory(ctx, page.SubCategory)
	case page.Category != "":
		return s.FetchByCategory(ctx, page.Category)
	default:
		return s.FetchAll(ctx)
	}
}

func (s *CatalogStore) FetchAll(ctx context.Context) ([]models.Product, error) {
	if s.paged() {
		return s.FetchPage(ctx, 0, s.pageSize)
	}
	return s.fetchList(ctx, s.allPath())
}

// FetchPage reads one page. Sources without server-side paging are
// sliced locally.
func (s *CatalogStore) FetchPage(ctx context.Context, page, size int) ([]models.Product, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = s.pageSize
	}

	if s.paged() {
		q := url.Values{}
		q.Set("page", fmt.Sprint(page))
		q.Set("size", fmt.Sprint(size))
		return s.fetchList(ctx, s.allPath()+"?"+q.Encode())
	}

	all, err := s.fetchList(ctx, s.allPath())
	start := page * size
	if start >= len(all) {
		return []models.Product{}, err
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], err
}

// Related lists other products of the same category, topped up from the
// first catalog page when the category is too small.
func (s *CatalogStore) Related(ctx context.Context, product models.Product, limit int) ([]models.Product, error) {
	if limit <= 0 {
		return []models.Product{}, nil
	}

	related := make([]models.Product, 0, limit)
	seen := map[string]struct{}{product.ID: {}}

	sameCategory, err := s.FetchByCategory(ctx, product.Category)
	for _, p := range sameCategory {
		if len(related) == limit {
			break
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		related = append(related, p)
	}
	if len(related) == limit {
		return related, nil
	}

	others, allErr := s.FetchAll(ctx)
	for _, p := range others {
		if len(related) == limit {
			break
		}
		if _, ok := seen[p.ID]; ok || p.Category == product.Category {
			continue
		}
		seen[p.ID] = struct{}{}
		related = append(related, p)
	}

	if len(related) == 0 {
		return related, errors.Join(err, allErr)
	}
	return related, nil
}

func (s *CatalogStore) fetchList(ctx context.Context, path string) ([]models.Product, error) {
	v, err, _ := s.group.Do("list:"+path, func() (interface{}, error) {
		var cached []models.Product
		if s.cacheGet(ctx, path, &cached) {
			return cached, nil
		}

		body, err := s.doRequest(ctx, path)
		if err != nil {
			return nil, err
		}
		raws, err := other.DecodeProductList(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
		}

		products := s.transformer.TransformAll(raws)
		s.cacheSet(ctx, path, products)
		return products, nil
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			// an unknown category is an empty one
			return []models.Product{}, nil
		}
		log.Error().Err(err).Str("source", s.source.Name).Str("path", path).Msg("CatalogStore.fetchList: degraded to empty list")
		return []models.Product{}, err
	}

	shared := v.([]models.Product)
	out := make([]models.Product, len(shared))
	copy(out, shared)
	return out, nil
}

func (s *CatalogStore) paged() bool {
	return strings.Trim(s.source.AllPath, "/") == pagedAllPath
}

func (s *CatalogStore) allPath() string {
	if p := strings.Trim(s.source.AllPath, "/"); p != "" {
		return p
	}
	return "get-all"
}

func (s *CatalogStore) cacheKey(path string) string {
	return s.source.Name + ":" + path
}

func (s *CatalogStore) cacheGet(ctx context.Context, path string, dest interface{}) bool {
	hit, err := s.cache.Get(ctx, s.cacheKey(path), dest)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("CatalogStore.cacheGet: cache read failed, fetching directly")
		return false
	}
	return hit
}

func (s *CatalogStore) cacheSet(ctx context.Context, path string, value interface{}) {
	if err := s.cache.Set(ctx, s.cacheKey(path), value); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("CatalogStore.cacheSet: cache write failed")
	}
}

// Catalog groups the configured sources by name.
type Catalog struct {
	stores  map[string]*CatalogStore
	ordered []*CatalogStore
}

func NewCatalog(stores ...*CatalogStore) *Catalog {
	c := &Catalog{stores: make(map[string]*CatalogStore, len(stores))}
	for _, s := range stores {
		if _, dup := c.stores[s.source.Name]; dup {
			continue
		}
		c.stores[s.source.Name] = s
		c.ordered = append(c.ordered, s)
	}
	return c
}

// Stores lists sources in configuration order.
func (c *Catalog) Stores() []*CatalogStore {
	out := make([]*CatalogStore, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c *Catalog) Store(source string) (*CatalogStore, bool) {
	s, ok := c.stores[source]
	return s, ok
}

// Default is the first configured source; search and fallbacks use it.
func (c *Catalog) Default() *CatalogStore {
	if len(c.ordered) == 0 {
		return nil
	}
	return c.ordered[0]
}
