package configs

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed pages.default.yaml
var defaultPages []byte

// LoadPageCatalog reads the category pages and catalog sources from path.
// A missing file falls back to the built-in catalog.
func LoadPageCatalog(path string) (models.PageCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return models.PageCatalog{}, fmt.Errorf("read %s: %w", path, err)
		}
		log.Info().Str("path", path).Msg("LoadPageCatalog: file not found, using built-in pages")
		data = defaultPages
	}
	return ParsePageCatalog(data)
}

func ParsePageCatalog(data []byte) (models.PageCatalog, error) {
	var catalog models.PageCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return models.PageCatalog{}, fmt.Errorf("parse pages: %w", err)
	}

	if len(catalog.Sources) == 0 {
		return models.PageCatalog{}, errors.New("pages: at least one source is required")
	}

	seenSources := make(map[string]bool, len(catalog.Sources))
	for i, s := range catalog.Sources {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return models.PageCatalog{}, fmt.Errorf("pages: source %d has no name", i)
		}
		if strings.TrimSpace(s.BaseURL) == "" {
			return models.PageCatalog{}, fmt.Errorf("pages: source %q has no base_url", name)
		}
		if seenSources[name] {
			return models.PageCatalog{}, fmt.Errorf("pages: duplicate source %q", name)
		}
		seenSources[name] = true
		catalog.Sources[i].Name = name
	}

	seenSlugs := make(map[string]bool, len(catalog.Pages))
	for i := range catalog.Pages {
		p := &catalog.Pages[i]
		if strings.TrimSpace(p.Title) == "" {
			return models.PageCatalog{}, fmt.Errorf("pages: page %d has no title", i)
		}
		if p.Slug == "" {
			p.Slug = slug.Make(p.Title)
		} else if !slug.IsSlug(p.Slug) {
			return models.PageCatalog{}, fmt.Errorf("pages: %q is not a valid slug", p.Slug)
		}
		if p.Source == "" {
			p.Source = catalog.Sources[0].Name
		}
		if !seenSources[p.Source] {
			return models.PageCatalog{}, fmt.Errorf("pages: page %q uses unknown source %q", p.Slug, p.Source)
		}
		if seenSlugs[p.Slug] {
			return models.PageCatalog{}, fmt.Errorf("pages: duplicate slug %q", p.Slug)
		}
		seenSlugs[p.Slug] = true
	}

	return catalog, nil
}
