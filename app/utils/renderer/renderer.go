package renderer

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/Rakhulsr/go-carestore/app/utils/format"
	"github.com/unrolled/render"
)

// New builds the page renderer over the given template tree. Pass
// views.Templates in production.
func New(templates embed.FS, development bool) *render.Render {
	return render.New(render.Options{
		Directory:     "templates",
		FileSystem:    &render.EmbedFileSystem{FS: templates},
		Layout:        "layout",
		Extensions:    []string{".html"},
		IsDevelopment: development,
		Funcs: []template.FuncMap{
			{
				"until": func(count int) []int {
					items := make([]int, count)
					for i := 0; i < count; i++ {
						items[i] = i
					}
					return items
				},
				"add":     func(a, b int) int { return a + b },
				"sub":     func(a, b int) int { return a - b },
				"rupee":   format.FormatRupee,
				"dataURL": dataURL,
				"dict":    dict,
				"min": func(a, b int) int {
					if a < b {
						return a
					}
					return b
				},
			},
		},
	})
}

// dataURL lets inline image and PDF previews through html/template's URL
// filter. Anything else collapses to an empty attribute.
func dataURL(raw string) template.URL {
	if strings.HasPrefix(raw, "data:image/") || strings.HasPrefix(raw, "data:application/pdf") {
		return template.URL(raw)
	}
	return ""
}

// dict builds a map from alternating keys and values so partials can take
// more than one argument.
func dict(pairs ...interface{}) (map[string]interface{}, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	out := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		out[key] = pairs[i+1]
	}
	return out, nil
}
