package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageResolverRules(t *testing.T) {
	t.Parallel()

	r := NewImageResolver("http://assets.test/")
	base := "http://catalog.test/api/mb/products"

	tests := []struct {
		name      string
		body      string
		endpoints bool
		want      []string
	}{
		{
			name: "images array made absolute",
			body: `{"id":"1","images":["/a.png","https://cdn.test/b.png"]}`,
			want: []string{"http://assets.test/a.png", "https://cdn.test/b.png"},
		},
		{
			name: "main and sub image urls",
			body: `{"id":"1","mainImageUrl":"uploads/main.png","subImageUrls":["uploads/1.png"]}`,
			want: []string{"http://assets.test/uploads/main.png", "http://assets.test/uploads/1.png"},
		},
		{
			name: "product main image relative uses endpoints",
			body: `{"productId":"7","productMainImage":"main.png","productSubImages":["x.png","https://cdn.test/y.png"]}`,
			want: []string{base + "/7/image", base + "/7/subimage/0", "https://cdn.test/y.png"},
		},
		{
			name: "product main image absolute kept",
			body: `{"productId":"7","productMainImage":"https://cdn.test/m.png"}`,
			want: []string{"https://cdn.test/m.png"},
		},
		{
			name:      "image endpoints with sub image count",
			body:      `{"id":"5","subImageCount":2}`,
			endpoints: true,
			want:      []string{base + "/5/image", base + "/5/subimage/0", base + "/5/subimage/1"},
		},
		{
			name: "placeholder",
			body: `{"id":"5"}`,
			want: []string{Placeholder("5")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := decodeRaw(t, tt.body)
			id := raw.String("productId", "id")
			assert.Equal(t, tt.want, r.Resolve(raw, id, base, tt.endpoints))
		})
	}
}

func TestPlaceholderIsAbsolute(t *testing.T) {
	t.Parallel()

	assert.True(t, isAbsoluteURL(Placeholder("")))
	assert.Contains(t, Placeholder("42"), "Product+42")
}
