package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Rakhulsr/go-carestore/app/models/other"
)

const placeholderImageBase = "https://via.placeholder.com/300x300?text="

// ImageResolver turns whatever image hints a backend record carries into
// an ordered, non-empty list of absolute URLs.
type ImageResolver struct {
	assetHost string
}

func NewImageResolver(assetHost string) *ImageResolver {
	return &ImageResolver{assetHost: strings.TrimRight(assetHost, "/")}
}

// Resolve applies the first rule that yields at least one URL. baseURL is
// the catalog source the record came from and imageEndpoints tells whether
// that source serves {base}/{id}/image.
func (r *ImageResolver) Resolve(raw other.RawProduct, id, baseURL string, imageEndpoints bool) []string {
	baseURL = strings.TrimRight(baseURL, "/")

	if images := raw.List("images"); len(images) > 0 {
		return r.absoluteAll(images)
	}

	if main := raw.String("mainImageUrl", "image"); main != "" {
		out := []string{r.absolute(main)}
		return append(out, r.absoluteAll(raw.List("subImageUrls"))...)
	}

	if main := raw.String("productMainImage"); main != "" && id != "" {
		out := make([]string, 0, 4)
		if isAbsoluteURL(main) {
			out = append(out, main)
		} else {
			out = append(out, mainImageEndpoint(baseURL, id))
		}
		for i, sub := range raw.List("productSubImages") {
			if isAbsoluteURL(sub) {
				out = append(out, sub)
			} else {
				out = append(out, subImageEndpoint(baseURL, id, i))
			}
		}
		return out
	}

	if imageEndpoints && id != "" && baseURL != "" {
		out := []string{mainImageEndpoint(baseURL, id)}
		count, _ := raw.Int("subImageCount")
		for i := 0; i < count; i++ {
			out = append(out, subImageEndpoint(baseURL, id, i))
		}
		return out
	}

	return []string{Placeholder(id)}
}

// Placeholder is the image used when a record carries no usable hint.
func Placeholder(id string) string {
	label := "No Image"
	if id != "" {
		label = "Product " + id
	}
	return placeholderImageBase + url.QueryEscape(label)
}

func (r *ImageResolver) absoluteAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, r.absolute(p))
		}
	}
	return out
}

func (r *ImageResolver) absolute(path string) string {
	if isAbsoluteURL(path) || r.assetHost == "" {
		return path
	}
	return r.assetHost + "/" + strings.TrimLeft(path, "/")
}

func mainImageEndpoint(baseURL, id string) string {
	return fmt.Sprintf("%s/%s/image", baseURL, url.PathEscape(id))
}

func subImageEndpoint(baseURL, id string, index int) string {
	return fmt.Sprintf("%s/%s/subimage/%d", baseURL, url.PathEscape(id), index)
}

func isAbsoluteURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}
