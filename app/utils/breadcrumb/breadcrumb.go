package breadcrumb

type Breadcrumb struct {
	Name string
	URL  string
}

// Trail always starts at Home. The last crumb is rendered without a link.
func Trail(crumbs ...Breadcrumb) []Breadcrumb {
	out := make([]Breadcrumb, 0, len(crumbs)+1)
	out = append(out, Breadcrumb{Name: "Home", URL: "/"})
	return append(out, crumbs...)
}
