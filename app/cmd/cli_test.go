package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rakhulsr/go-carestore/app/configs"
	"github.com/Rakhulsr/go-carestore/app/db/seeders"
	"github.com/Rakhulsr/go-carestore/app/repositories"
	"github.com/Rakhulsr/go-carestore/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintCategory(t *testing.T) {
	backend := httptest.NewServer(seeders.DemoCatalog(3, 5))
	defer backend.Close()

	pages, err := configs.ParsePageCatalog([]byte(`
sources:
  - name: pharmacy
    base_url: ` + backend.URL + `/api/products
    by_id: get-product
    all: get-all-products
pages:
  - title: Immunity Booster
    sub_category: Immunity Booster
`))
	require.NoError(t, err)

	catalog := buildCatalog(configs.ENV{CatalogPageSize: 50}, pages, repositories.NewNoopCatalogCache())

	var out bytes.Buffer
	err = printCategory(context.Background(), &out, pages, catalog, "immunity-booster", nil, services.SortPriceLowHigh)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Immunity Booster (5 products)", lines[0])
	assert.True(t, strings.HasPrefix(lines[6], "Total: ₹"), lines[6])
}

func TestPrintCategory_UnknownPage(t *testing.T) {
	pages, err := configs.ParsePageCatalog([]byte("sources: [{name: a, base_url: 'http://127.0.0.1:1'}]"))
	require.NoError(t, err)

	err = printCategory(context.Background(), &bytes.Buffer{}, pages, buildCatalog(configs.ENV{}, pages, nil), "missing", nil, "")
	assert.Error(t, err)
}
