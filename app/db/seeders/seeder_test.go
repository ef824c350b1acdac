package seeders

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Rakhulsr/go-carestore/app/db/fakers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeeder_Deterministic(t *testing.T) {
	a := NewSeeder(42, 3, fakers.PharmacyTemplates)
	b := NewSeeder(42, 3, fakers.PharmacyTemplates)

	require.Len(t, a.Products(), 3*len(fakers.PharmacyTemplates))
	for i, p := range a.Products() {
		q := b.Products()[i]
		for _, key := range []string{"productId", "productName", "brandName", "productPrice", "productSubCategory", "prescriptionRequired"} {
			assert.Equal(t, p[key], q[key], key)
		}
		assert.NotEmpty(t, p["productDescription"])
		assert.NotEmpty(t, p["benefitsList"])
	}
	assert.Equal(t, "1", a.Products()[0]["productId"])
}

func TestDemoCatalog(t *testing.T) {
	server := httptest.NewServer(DemoCatalog(7, 4))
	defer server.Close()

	getJSON := func(path string, dest interface{}) int {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
		}
		return resp.StatusCode
	}

	var product map[string]interface{}
	require.Equal(t, http.StatusOK, getJSON("/api/products/get-product/1", &product))
	assert.Equal(t, "Pain Relief And Fever", product["productSubCategory"])

	var list []map[string]interface{}
	require.Equal(t, http.StatusOK, getJSON("/api/products/get-by-sub-category/"+url.PathEscape("Immunity Booster"), &list))
	assert.Len(t, list, 4)

	var envelope struct {
		Content    []map[string]interface{} `json:"content"`
		TotalPages int                      `json:"totalPages"`
	}
	require.Equal(t, http.StatusOK, getJSON("/api/products/get-all-products?page=1&size=5", &envelope))
	assert.Len(t, envelope.Content, 5)
	assert.Equal(t, 4, envelope.TotalPages)

	var mb []map[string]interface{}
	require.Equal(t, http.StatusOK, getJSON("/api/mb/products/get-all", &mb))
	assert.Len(t, mb, 8)
	assert.Contains(t, mb[0], "sizes")

	assert.Equal(t, http.StatusNotFound, getJSON("/api/products/get-product/999", &product))
}
