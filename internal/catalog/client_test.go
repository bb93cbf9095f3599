package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductPage_DecodesMixedPriceEncodings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/product/product-page/1", r.URL.Path)
		w.Write([]byte(`{
			"success": true,
			"products": [
				{"_id":"p1","name":"Serum","slug":"serum","price":1500,"quantity":{"$numberInt":"10"}},
				{"_id":"p2","name":"Balm","slug":"balm","price":{"$numberDecimal":"999.99"},"discountPercent":20,"quantity":{"$numberInt":"0"}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	products, err := client.ProductPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, 1500.0, products[0].Price.Normalize())
	assert.True(t, products[0].InStock())

	assert.InDelta(t, 999.99, products[1].Price.Normalize(), 1e-9)
	assert.False(t, products[1].InStock())
}

func TestProduct_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/product/get-product/serum", r.URL.Path)
		w.Write([]byte(`{"success":true,"product":{"_id":"p1","slug":"serum","name":"Serum"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	p, err := client.Product(context.Background(), "serum")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}

func TestProduct_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	_, err := client.Product(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/category/get-category", r.URL.Path)
		w.Write([]byte(`{"success":true,"category":[{"_id":"c1","name":"Skincare","slug":"skincare"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "skincare", categories[0].Slug)
}

func TestProductCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"total":42}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	total, err := client.ProductCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, total)
}

func TestFilterProducts_SendsCheckedAndRadio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/product/product-filters", r.URL.Path)
		w.Write([]byte(`{"success":true,"products":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	products, err := client.FilterProducts(context.Background(), []string{"c1"}, []float64{0, 1000})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestAddReview_SendsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/review/add/p1", r.URL.Path)
		assert.Equal(t, "token-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	err := client.AddReview(context.Background(), "token-123", "p1", Review{Rating: 5, Comment: "lovely"})
	assert.NoError(t, err)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := client.ProductCount(ctx)
		require.Error(t, err)
	}

	_, err := client.ProductCount(ctx)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestPhotoURL(t *testing.T) {
	client := NewClient("https://shop.example.com", nil)
	assert.Equal(t,
		"https://shop.example.com/api/v1/product/product-photo/p1",
		client.PhotoURL("p1"))
}
