package wooapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelink/woosync/internal/adapters/logger"
)

var testCred = Credential{Token: "ck_test", Secret: "cs_test"}

func productsPayload() string {
	return `[
		{"id": 1, "name": "Hoodie", "sku": "HD-1", "price": "19.99", "stock_quantity": 3,
		 "images": [{"id": 10, "src": "https://store.example/img/hoodie.jpg"}]},
		{"id": 2, "name": "Mug", "sku": "MG-2", "price": "4.50", "stock_quantity": 0, "images": []}
	]`
}

func TestGetProductsPage(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.RequestURI()
		w.Header().Set("X-WP-Total", "2")
		w.Header().Set("X-WP-TotalPages", "1")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(productsPayload()))
	}))
	defer server.Close()

	page, err := GetProductsPage(context.Background(), server.URL, testCred, logger.NewNopLogger(), 10, 1)
	require.NoError(t, err)

	assert.Equal(t, "/wp-json/wc/v3/products?per_page=10&page=1", gotPath)
	assert.Equal(t, testCred.BasicAuthHeader(), gotAuth)

	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Products, 2)
	assert.Equal(t, int64(1), page.Products[0].ID)
	assert.Equal(t, "Hoodie", page.Products[0].Name)
	assert.Equal(t, "19.99", page.Products[0].Price)
	assert.Equal(t, int64(2), page.Products[1].ID)
	assert.Equal(t, 0, page.Products[1].StockQuantity)
}

func TestGetProductsPageForwardsPaginationVerbatim(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Header().Set("X-WP-Total", "0")
		w.Header().Set("X-WP-TotalPages", "0")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	// Out-of-range values are the store's problem, not the client's.
	_, err := GetProductsPage(context.Background(), server.URL, testCred, logger.NewNopLogger(), 500, 0)
	require.NoError(t, err)
	assert.Equal(t, "/wp-json/wc/v3/products?per_page=500&page=0", gotPath)
}

func TestGetProductsPageMissingTotalsHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productsPayload()))
	}))
	defer server.Close()

	_, err := GetProductsPage(context.Background(), server.URL, testCred, logger.NewNopLogger(), 10, 1)
	require.Error(t, err)
	assert.True(t, IsSchemaMismatchError(err))
}

func TestGetProductsPageNonNumericTotalsHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-Total", "two")
		w.Header().Set("X-WP-TotalPages", "1")
		w.Write([]byte(productsPayload()))
	}))
	defer server.Close()

	_, err := GetProductsPage(context.Background(), server.URL, testCred, logger.NewNopLogger(), 10, 1)
	require.Error(t, err)
	assert.True(t, IsSchemaMismatchError(err))
}

func TestGetProductsPageUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "boom"}`))
	}))
	defer server.Close()

	_, err := GetProductsPage(context.Background(), server.URL, testCred, logger.NewNopLogger(), 10, 1)
	require.Error(t, err)
	assert.True(t, IsUnexpectedStatusError(err))
}

func TestGetProductsPageMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-Total", "1")
		w.Header().Set("X-WP-TotalPages", "1")
		w.Write([]byte(`[{"id": "not-a-number"}]`))
	}))
	defer server.Close()

	_, err := GetProductsPage(context.Background(), server.URL, testCred, logger.NewNopLogger(), 10, 1)
	require.Error(t, err)
	assert.True(t, IsSchemaMismatchError(err))
}

func TestGetProductsPageTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	_, err := GetProductsPage(context.Background(), server.URL, testCred, logger.NewNopLogger(), 10, 1)
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
}

func TestGetProductsPagePayloadNeverMutated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-Total", "2")
		w.Header().Set("X-WP-TotalPages", "1")
		w.Write([]byte(productsPayload()))
	}))
	defer server.Close()

	page, err := GetProductsPage(context.Background(), server.URL, testCred, logger.NewNopLogger(), 10, 1)
	require.NoError(t, err)

	var raw WooProducts
	require.NoError(t, json.Unmarshal([]byte(productsPayload()), &raw))
	assert.Equal(t, ConvertProducts(raw), page.Products)
}
