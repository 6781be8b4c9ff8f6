package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appcatalog "ibook/internal/application/catalog"
	"ibook/internal/infrastructure/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	service := appcatalog.NewService(memory.NewCatalogStore(nil), nil, nil)
	server := httptest.NewServer(NewHandler(service).Router())
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func createProduct(t *testing.T, server *httptest.Server, name, category string, price float64) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, server.URL+"/products", map[string]any{
		"name": name, "category": category, "description": "", "price": price,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)
	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProductLifecycle(t *testing.T) {
	server := newTestServer(t)

	// Create.
	resp := doJSON(t, http.MethodPost, server.URL+"/products", map[string]any{
		"name": "Milk", "category": "Dairy", "description": "whole milk", "price": 2.50,
	})
	var created appcatalog.ProductView
	decodeBody(t, resp, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Milk", created.Name)

	// Duplicate identity conflicts.
	resp = doJSON(t, http.MethodPost, server.URL+"/products", map[string]any{
		"name": "Milk", "category": "Dairy", "description": "", "price": 1.00,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Read it back.
	resp = doJSON(t, http.MethodGet, server.URL+"/products/Milk/Dairy", nil)
	var got appcatalog.ProductView
	decodeBody(t, resp, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "whole milk", got.Description)

	// Update only the price.
	resp = doJSON(t, http.MethodPut, server.URL+"/products/Milk/Dairy", map[string]any{
		"price": 2.80,
	})
	var updated appcatalog.ProductView
	decodeBody(t, resp, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2.80, updated.Price)
	assert.Equal(t, "whole milk", updated.Description)

	// Delete.
	resp = doJSON(t, http.MethodDelete, server.URL+"/products/Milk/Dairy", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/products/Milk/Dairy", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductNameWithSpaces(t *testing.T) {
	server := newTestServer(t)
	createProduct(t, server, "Oat Milk", "Beverages", 3.20)

	resp := doJSON(t, http.MethodGet, server.URL+"/products/Oat%20Milk/Beverages", nil)
	var got appcatalog.ProductView
	decodeBody(t, resp, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Oat Milk", got.Name)
}

func TestItemEndpoints(t *testing.T) {
	server := newTestServer(t)
	createProduct(t, server, "Bread", "Bakery", 1.20)
	base := server.URL + "/products/Bread/Bakery"

	// Add a batch.
	resp := doJSON(t, http.MethodPost, base+"/items", map[string]any{
		"expiry_date": "2026-12-01", "quantity": 5,
	})
	var view appcatalog.ProductView
	decodeBody(t, resp, &view)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 5, view.TotalQuantity)

	// Increment it.
	resp = doJSON(t, http.MethodPost, base+"/items/2026-12-01/increment", map[string]any{"delta": 3})
	decodeBody(t, resp, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 8, view.TotalQuantity)

	// Set an absolute count.
	resp = doJSON(t, http.MethodPut, base+"/items/2026-12-01", map[string]any{"quantity": 2})
	decodeBody(t, resp, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, view.TotalQuantity)

	// Decrementing below zero is a bad request.
	resp = doJSON(t, http.MethodPost, base+"/items/2026-12-01/decrement", map[string]any{"delta": 3})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Remove the batch.
	resp = doJSON(t, http.MethodDelete, base+"/items/2026-12-01", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, base+"/items/2026-12-01", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListProductsWithFilter(t *testing.T) {
	server := newTestServer(t)
	createProduct(t, server, "Milk", "Dairy", 2.50)
	createProduct(t, server, "Oat Milk", "Beverages", 3.20)
	createProduct(t, server, "Bread", "Bakery", 1.20)

	resp := doJSON(t, http.MethodGet, server.URL+"/products?name=milk", nil)
	var listing struct {
		Products []appcatalog.ProductView `json:"products"`
	}
	decodeBody(t, resp, &listing)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, listing.Products, 2)

	resp = doJSON(t, http.MethodGet, server.URL+"/products?category=bakery", nil)
	decodeBody(t, resp, &listing)
	require.Len(t, listing.Products, 1)
	assert.Equal(t, "Bread", listing.Products[0].Name)
}

func TestExpiredReport(t *testing.T) {
	server := newTestServer(t)
	createProduct(t, server, "Milk", "Dairy", 2.50)

	resp := doJSON(t, http.MethodPost, server.URL+"/products/Milk/Dairy/items", map[string]any{
		"expiry_date": "2020-01-01", "quantity": 2,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/reports/expired", nil)
	var report struct {
		Expired []appcatalog.ExpiredItemView `json:"expired"`
	}
	decodeBody(t, resp, &report)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, report.Expired, 1)
	assert.Equal(t, "2020-01-01", report.Expired[0].ExpiryDate)
}

func TestBadRequestBodies(t *testing.T) {
	server := newTestServer(t)

	// Unknown fields are rejected.
	resp := doJSON(t, http.MethodPost, server.URL+"/products", map[string]any{
		"name": "Milk", "category": "Dairy", "price": 1.0, "bogus": true,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Invalid expiry dates are rejected before touching the catalog.
	createProduct(t, server, "Milk", "Dairy", 2.50)
	resp = doJSON(t, http.MethodPost, server.URL+"/products/Milk/Dairy/items", map[string]any{
		"expiry_date": "not-a-date", "quantity": 1,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
