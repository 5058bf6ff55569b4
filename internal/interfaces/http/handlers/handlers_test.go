// internal/interfaces/http/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/app"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type stubCatalog struct {
	products []catalog.Product
	err      error
}

func (s *stubCatalog) FetchCatalog(context.Context) ([]catalog.Product, error) {
	return s.products, s.err
}

func (s *stubCatalog) FetchProduct(_ context.Context, id int) (*catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &catalog.UnavailableError{StatusCode: http.StatusNotFound, Message: "Failed to fetch product. Please try again later."}
}

func (s *stubCatalog) FetchByCategory(_ context.Context, category string) ([]catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []catalog.Product
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubRenderer struct {
	err   error
	lines int
}

func (r *stubRenderer) GenerateCartSummary(items []cart.LineItem, _ cart.Totals) (*bytes.Buffer, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.lines = len(items)
	return bytes.NewBufferString("%PDF-1.4"), nil
}

type fixture struct {
	router     *gin.Engine
	catalog    *stubCatalog
	renderer   *stubRenderer
	controller *app.Controller
}

func newFixture(t *testing.T, products []catalog.Product, fetchErr error) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		catalog:  &stubCatalog{products: products, err: fetchErr},
		renderer: &stubRenderer{},
	}
	store := cart.Open(context.Background(), storage.NewMemorySlot(), "modernshop-cart", logger.Discard())
	f.controller = app.NewController(f.catalog, store, logger.Discard())

	appHandler := NewAppHandler(f.controller, "ModernShop")
	productHandler := NewProductHandler(f.controller, f.catalog)
	cartHandler := NewCartHandler(f.controller, f.renderer, logger.Discard())

	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/app", appHandler.GetApp)
	api.POST("/app/reload", appHandler.Reload)
	api.POST("/app/view/cart", appHandler.ShowCart)
	api.POST("/app/view/catalog", appHandler.ShowCatalog)
	api.POST("/app/view/toggle", appHandler.ToggleCart)
	api.GET("/header", appHandler.GetHeader)
	api.GET("/products", productHandler.GetProducts)
	api.GET("/products/:id", productHandler.GetProduct)
	api.GET("/products/category/:category", productHandler.GetProductsByCategory)
	api.GET("/cart", cartHandler.GetCart)
	api.POST("/cart/items", cartHandler.AddToCart)
	api.PUT("/cart/items/:id", cartHandler.UpdateCartItem)
	api.DELETE("/cart/items/:id", cartHandler.RemoveFromCart)
	api.DELETE("/cart", cartHandler.ClearCart)
	api.GET("/cart/summary.pdf", cartHandler.DownloadSummary)
	f.router = r

	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	_ = f.controller.Start(context.Background())
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", body)
	return d
}

func products() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("10"), Category: "bags", Image: "b.jpg"},
		{ID: 2, Title: "Jacket", Price: decimal.RequireFromString("55.99"), Category: "clothing", Image: "j.jpg"},
	}
}

func TestHandlers_Loading(t *testing.T) {
	f := newFixture(t, products(), nil)

	code, body := f.do(t, http.MethodGet, "/api/v1/app", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "loading", data(t, body)["state"])
	assert.Equal(t, app.LoadingMessage, data(t, body)["message"])

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/v1/products", ""},
		{http.MethodGet, "/api/v1/header", ""},
		{http.MethodGet, "/api/v1/cart", ""},
		{http.MethodPost, "/api/v1/cart/items", `{"product_id":1}`},
		{http.MethodPost, "/api/v1/app/view/toggle", ""},
		{http.MethodGet, "/api/v1/cart/summary.pdf", ""},
	} {
		code, body := f.do(t, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusServiceUnavailable, code, tc.path)
		assert.Equal(t, app.LoadingMessage, body["error"], tc.path)
		assert.Equal(t, "loading", body["state"], tc.path)
	}
}

func TestHandlers_FailedThenReload(t *testing.T) {
	f := newFixture(t, products(), &catalog.UnavailableError{
		StatusCode: http.StatusInternalServerError,
		Message:    "Failed to fetch products. Please try again later.",
	})
	f.start(t)

	code, body := f.do(t, http.MethodGet, "/api/v1/products", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "Failed to fetch products. Please try again later.", body["error"])
	assert.Equal(t, "failed", body["state"])

	f.catalog.err = nil
	code, body = f.do(t, http.MethodPost, "/api/v1/app/reload", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", data(t, body)["state"])
	assert.Equal(t, "catalog", data(t, body)["view"])
	assert.Len(t, data(t, body)["products"], 2)
}

func TestHandlers_ReloadFailure(t *testing.T) {
	f := newFixture(t, products(), nil)
	f.start(t)

	f.catalog.err = errors.New("connection refused")
	code, body := f.do(t, http.MethodPost, "/api/v1/app/reload", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Storefront reload failed", body["message"])
	assert.Equal(t, "failed", data(t, body)["state"])
}

func TestHandlers_Products(t *testing.T) {
	f := newFixture(t, products(), nil)
	f.start(t)

	code, body := f.do(t, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, data(t, body)["count"])

	list := data(t, body)["products"].([]interface{})
	assert.Equal(t, "Backpack", list[0].(map[string]interface{})["title"])
	assert.Equal(t, "Jacket", list[1].(map[string]interface{})["title"])

	t.Run("by id", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/api/v1/products/2", "")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Jacket", data(t, body)["title"])
	})

	t.Run("invalid id", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/api/v1/products/abc", "")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Invalid product ID", body["error"])
	})

	t.Run("upstream failure", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/api/v1/products/99", "")
		assert.Equal(t, http.StatusBadGateway, code)
		assert.Equal(t, "Failed to fetch product. Please try again later.", body["error"])
		assert.EqualValues(t, http.StatusNotFound, body["upstream_status"])
	})

	t.Run("by category", func(t *testing.T) {
		code, body := f.do(t, http.MethodGet, "/api/v1/products/category/bags", "")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "bags", data(t, body)["category"])
		assert.EqualValues(t, 1, data(t, body)["count"])
	})
}

func TestHandlers_CartFlow(t *testing.T) {
	f := newFixture(t, products(), nil)
	f.start(t)

	code, _ := f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":1}`)
	require.Equal(t, http.StatusOK, code)
	code, body := f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":1}`)
	require.Equal(t, http.StatusOK, code)

	d := data(t, body)
	items := d["items"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.EqualValues(t, 2, line["quantity"])
	assert.Equal(t, "10.00", line["price"])
	assert.Equal(t, "20.00", line["subtotal"])

	totals := d["totals"].(map[string]interface{})
	assert.Equal(t, "20.00", totals["sub_total"])
	assert.Equal(t, "2.00", totals["tax_amount"])
	assert.Equal(t, "22.00", totals["total_amount"])
	assert.Equal(t, false, d["is_empty"])

	code, body = f.do(t, http.MethodGet, "/api/v1/header", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, data(t, body)["cart_quantity"])
	assert.Equal(t, "ModernShop", data(t, body)["store_name"])

	code, body = f.do(t, http.MethodPut, "/api/v1/cart/items/1", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, data(t, body)["is_empty"])
	assert.Empty(t, data(t, body)["items"])

	code, body = f.do(t, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "0.00", data(t, body)["totals"].(map[string]interface{})["total_amount"])
}

func TestHandlers_CartErrors(t *testing.T) {
	f := newFixture(t, products(), nil)
	f.start(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown product", http.MethodPost, "/api/v1/cart/items", `{"product_id":42}`, http.StatusNotFound},
		{"missing product id", http.MethodPost, "/api/v1/cart/items", `{}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/v1/cart/items", `{`, http.StatusBadRequest},
		{"missing quantity", http.MethodPut, "/api/v1/cart/items/1", `{}`, http.StatusBadRequest},
		{"bad line id", http.MethodDelete, "/api/v1/cart/items/x", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandlers_RemoveAndClear(t *testing.T) {
	f := newFixture(t, products(), nil)
	f.start(t)

	f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":1}`)
	f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":2}`)

	code, body := f.do(t, http.MethodDelete, "/api/v1/cart/items/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, data(t, body)["items"], 1)

	code, body = f.do(t, http.MethodDelete, "/api/v1/cart/items/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, data(t, body)["items"], 1)

	code, body = f.do(t, http.MethodDelete, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, data(t, body)["is_empty"])
}

func TestHandlers_Views(t *testing.T) {
	f := newFixture(t, products(), nil)
	f.start(t)

	code, body := f.do(t, http.MethodPost, "/api/v1/app/view/toggle", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cart", data(t, body)["view"])

	_, body = f.do(t, http.MethodPost, "/api/v1/app/view/toggle", "")
	assert.Equal(t, "catalog", data(t, body)["view"])

	_, body = f.do(t, http.MethodPost, "/api/v1/app/view/cart", "")
	assert.Equal(t, "cart", data(t, body)["view"])

	_, body = f.do(t, http.MethodPost, "/api/v1/app/view/catalog", "")
	assert.Equal(t, "catalog", data(t, body)["view"])
}

func TestHandlers_Summary(t *testing.T) {
	f := newFixture(t, products(), nil)
	f.start(t)
	f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":2}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/summary.pdf", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cart-summary.pdf")
	assert.Equal(t, "%PDF-1.4", w.Body.String())
	assert.Equal(t, 1, f.renderer.lines)

	f.renderer.err = errors.New("wkhtmltopdf not found")
	code, body := f.do(t, http.MethodGet, "/api/v1/cart/summary.pdf", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to generate cart summary", body["error"])
}
