package storefront

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/auth"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/checkout"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/kv"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/metrics"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/products"
)

type apiClient struct {
	t     *testing.T
	r     http.Handler
	token string
}

func (a *apiClient) do(method, path string, body any) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func newTestServer(t *testing.T) (http.Handler, *kv.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := kv.NewMemoryStore()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	catalog, err := products.Seeded()
	require.NoError(t, err)

	opts := testOptions()
	opts.Metrics = m
	opts.AdminEmails = []string{"boss@shop.com"}

	r := NewRouter(RouterDeps{
		Store:    store,
		Registry: New(store, opts),
		JWT:      auth.NewJWTManager(auth.JWTConfig{Issuer: "test", Secret: "k", TTLDays: 1}),
		Catalog:  catalog,
		Checkout: checkout.NewService(checkout.Options{Policy: checkout.ShippingPolicy{FreeThreshold: 1000, Fee: 100}, Metrics: m}),
		Metrics:  m,
		Gatherer: reg,
	})
	return r, store
}

func newVisitor(t *testing.T, r http.Handler) *apiClient {
	t.Helper()
	c := &apiClient{t: t, r: r}
	code, body := c.do(http.MethodPost, "/api/visitors", nil)
	require.Equal(t, http.StatusCreated, code)
	c.token = body["access_token"].(string)
	return c
}

func TestShoppingJourney(t *testing.T) {
	r, _ := newTestServer(t)
	v := newVisitor(t, r)

	code, body := v.do(http.MethodGet, "/api/products?featured=true", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["items"], 4)

	code, _ = v.do(http.MethodPost, "/api/wishlist/items", gin.H{"product_id": "7"})
	require.Equal(t, http.StatusOK, code)

	code, body = v.do(http.MethodPost, "/api/cart/items", gin.H{"product_id": "8", "size": "UK 7", "quantity": 1})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1299.95, body["total"])

	code, body = v.do(http.MethodPost, "/api/checkout", gin.H{
		"firstName": "Jane", "lastName": "Doe", "email": "a@x.com",
		"address": "1 Long St", "city": "Cape Town", "postalCode": "8001",
	})
	require.Equal(t, http.StatusCreated, code)
	order := body["order"].(map[string]any)
	assert.Regexp(t, `^NK-\d{6}$`, order["orderNumber"])
	assert.Equal(t, "South Africa", order["customer"].(map[string]any)["country"])

	_, body = v.do(http.MethodGet, "/api/cart", nil)
	assert.Empty(t, body["items"])

	_, body = v.do(http.MethodGet, "/api/wishlist", nil)
	assert.Len(t, body["items"], 1, "checkout leaves the wishlist alone")

	code, body = v.do(http.MethodPost, "/api/checkout", gin.H{
		"firstName": "Jane", "lastName": "Doe", "email": "a@x.com",
		"address": "1 Long St", "city": "Cape Town", "postalCode": "8001",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	notes := body["notifications"].([]any)
	require.Len(t, notes, 1)
	assert.Equal(t, "Your cart is empty", notes[0].(map[string]any)["title"])
	assert.Equal(t, "error", notes[0].(map[string]any)["level"])
}

func TestVisitorTokensSeparateState(t *testing.T) {
	r, store := newTestServer(t)
	a := newVisitor(t, r)
	b := newVisitor(t, r)

	code, _ := a.do(http.MethodPost, "/api/cart/items", gin.H{"product_id": "1", "size": "UK 8"})
	require.Equal(t, http.StatusOK, code)

	_, body := b.do(http.MethodGet, "/api/cart", nil)
	assert.Empty(t, body["items"])

	var visitorKeys int
	for _, k := range store.Keys() {
		if strings.HasPrefix(k, VisitorPrefix) {
			visitorKeys++
		}
	}
	assert.Equal(t, 1, visitorKeys)

	anon := &apiClient{t: t, r: r}
	code, _ = anon.do(http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminRoute(t *testing.T) {
	r, _ := newTestServer(t)
	boss := newVisitor(t, r)

	code, _ := boss.do(http.MethodPost, "/api/auth/register", gin.H{
		"email": "boss@shop.com", "password": "pw", "firstName": "B", "lastName": "O",
	})
	require.Equal(t, http.StatusCreated, code)

	code, body := boss.do(http.MethodGet, "/api/admin/accounts", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["accounts"], 1)
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestServer(t)
	v := newVisitor(t, r)
	v.do(http.MethodPost, "/api/cart/items", gin.H{"product_id": "1", "size": "UK 8"})

	code, body := v.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ok"])

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `storefront_cart_operations_total{op="add"} 1`)
	assert.Contains(t, w.Body.String(), `storefront_http_requests_total{method="POST",route="/api/cart/items",status="200"} 1`)
}

func TestCategoriesRoute(t *testing.T) {
	r, _ := newTestServer(t)
	code, body := (&apiClient{t: t, r: r}).do(http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["items"], 13)
}
