package wishlist

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/kv"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/products"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := products.Seeded()
	require.NoError(t, err)
	s, err := New(context.Background(), storage.NewRepository(kv.NewMemoryStore(), StorageKey, EmptyEntries, nil), Options{Notifier: notify.Context{}})
	require.NoError(t, err)

	h := NewHandler(func(*gin.Context) (*Store, error) { return s, nil }, catalog, nil)
	r := gin.New()
	r.Use(notify.Middleware())
	r.GET("/api/wishlist", h.List)
	r.POST("/api/wishlist/items", h.AddItem)
	r.GET("/api/wishlist/items/:productId", h.Contains)
	r.DELETE("/api/wishlist/items/:productId", h.RemoveItem)
	r.DELETE("/api/wishlist", h.Clear)
	return r
}

func call(r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestWishlistHandler(t *testing.T) {
	r := newTestRouter(t)

	w, body := call(r, http.MethodPost, "/api/wishlist/items", gin.H{"product_id": "6"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["added"])
	item := body["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "Dunk Low Retro", item["name"])
	assert.Equal(t, 1199.99, item["price"])
	assert.Len(t, body["notifications"], 1)

	w, body = call(r, http.MethodPost, "/api/wishlist/items", gin.H{"product_id": "6"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["added"])
	assert.Empty(t, body["notifications"])

	_, body = call(r, http.MethodGet, "/api/wishlist/items/6", nil)
	assert.Equal(t, true, body["in_wishlist"])

	w, _ = call(r, http.MethodPost, "/api/wishlist/items", gin.H{"product_id": "404"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, body = call(r, http.MethodDelete, "/api/wishlist/items/6", nil)
	assert.Equal(t, true, body["removed"])
	_, body = call(r, http.MethodDelete, "/api/wishlist/items/6", nil)
	assert.Equal(t, false, body["removed"])

	_, body = call(r, http.MethodGet, "/api/wishlist/items/6", nil)
	assert.Equal(t, false, body["in_wishlist"])

	w, body = call(r, http.MethodDelete, "/api/wishlist", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["items"])
}
