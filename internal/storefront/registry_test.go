package storefront

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/auth"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/cart"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/wishlist"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/kv"
)

func testOptions() Options {
	return Options{Hasher: auth.Hasher{Cost: bcrypt.MinCost}}
}

func TestVisitorIsCached(t *testing.T) {
	r := New(kv.NewMemoryStore(), testOptions())
	ctx := context.Background()

	a, err := r.Visitor(ctx, "v1")
	require.NoError(t, err)
	b, err := r.Visitor(ctx, "v1")
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = r.Visitor(ctx, "")
	assert.ErrorIs(t, err, ErrNoVisitor)
}

func TestVisitorsAreIsolated(t *testing.T) {
	store := kv.NewMemoryStore()
	r := New(store, testOptions())
	ctx := context.Background()

	v1, err := r.Visitor(ctx, "v1")
	require.NoError(t, err)
	v2, err := r.Visitor(ctx, "v2")
	require.NoError(t, err)

	require.NoError(t, v1.Cart.AddItem(ctx, cart.Line{ProductID: "1", Name: "Air Zoom Pulse", Price: 1899.99, Size: "UK 8", Quantity: 1}))
	_, err = v1.Wishlist.AddItem(ctx, wishlist.Entry{ProductID: "2", Name: "LeBron Elite"})
	require.NoError(t, err)

	assert.Empty(t, v2.Cart.Lines())
	assert.Empty(t, v2.Wishlist.Items())

	keys := store.Keys()
	assert.Contains(t, keys, "visitor:v1:sneakverse-cart")
	assert.Contains(t, keys, "visitor:v1:sneakverse-wishlist")
	assert.NotContains(t, keys, "visitor:v2:sneakverse-cart")
}

func TestDirectoryIsSharedAndSessionIsNot(t *testing.T) {
	store := kv.NewMemoryStore()
	r := New(store, testOptions())
	ctx := context.Background()

	v1, err := r.Visitor(ctx, "v1")
	require.NoError(t, err)
	_, err = v1.Session.Register(ctx, "a@x.com", "secret1", "Jane", "Doe")
	require.NoError(t, err)

	v2, err := r.Visitor(ctx, "v2")
	require.NoError(t, err)
	assert.False(t, v2.Session.IsAuthenticated())

	_, err = v2.Session.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	keys := store.Keys()
	assert.Contains(t, keys, "directory:sneakverse-users")
	assert.Contains(t, keys, "visitor:v1:sneakverse-current-user")
	assert.Contains(t, keys, "visitor:v2:sneakverse-current-user")
}

func TestStateSurvivesRestart(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()

	v, err := New(store, testOptions()).Visitor(ctx, "v1")
	require.NoError(t, err)
	require.NoError(t, v.Cart.AddItem(ctx, cart.Line{ProductID: "3", Price: 1299.95, Size: "UK 9", Quantity: 2}))
	_, err = v.Session.Register(ctx, "a@x.com", "secret1", "Jane", "Doe")
	require.NoError(t, err)

	again, err := New(store, testOptions()).Visitor(ctx, "v1")
	require.NoError(t, err)
	assert.InDelta(t, 2599.9, again.Cart.Subtotal(), 1e-9)
	p, ok := again.Session.Current()
	require.True(t, ok)
	assert.Equal(t, "Jane", p.FirstName)
}

func TestEvictionReloadsFromStorage(t *testing.T) {
	store := kv.NewMemoryStore()
	opts := testOptions()
	opts.MaxVisitors = 1
	r := New(store, opts)
	ctx := context.Background()

	v1, err := r.Visitor(ctx, "v1")
	require.NoError(t, err)
	require.NoError(t, v1.Cart.AddItem(ctx, cart.Line{ProductID: "1", Price: 10, Size: "UK 8", Quantity: 1}))

	_, err = r.Visitor(ctx, "v2")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	back, err := r.Visitor(ctx, "v1")
	require.NoError(t, err)
	assert.NotSame(t, v1, back)
	assert.Equal(t, v1.Cart.Lines(), back.Cart.Lines())
}
