package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/kv"
)

type item struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

func emptyItems() []item { return []item{} }

type brokenStore struct{ kv.Store }

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (brokenStore) Set(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemoryStore(), "items", emptyItems, zap.NewNop())

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	want := []item{{ID: "1", Qty: 2}, {ID: "2", Qty: 1}}
	require.NoError(t, repo.Save(ctx, want))

	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, repo.Clear(ctx))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepositoryDiscardsCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "items", []byte(`{not json`)))

	repo := NewRepository(store, "items", emptyItems, nil)
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = store.Get(ctx, "items")
	assert.ErrorIs(t, err, kv.ErrNotFound, "corrupt record should be removed")
}

func TestRepositoryPointerSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kv.NewMemoryStore(), "one", func() *item { return nil }, nil)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Save(ctx, &item{ID: "x"}))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "x", got.ID)
}

func TestRepositoryStorageErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository[[]item](brokenStore{}, "items", emptyItems, nil)

	_, err := repo.Load(ctx)
	assert.ErrorContains(t, err, "disk on fire")
	assert.Error(t, repo.Save(ctx, nil))
}
