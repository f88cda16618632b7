// Package storage persists whole-state snapshots as JSON under a single key.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/kv"
)

// Repository loads and saves a snapshot of type T. A missing or corrupt
// record loads as the empty value produced by the repository's empty func.
type Repository[T any] struct {
	store  kv.Store
	key    string
	empty  func() T
	logger *zap.Logger
}

func NewRepository[T any](store kv.Store, key string, empty func() T, logger *zap.Logger) *Repository[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository[T]{store: store, key: key, empty: empty, logger: logger}
}

func (r *Repository[T]) Key() string { return r.key }

// Load returns the stored snapshot. Only storage failures are errors; a
// record that does not decode is dropped and reported as empty.
func (r *Repository[T]) Load(ctx context.Context) (T, error) {
	raw, err := r.store.Get(ctx, r.key)
	if errors.Is(err, kv.ErrNotFound) {
		return r.empty(), nil
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("load %s: %w", r.key, err)
	}

	v := r.empty()
	if err := json.Unmarshal(raw, &v); err != nil {
		r.logger.Warn("discarding corrupt snapshot", zap.String("key", r.key), zap.Error(err))
		if derr := r.store.Delete(ctx, r.key); derr != nil {
			r.logger.Warn("failed to delete corrupt snapshot", zap.String("key", r.key), zap.Error(derr))
		}
		return r.empty(), nil
	}
	return v, nil
}

func (r *Repository[T]) Save(ctx context.Context, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.key, err)
	}
	if err := r.store.Set(ctx, r.key, b); err != nil {
		return fmt.Errorf("save %s: %w", r.key, err)
	}
	return nil
}

func (r *Repository[T]) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("clear %s: %w", r.key, err)
	}
	return nil
}
