// Package kv is the local key-value storage the storefront state lives in.
// Every driver stores opaque byte values under string keys; callers own
// the encoding.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is implemented by every storage driver. Implementations must be safe
// for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set overwrites any existing value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete does not fail when the key is absent.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

type prefixed struct {
	inner  Store
	prefix string
}

// Prefixed scopes every key of inner under prefix. Closing the returned
// store does not close inner.
func Prefixed(inner Store, prefix string) Store {
	return &prefixed{inner: inner, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

func (p *prefixed) Ping(ctx context.Context) error {
	return p.inner.Ping(ctx)
}

func (p *prefixed) Close() error { return nil }
