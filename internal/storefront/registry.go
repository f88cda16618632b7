// Package storefront wires the per-visitor stores together. A visitor is
// the server-side stand-in for one browser profile: it owns a cart, a
// wishlist and a session, all persisted under its own key namespace.
package storefront

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/auth"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/cart"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/checkout"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/delay"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/kv"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/metrics"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/storage"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/wishlist"
)

const (
	VisitorPrefix   = "visitor:"
	DirectoryPrefix = "directory:"

	DefaultMaxVisitors = 10000
)

var ErrNoVisitor = errors.New("storefront: request carries no visitor id")

type Visitor struct {
	ID       string
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Session  *auth.Store
}

type Options struct {
	Hasher      auth.Hasher
	AuthDelay   delay.Delayer
	AdminEmails []string
	// MaxVisitors bounds the in-memory cache. Evicted visitors are rebuilt
	// from storage on their next request.
	MaxVisitors int
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
}

// Registry caches one Visitor per id, least recently used first out.
type Registry struct {
	store kv.Store
	dir   *auth.Directory
	opts  Options

	notifier notify.Notifier

	mu       sync.Mutex
	visitors map[string]*list.Element
	lru      *list.List
}

func New(store kv.Store, opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxVisitors <= 0 {
		opts.MaxVisitors = DefaultMaxVisitors
	}
	shared := kv.Prefixed(store, DirectoryPrefix)
	return &Registry{
		store:    store,
		dir:      auth.NewDirectory(storage.NewRepository(shared, auth.DirectoryKey, auth.EmptyAccounts, opts.Logger)),
		opts:     opts,
		notifier: notify.Multi(notify.Context{}, notify.Log{Logger: opts.Logger}),
		visitors: map[string]*list.Element{},
		lru:      list.New(),
	}
}

func (r *Registry) Directory() *auth.Directory { return r.dir }

// Visitor returns the cached visitor or loads it from storage.
func (r *Registry) Visitor(ctx context.Context, id string) (*Visitor, error) {
	if id == "" {
		return nil, ErrNoVisitor
	}
	if v, ok := r.cached(id); ok {
		return v, nil
	}

	// built outside the lock; a concurrent build for the same id loses
	v, err := r.build(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.visitors[id]; ok {
		r.lru.MoveToFront(el)
		return el.Value.(*Visitor), nil
	}
	r.visitors[id] = r.lru.PushFront(v)
	for r.lru.Len() > r.opts.MaxVisitors {
		oldest := r.lru.Back()
		r.lru.Remove(oldest)
		delete(r.visitors, oldest.Value.(*Visitor).ID)
	}
	return v, nil
}

// Len is the number of cached visitors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lru.Len()
}

func (r *Registry) cached(id string) (*Visitor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	el, ok := r.visitors[id]
	if !ok {
		return nil, false
	}
	r.lru.MoveToFront(el)
	return el.Value.(*Visitor), true
}

func (r *Registry) build(ctx context.Context, id string) (*Visitor, error) {
	ns := kv.Prefixed(r.store, VisitorPrefix+id+":")
	logger := r.opts.Logger.With(zap.String("visitor_id", id))

	c, err := cart.New(ctx, storage.NewRepository(ns, cart.StorageKey, cart.EmptyLines, logger), cart.Options{
		Notifier: r.notifier,
		Metrics:  r.opts.Metrics,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	w, err := wishlist.New(ctx, storage.NewRepository(ns, wishlist.StorageKey, wishlist.EmptyEntries, logger), wishlist.Options{
		Notifier: r.notifier,
		Metrics:  r.opts.Metrics,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}

	s, err := auth.NewStore(ctx, r.dir, storage.NewRepository(ns, auth.SessionKey, auth.NoSession, logger), auth.Options{
		Hasher:      r.opts.Hasher,
		Delay:       r.opts.AuthDelay,
		AdminEmails: r.opts.AdminEmails,
		Notifier:    r.notifier,
		Metrics:     r.opts.Metrics,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	return &Visitor{ID: id, Cart: c, Wishlist: w, Session: s}, nil
}

func (r *Registry) fromRequest(c *gin.Context) (*Visitor, error) {
	return r.Visitor(c.Request.Context(), auth.VisitorID(c))
}

// Cart resolves the calling visitor's cart.
func (r *Registry) Cart(c *gin.Context) (*cart.Store, error) {
	v, err := r.fromRequest(c)
	if err != nil {
		return nil, err
	}
	return v.Cart, nil
}

func (r *Registry) CheckoutCart(c *gin.Context) (checkout.Cart, error) {
	s, err := r.Cart(c)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Registry) Wishlist(c *gin.Context) (*wishlist.Store, error) {
	v, err := r.fromRequest(c)
	if err != nil {
		return nil, err
	}
	return v.Wishlist, nil
}

func (r *Registry) Session(c *gin.Context) (*auth.Store, error) {
	v, err := r.fromRequest(c)
	if err != nil {
		return nil, err
	}
	return v.Session, nil
}
