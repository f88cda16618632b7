package wishlist

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/wishlist"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/metrics"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/storage"
)

const StorageKey = "sneakverse-wishlist"

type Repository = storage.Repository[[]wishlist.Entry]

type Store struct {
	mu    sync.Mutex
	items []wishlist.Entry

	repo     *Repository
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

type Options struct {
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

func EmptyEntries() []wishlist.Entry { return []wishlist.Entry{} }

func New(ctx context.Context, repo *Repository, opts Options) (*Store, error) {
	items, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Store{
		items:    items,
		repo:     repo,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}, nil
}

// AddItem is idempotent: an entry already present is left exactly as it is
// and nothing is persisted or announced.
func (s *Store) AddItem(ctx context.Context, e wishlist.Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(e.ProductID) >= 0 {
		return false, nil
	}

	next := append(s.snapshot(), e)
	if err := s.commit(ctx, "add", next); err != nil {
		return false, err
	}
	s.notifier.Notify(ctx, notify.Success("Added to Wishlist",
		fmt.Sprintf("%s has been added to your wishlist", e.Name)))
	return true, nil
}

// RemoveItem only persists and announces when an entry was removed.
func (s *Store) RemoveItem(ctx context.Context, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return false, nil
	}

	next := make([]wishlist.Entry, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)

	if err := s.commit(ctx, "remove", next); err != nil {
		return false, err
	}
	s.notifier.Notify(ctx, notify.Success("Removed from Wishlist", "Item has been removed from your wishlist"))
	return true, nil
}

func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, "clear", EmptyEntries()); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.Success("Wishlist Cleared", "All items have been removed from your wishlist"))
	return nil
}

func (s *Store) Items() []wishlist.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) commit(ctx context.Context, op string, next []wishlist.Entry) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("wishlist persist failed", zap.String("op", op), zap.Error(err))
		return err
	}
	s.items = next
	s.metrics.WishlistOp(op)
	return nil
}

func (s *Store) snapshot() []wishlist.Entry {
	return append([]wishlist.Entry{}, s.items...)
}

func (s *Store) indexOf(productID string) int {
	for i, e := range s.items {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}
