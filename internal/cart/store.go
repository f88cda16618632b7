package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/cart"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/metrics"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/notify"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/storage"
)

// StorageKey is the record a visitor's cart is persisted under.
const StorageKey = "sneakverse-cart"

type Repository = storage.Repository[[]cart.Line]

// MaxQuantity caps a single line.
const MaxQuantity = 99

var ErrQuantityLimit = fmt.Errorf("cart: quantity above %d", MaxQuantity)

// Snapshot is one consistent read of the cart.
type Snapshot struct {
	Lines     []cart.Line
	Subtotal  float64
	ItemCount int
}

type Store struct {
	mu    sync.Mutex
	lines []cart.Line

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

func EmptyLines() []cart.Line { return []cart.Line{} }

// New loads the persisted cart; a missing or corrupt record starts empty.
func New(ctx context.Context, repo *Repository, opts Options) (*Store, error) {
	lines, err := repo.Load(ctx)
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
		lines:    lines,
		repo:     repo,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}, nil
}

// AddItem merges into the line with the same product and size, or appends.
func (s *Store) AddItem(ctx context.Context, line cart.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	idx := s.indexOf(line.ProductID, line.Size)
	if idx >= 0 {
		if line.Quantity > MaxQuantity-next[idx].Quantity {
			return ErrQuantityLimit
		}
		next[idx].Quantity += line.Quantity
	} else {
		if line.Quantity > MaxQuantity {
			return ErrQuantityLimit
		}
		next = append(next, line)
	}

	if err := s.commit(ctx, "add", next); err != nil {
		return err
	}

	if idx >= 0 {
		s.notifier.Notify(ctx, notify.Success("Added to Cart",
			fmt.Sprintf("Updated %s (Size: %s) quantity to %d", line.Name, line.Size, next[idx].Quantity)))
	} else {
		s.notifier.Notify(ctx, notify.Success("Added to Cart",
			fmt.Sprintf("%s (Size: %s) added to your cart", line.Name, line.Size)))
	}
	return nil
}

// RemoveItem is a silent no-op when no line matches.
func (s *Store) RemoveItem(ctx context.Context, productID, size string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID, size)
	if idx < 0 {
		return nil
	}

	next := make([]cart.Line, 0, len(s.lines)-1)
	next = append(next, s.lines[:idx]...)
	next = append(next, s.lines[idx+1:]...)

	if err := s.commit(ctx, "remove", next); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.Success("Removed from Cart", "Item has been removed from your cart"))
	return nil
}

// UpdateQuantity sets the quantity as given. It does not clamp; the handler
// only passes 1..MaxQuantity.
func (s *Store) UpdateQuantity(ctx context.Context, productID, size string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID, size)
	if idx < 0 {
		return nil
	}

	next := s.snapshot()
	next[idx].Quantity = quantity
	return s.commit(ctx, "update", next)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, "clear", EmptyLines()); err != nil {
		return err
	}
	s.notifier.Notify(ctx, notify.Success("Cart Cleared", "All items have been removed from your cart"))
	return nil
}

func (s *Store) Lines() []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotal()
}

// ItemCount is the total quantity across lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCount()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Lines: s.snapshot(), Subtotal: s.subtotal(), ItemCount: s.itemCount()}
}

func (s *Store) subtotal() float64 {
	var sum float64
	for _, l := range s.lines {
		sum += l.Total()
	}
	return sum
}

func (s *Store) itemCount() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// commit persists next and only then makes it the current state.
func (s *Store) commit(ctx context.Context, op string, next []cart.Line) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("cart persist failed", zap.String("op", op), zap.Error(err))
		return err
	}
	s.lines = next
	s.metrics.CartOp(op)
	return nil
}

func (s *Store) snapshot() []cart.Line {
	return append([]cart.Line{}, s.lines...)
}

func (s *Store) indexOf(productID, size string) int {
	for i, l := range s.lines {
		if l.Matches(productID, size) {
			return i
		}
	}
	return -1
}
