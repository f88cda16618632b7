// Package delay models the artificial round-trip latency of the storefront
// operations as an injectable dependency.
package delay

import (
	"context"
	"time"
)

type Delayer interface {
	// Wait blocks for the configured latency. It returns ctx.Err() if the
	// context ends first; callers must not apply their effect in that case.
	Wait(ctx context.Context) error
}

// Fixed waits the same duration every time.
type Fixed time.Duration

func (d Fixed) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(d))
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// None only checks for cancellation.
type None struct{}

func (None) Wait(ctx context.Context) error { return ctx.Err() }

// FromMillis returns None for non-positive values.
func FromMillis(ms int) Delayer {
	if ms <= 0 {
		return None{}
	}
	return Fixed(time.Duration(ms) * time.Millisecond)
}
