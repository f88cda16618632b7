package delay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedWaits(t *testing.T) {
	start := time.Now()
	assert.NoError(t, Fixed(20*time.Millisecond).Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFixedHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	assert.ErrorIs(t, Fixed(time.Minute).Wait(ctx), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNone(t *testing.T) {
	assert.NoError(t, None{}.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, None{}.Wait(ctx), context.Canceled)
}

func TestFromMillis(t *testing.T) {
	assert.Equal(t, None{}, FromMillis(0))
	assert.Equal(t, Fixed(800*time.Millisecond), FromMillis(800))
}
