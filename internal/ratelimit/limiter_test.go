package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilLimiterNeverBlocks(t *testing.T) {
	var l *Limiter

	require.NoError(t, l.Wait(context.Background()))
	assert.True(t, l.Allow())
	assert.Equal(t, "", l.Name())
}

func TestNilLimiterHonoursCancelledContext(t *testing.T) {
	var l *Limiter
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, l.Wait(ctx), context.Canceled)
}

func TestUnlimitedRate(t *testing.T) {
	l := New("images", 0)
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow(), "request %d should be allowed", i)
	}
}

func TestBurstThenThrottle(t *testing.T) {
	l := NewWithBurst("images", 1, 2)

	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestWaitReturnsNamedErrorOnDeadline(t *testing.T) {
	l := NewWithBurst("images", 0.001, 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait for images")
}

func TestFractionalRateHasMinimumBurst(t *testing.T) {
	l := New("slow", 0.5)
	assert.True(t, l.Allow())
	assert.Equal(t, "slow", l.Name())
}
