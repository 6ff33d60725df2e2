package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FirstCallWaits(t *testing.T) {
	l := New(50 * time.Millisecond)

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestNew_SpacesConsecutiveCalls(t *testing.T) {
	l := New(30 * time.Millisecond)

	start := time.Now()
	for range 3 {
		require.NoError(t, l.Wait(context.Background()))
	}

	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestNew_ZeroIntervalDoesNotBlock(t *testing.T) {
	l := New(0)

	start := time.Now()
	for range 100 {
		require.NoError(t, l.Wait(context.Background()))
	}

	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestNew_CancelledContext(t *testing.T) {
	l := New(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, l.Wait(ctx))
}

func TestUnlimited(t *testing.T) {
	require.NoError(t, Unlimited().Wait(context.Background()))
}

func TestNew_ReturnsLimiterInterface(t *testing.T) {
	limiters := []Limiter{New(time.Second), New(0), Unlimited()}
	for _, l := range limiters {
		assert.NotNil(t, l)
	}
}
