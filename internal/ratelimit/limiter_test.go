package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandermate/nearby/internal/config"
	"github.com/wandermate/nearby/internal/storage"
)

func newTestLimiter() *Limiter {
	return NewLimiter(storage.NewMemory(), config.RateLimitConfig{
		LocationPerMin: 3,
		BlocksPerMin:   2,
	})
}

func TestAllowLocationUpdateWithinLimit(t *testing.T) {
	ctx := context.Background()
	limiter := newTestLimiter()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.AllowLocationUpdate(ctx, "viewer")
		require.NoError(t, err)
		assert.True(t, allowed, "update %d should pass", i+1)
	}

	allowed, err := limiter.AllowLocationUpdate(ctx, "viewer")
	require.NoError(t, err)
	assert.False(t, allowed, "fourth update in the window is denied")
}

func TestLimitsArePerViewer(t *testing.T) {
	ctx := context.Background()
	limiter := newTestLimiter()

	for i := 0; i < 3; i++ {
		_, err := limiter.AllowLocationUpdate(ctx, "viewer-a")
		require.NoError(t, err)
	}

	allowed, err := limiter.AllowLocationUpdate(ctx, "viewer-b")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestBlockLimitIndependentOfLocation(t *testing.T) {
	ctx := context.Background()
	limiter := newTestLimiter()

	for i := 0; i < 3; i++ {
		_, err := limiter.AllowLocationUpdate(ctx, "viewer")
		require.NoError(t, err)
	}

	allowed, err := limiter.AllowBlockChange(ctx, "viewer")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestResetLimits(t *testing.T) {
	ctx := context.Background()
	limiter := newTestLimiter()

	for i := 0; i < 4; i++ {
		limiter.AllowLocationUpdate(ctx, "viewer")
	}
	require.NoError(t, limiter.ResetLimits(ctx, "viewer"))

	allowed, err := limiter.AllowLocationUpdate(ctx, "viewer")
	require.NoError(t, err)
	assert.True(t, allowed)
}
