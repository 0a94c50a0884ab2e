package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/wandermate/nearby/internal/config"
	"github.com/wandermate/nearby/internal/storage"
)

// RateLimiter gates the service's two write paths.
type RateLimiter interface {
	// AllowLocationUpdate checks if a viewer can report a new position.
	AllowLocationUpdate(ctx context.Context, viewerID string) (bool, error)

	// AllowBlockChange checks if a viewer can issue a block or unblock.
	AllowBlockChange(ctx context.Context, viewerID string) (bool, error)

	// ResetLimits clears all rate limit counters for a viewer.
	ResetLimits(ctx context.Context, viewerID string) error
}

type Limiter struct {
	redis  storage.RedisClient
	config config.RateLimitConfig
}

func NewLimiter(redisClient storage.RedisClient, config config.RateLimitConfig) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: config,
	}
}

func (l *Limiter) AllowLocationUpdate(ctx context.Context, viewerID string) (bool, error) {
	key := fmt.Sprintf("ratelimit:location:%s", viewerID)
	return l.checkFixedWindow(ctx, key, l.config.LocationPerMin, time.Minute)
}

func (l *Limiter) AllowBlockChange(ctx context.Context, viewerID string) (bool, error) {
	key := fmt.Sprintf("ratelimit:block:%s", viewerID)
	return l.checkFixedWindow(ctx, key, l.config.BlocksPerMin, time.Minute)
}

// checkFixedWindow counts hits under key and lets the key expire at the
// end of the window.
func (l *Limiter) checkFixedWindow(ctx context.Context, key string, maxCount int, window time.Duration) (bool, error) {
	count, err := l.redis.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	// Set expiration on first increment
	if count == 1 {
		if err := l.redis.Expire(ctx, key, window); err != nil {
			return false, fmt.Errorf("failed to expire rate limit key: %w", err)
		}
	}

	return count <= int64(maxCount), nil
}

// ResetLimits resets all rate limits for a viewer (use with caution)
func (l *Limiter) ResetLimits(ctx context.Context, viewerID string) error {
	keys := []string{
		fmt.Sprintf("ratelimit:location:%s", viewerID),
		fmt.Sprintf("ratelimit:block:%s", viewerID),
	}

	for _, key := range keys {
		if err := l.redis.Del(ctx, key); err != nil {
			return err
		}
	}

	return nil
}
