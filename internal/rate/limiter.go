// Package rate implements a fixed-window request limiter backed by
// Redis, used to throttle login and OTP attempts per contact.
package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrLimited is returned when the key exceeded its window budget.
	ErrLimited = errors.New("rate limited")
	// ErrUnavailable wraps Redis failures so callers can fail open.
	ErrUnavailable = errors.New("rate limiter unavailable")
)

// Limiter counts attempts per key in a fixed window.
type Limiter struct {
	rdb    redis.UniversalClient
	limit  int
	window time.Duration
}

// New constructs a Limiter.
func New(rdb redis.UniversalClient, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow records an attempt for key and reports whether it is within
// budget. The first attempt in a window sets the expiry.
func (l *Limiter) Allow(ctx context.Context, key string) error {
	count, err := l.rdb.Incr(ctx, "rate:"+key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if count == 1 {
		if err := l.rdb.Expire(ctx, "rate:"+key, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if count > int64(l.limit) {
		return ErrLimited
	}
	return nil
}
