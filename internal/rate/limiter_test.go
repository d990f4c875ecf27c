package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, limit, window), mr
}

func TestLimiterAllowsWithinBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.NoError(t, limiter.Allow(ctx, "login:a@x.com"))
	}
	assert.ErrorIs(t, limiter.Allow(ctx, "login:a@x.com"), ErrLimited)

	// Other keys are unaffected.
	assert.NoError(t, limiter.Allow(ctx, "login:b@x.com"))
}

func TestLimiterWindowResets(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.Allow(ctx, "otp:user"))
	assert.ErrorIs(t, limiter.Allow(ctx, "otp:user"), ErrLimited)

	mr.FastForward(2 * time.Minute)
	assert.NoError(t, limiter.Allow(ctx, "otp:user"))
}

func TestLimiterRedisDown(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	err := limiter.Allow(context.Background(), "login:a@x.com")
	assert.ErrorIs(t, err, ErrUnavailable)
}
