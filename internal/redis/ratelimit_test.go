package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T, cfg RateLimitConfig) (*miniredis.Miniredis, *RateLimiter) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return server, NewRateLimiter(client, cfg)
}

func TestMessageLimitExhausts(t *testing.T) {
	_, limiter := setupLimiter(t, RateLimitConfig{
		MessageLimit:  2,
		MessageWindow: time.Minute,
		CallLimit:     10,
		CallWindow:    time.Minute,
	})
	ctx := context.Background()

	first, err := limiter.AllowMessage(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)

	second, err := limiter.AllowMessage(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	third, err := limiter.AllowMessage(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, third.Allowed)
}

func TestLimitsAreScopedPerUser(t *testing.T) {
	_, limiter := setupLimiter(t, RateLimitConfig{
		MessageLimit:  1,
		MessageWindow: time.Minute,
		CallLimit:     1,
		CallWindow:    time.Minute,
	})
	ctx := context.Background()

	res, err := limiter.AllowMessage(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.AllowMessage(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestResetUserClearsCounters(t *testing.T) {
	_, limiter := setupLimiter(t, RateLimitConfig{
		MessageLimit:  1,
		MessageWindow: time.Minute,
		CallLimit:     1,
		CallWindow:    time.Minute,
	})
	ctx := context.Background()

	_, err := limiter.AllowMessage(ctx, "u1")
	require.NoError(t, err)
	blocked, err := limiter.AllowMessage(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	require.NoError(t, limiter.ResetUser(ctx, "u1"))

	res, err := limiter.AllowMessage(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
