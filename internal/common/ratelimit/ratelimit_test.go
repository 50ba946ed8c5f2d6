// internal/common/ratelimit/ratelimit_test.go
package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, maxCalls int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client, maxCalls, window), mr
}

func TestLimiter_AllowsUpToMaxCalls(t *testing.T) {
	limiter, _ := newTestLimiter(t, 5, time.Hour)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, "user-1", "chat")
		require.NoError(t, err)
		assert.True(t, allowed, "call %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "user-1", "chat")
	require.NoError(t, err)
	assert.False(t, allowed, "call over the ceiling should be denied")
}

func TestLimiter_WindowsAreIndependentPerUserAndEndpoint(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Hour)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "user-1", "chat")
	require.NoError(t, err)
	assert.True(t, allowed)

	// Same user, different endpoint
	allowed, err = limiter.Allow(ctx, "user-1", "quality_check")
	require.NoError(t, err)
	assert.True(t, allowed)

	// Different user, same endpoint
	allowed, err = limiter.Allow(ctx, "user-2", "chat")
	require.NoError(t, err)
	assert.True(t, allowed)

	// Second call for the original pair is denied
	allowed, err = limiter.Allow(ctx, "user-1", "chat")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLimiter_WindowExpiryResetsCounter(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "user-1", "chat")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "user-1", "chat")
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(time.Minute + time.Second)

	allowed, err = limiter.Allow(ctx, "user-1", "chat")
	require.NoError(t, err)
	assert.True(t, allowed, "counter should reset after the window expires")
}

func TestLimiter_RetryAfter(t *testing.T) {
	limiter, _ := newTestLimiter(t, 100, time.Hour)
	assert.Equal(t, 3600, limiter.RetryAfter())
}

func TestLimiter_SurfacesBackendErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := New(client, 100, time.Hour)

	mock.ExpectIncr("ratelimit:chat:user-1").SetErr(errors.New("connection refused"))

	_, err := limiter.Allow(context.Background(), "user-1", "chat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit incr failed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLimiter_SetsWindowExpiryOnFirstCall(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := New(client, 100, time.Hour)

	mock.ExpectIncr("ratelimit:chat:user-1").SetVal(1)
	mock.ExpectExpire("ratelimit:chat:user-1", time.Hour).SetVal(true)

	allowed, err := limiter.Allow(context.Background(), "user-1", "chat")
	require.NoError(t, err)
	assert.True(t, allowed)
	require.NoError(t, mock.ExpectationsWereMet())
}
