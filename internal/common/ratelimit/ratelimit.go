// internal/common/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter enforces a fixed-window per-user call ceiling on the AI
// endpoints. The window key is created on the first call and expires after
// the window length, so check-then-act semantics hold: a denied check
// performs no upstream work.
type Limiter struct {
	client   *redis.Client
	maxCalls int
	window   time.Duration
}

func New(client *redis.Client, maxCalls int, window time.Duration) *Limiter {
	return &Limiter{
		client:   client,
		maxCalls: maxCalls,
		window:   window,
	}
}

// Allow records one call for (userID, endpoint) and reports whether it is
// within the ceiling. The Nth call in a window is allowed, the (N+1)th is
// denied.
func (l *Limiter) Allow(ctx context.Context, userID, endpoint string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", endpoint, userID)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr failed: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire failed: %w", err)
		}
	}

	return count <= int64(l.maxCalls), nil
}

// RetryAfter returns the retry hint surfaced on a denied check, in seconds.
func (l *Limiter) RetryAfter() int {
	return int(l.window / time.Second)
}
