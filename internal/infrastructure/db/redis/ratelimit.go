package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitWindow = time.Minute

// RateLimiter provides per-user fixed-window request limiting backed by Redis.
// Key format: ratelimit:<user_id>:<window_start_unix>
type RateLimiter struct {
	client *redis.Client
	limit  int
}

// NewRateLimiter creates a RateLimiter allowing limit requests per minute per user.
func NewRateLimiter(client *redis.Client, limit int) *RateLimiter {
	return &RateLimiter{client: client, limit: limit}
}

// Allow reports whether the user may make another request in the current
// window. The counter and its expiry are set in one pipeline round trip.
func (l *RateLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	key := l.key(userID, time.Now())

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rateLimitWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit check: %w", err)
	}

	return count.Val() <= int64(l.limit), nil
}

func (l *RateLimiter) key(userID string, now time.Time) string {
	window := now.Unix() / int64(rateLimitWindow.Seconds())
	return fmt.Sprintf("ratelimit:%s:%d", userID, window)
}
