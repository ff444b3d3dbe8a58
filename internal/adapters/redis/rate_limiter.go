package redis

import (
	"CaptionRelay/internal/core/ports"
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed-window counter per sender.
type RateLimiter struct {
	client Client
	limit  int
	window time.Duration
}

var _ ports.RateLimiter = (*RateLimiter)(nil)

// NewRateLimiter allows limit submissions per sender per window.
func NewRateLimiter(client Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow counts one submission and reports whether it is within the limit.
func (r *RateLimiter) Allow(ctx context.Context, senderID int64) (bool, error) {
	key := SenderKey(senderID)

	count, ttl, err := r.client.IncrWithTTL(ctx, key)
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}

	// A counter without expiry opens the window. This is the first hit, or
	// a hit after an earlier Expire failed.
	if ttl < 0 {
		if err := r.client.Expire(ctx, key, r.window); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	return count <= int64(r.limit), nil
}

// SenderKey is the Redis key holding a sender's counter.
func SenderKey(senderID int64) string {
	return fmt.Sprintf("caption_relay:rate_limit:%d", senderID)
}
