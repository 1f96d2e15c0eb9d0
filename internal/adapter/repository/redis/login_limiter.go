package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter implements usecase.LoginLimiter as a fixed-window counter.
type LoginLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

// NewLoginLimiter allows limit attempts per key within window.
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: "gowallet:login:",
	}
}

// Allow records an attempt and reports whether it is within the limit.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	fullKey := l.prefix + key

	count, err := l.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := l.client.Expire(ctx, fullKey, l.window).Err(); err != nil {
			return false, err
		}
	}

	return count <= l.limit, nil
}

// Reset clears the attempts of key after a successful sign-in.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.prefix+key).Err()
}
