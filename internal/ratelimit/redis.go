package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter coordinates the per-key interval across processes using
// SET NX with a TTL. Redis errors fail open so a cache outage does not
// block the action being limited.
type RedisLimiter struct {
	client   *redis.Client
	prefix   string
	interval time.Duration
}

// NewRedis creates a distributed limiter on an existing Redis client.
func NewRedis(client *redis.Client, prefix string, interval time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		prefix:   prefix,
		interval: interval,
	}
}

// Allow reports whether an action for key may proceed now.
func (l *RedisLimiter) Allow(key string) bool {
	if l.interval <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ok, err := l.client.SetNX(ctx, l.prefix+key, 1, l.interval).Result()
	if err != nil {
		return true
	}
	return ok
}

// Reset clears the recorded action for key.
func (l *RedisLimiter) Reset(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	l.client.Del(ctx, l.prefix+key)
}

var _ RateLimiter = (*RedisLimiter)(nil)
