package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// RedisLimiter is a fixed-window counter shared by every API instance.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: keyPrefix,
		limit:  limit,
		window: window,
	}
}

// Allow counts the request and reports whether it is within the limit.
// The window starts with the first request for a key and is not extended
// by later ones.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := l.prefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.window)
	pttl := pipe.PTTL(ctx, redisKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to count request: %w", err)
	}

	count := int(incr.Val())
	res := Result{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(0, l.limit-count),
	}
	if !res.Allowed {
		res.RetryAfter = pttl.Val()
		if res.RetryAfter <= 0 {
			res.RetryAfter = l.window
		}
	}
	return res, nil
}
