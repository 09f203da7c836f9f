package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type IRateLimiter interface {
	// Allow counts one request for key and reports whether it is within the
	// limit of the current window.
	Allow(ctx context.Context, key string) (bool, error)
}

type redisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter returns a fixed window limiter backed by Redis. A nil client
// or a non-positive limit disables limiting.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) IRateLimiter {
	return &redisRateLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
	}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.rdb == nil || l.limit <= 0 {
		return true, nil
	}

	windowStart := time.Now().Truncate(l.window).Unix()
	redisKey := fmt.Sprintf("ratelimit:import:%s:%d", key, windowStart)

	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return true, err
	}
	return incr.Val() <= int64(l.limit), nil
}
