package redisad

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"trip_planner/internal/adapters/observability"
)

func NewClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

// Limiter is a fixed-window request counter shared by every API replica.
type Limiter struct {
	c      *redis.Client
	limit  int64
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewLimiter(c *redis.Client, perWindow int, window time.Duration) *Limiter {
	return &Limiter{
		c:      c,
		limit:  int64(perWindow),
		window: window,
		prefix: "ratelimit:plan",
		now:    time.Now,
	}
}

func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := l.now().UnixNano() / int64(l.window)
	k := l.prefix + ":" + key + ":" + strconv.FormatInt(bucket, 10)

	pipe := l.c.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		observability.ObserveRateLimit("error")
		return false, err
	}
	if incr.Val() > l.limit {
		observability.ObserveRateLimit("limited")
		return false, nil
	}
	observability.ObserveRateLimit("allowed")
	return true, nil
}
