package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis shares one fixed window per key across every API replica.
type Redis struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedis(rdb *redis.Client, prefix string, limit int, window time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

func (r *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	k := r.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		// NX so the window is not extended by later hits
		p.ExpireNX(ctx, k, r.window)
		ttl = p.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit incr: %w", err)
	}

	if incr.Val() <= int64(r.limit) {
		return Decision{Allowed: true}, nil
	}

	retry := ttl.Val()
	if retry < 0 {
		retry = r.window
	}
	return Decision{Allowed: false, RetryAfter: retry}, nil
}
