package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Runs against a real server; set TEST_REDIS_ADDR to enable.
func TestRedis_FixedWindow(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = rdb.Close() }()

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}

	l := NewRedis(rdb, "test:"+uuid.NewString()+":", 3, time.Minute)

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "ip")
		if err != nil || !d.Allowed {
			t.Fatalf("call %d: decision=%+v err=%v", i, d, err)
		}
	}

	d, err := l.Allow(ctx, "ip")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if d.Allowed {
		t.Fatalf("fourth call should be limited")
	}
	if d.RetryAfter <= 0 || d.RetryAfter > time.Minute {
		t.Fatalf("retry after = %v", d.RetryAfter)
	}
}
