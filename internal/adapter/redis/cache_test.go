package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func TestKeys(t *testing.T) {
	if got := genKey(42); got != "habitstreak:gen:42" {
		t.Errorf("genKey = %q", got)
	}
	if got := entryKey(42, 3, "dashboard:2024-03-10@UTC"); got != "habitstreak:stats:42:3:dashboard:2024-03-10@UTC" {
		t.Errorf("entryKey = %q", got)
	}
}

func TestNewWithClientDefaultTTL(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "localhost:0"})
	defer rdb.Close() //nolint:errcheck

	c := NewWithClient(rdb, 0)
	if c.ttl != 10*time.Minute {
		t.Errorf("expected default ttl, got %v", c.ttl)
	}
}

func TestCacheIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := New(ctx, Options{Addr: addr, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close() //nolint:errcheck

	userID := time.Now().UnixNano()
	if _, ok, err := c.Get(ctx, userID, "k"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, userID, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b, ok, err := c.Get(ctx, userID, "k")
	if err != nil || !ok || string(b) != `{"a":1}` {
		t.Fatalf("expected hit, got %q ok=%v err=%v", b, ok, err)
	}
	if err := c.Invalidate(ctx, userID); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx, userID, "k"); ok {
		t.Fatal("expected miss after invalidate")
	}
	_ = c.rdb.Del(ctx, genKey(userID)).Err()
}
