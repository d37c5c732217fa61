// Package redis implements app.StatsCache on top of Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"habitstreak/internal/app"
)

const keyPrefix = "habitstreak"

var _ app.StatsCache = (*Cache)(nil)

// Cache stores analytics results under a per-user generation number.
// Invalidate bumps the generation so older entries are never read again
// and expire on their own.
type Cache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, opts Options) (*Cache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewWithClient(rdb, opts.TTL), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb *goredis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Close closes the client.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Get returns the value stored under key for the user's current generation.
func (c *Cache) Get(ctx context.Context, userID int64, key string) ([]byte, bool, error) {
	gen, err := c.generation(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	b, err := c.rdb.Get(ctx, entryKey(userID, gen, key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set stores value under key for the user's current generation.
func (c *Cache) Set(ctx context.Context, userID int64, key string, value []byte) error {
	gen, err := c.generation(ctx, userID)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, entryKey(userID, gen, key), value, c.ttl).Err()
}

// Invalidate moves the user to a new generation.
func (c *Cache) Invalidate(ctx context.Context, userID int64) error {
	return c.rdb.Incr(ctx, genKey(userID)).Err()
}

func (c *Cache) generation(ctx context.Context, userID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(userID)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

func genKey(userID int64) string {
	return fmt.Sprintf("%s:gen:%d", keyPrefix, userID)
}

func entryKey(userID, gen int64, key string) string {
	return fmt.Sprintf("%s:stats:%d:%d:%s", keyPrefix, userID, gen, key)
}
