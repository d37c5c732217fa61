package app

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"habitstreak/internal/metrics"
)

// StatsCache stores computed analytics per user. Implementations must make
// Invalidate hide every value previously stored for the user.
type StatsCache interface {
	Get(ctx context.Context, userID int64, key string) ([]byte, bool, error)
	Set(ctx context.Context, userID int64, key string, value []byte) error
	Invalidate(ctx context.Context, userID int64) error
}

// nopCache never stores anything, so every call recomputes.
type nopCache struct{}

func (nopCache) Get(context.Context, int64, string) ([]byte, bool, error) { return nil, false, nil }
func (nopCache) Set(context.Context, int64, string, []byte) error         { return nil }
func (nopCache) Invalidate(context.Context, int64) error                  { return nil }

func cacheOrNop(c StatsCache) StatsCache {
	if c == nil {
		return nopCache{}
	}
	return c
}

// cached returns the value stored under key, or runs compute and stores its result.
// Cache errors are logged and otherwise ignored.
func cached[T any](ctx context.Context, c StatsCache, log *zap.Logger, op string, userID int64, key string, compute func() (T, error)) (T, error) {
	if b, ok, err := c.Get(ctx, userID, key); err != nil {
		metrics.RecordCacheLookup(op, metrics.CacheError)
		log.Warn("stats cache get failed", zap.String("op", op), zap.Int64("user_id", userID), zap.Error(err))
	} else if ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			metrics.RecordCacheLookup(op, metrics.CacheHit)
			return v, nil
		}
		metrics.RecordCacheLookup(op, metrics.CacheError)
	} else {
		metrics.RecordCacheLookup(op, metrics.CacheMiss)
	}

	v, err := compute()
	if err != nil {
		return v, err
	}
	b, err := json.Marshal(v)
	if err == nil {
		err = c.Set(ctx, userID, key, b)
	}
	if err != nil {
		log.Warn("stats cache set failed", zap.String("op", op), zap.Int64("user_id", userID), zap.Error(err))
	}
	return v, nil
}
