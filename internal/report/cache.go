package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-warung-pos/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// KitchenCache stores rendered kitchen rows per date. Entries are keyed by an
// invalidation version, so stale ones are never read once it moves.
type KitchenCache interface {
	Get(ctx context.Context, date string) ([]KitchenRow, bool)
	Put(ctx context.Context, date string, rows []KitchenRow)
	Invalidate(ctx context.Context) error
}

type RedisKitchenCache struct {
	Redis *redis.Client
}

func (c *RedisKitchenCache) key(ctx context.Context, date string) (string, error) {
	v, err := redisx.KitchenVersion(ctx, c.Redis)
	if err != nil {
		return "", err
	}
	if date == "" {
		date = "all"
	}
	return fmt.Sprintf(redisx.KeyKitchenSummary, v, date), nil
}

// Get treats every Redis failure as a miss.
func (c *RedisKitchenCache) Get(ctx context.Context, date string) ([]KitchenRow, bool) {
	key, err := c.key(ctx, date)
	if err != nil {
		return nil, false
	}
	raw, err := c.Redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var rows []KitchenRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (c *RedisKitchenCache) Put(ctx context.Context, date string, rows []KitchenRow) {
	key, err := c.key(ctx, date)
	if err != nil {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	_ = c.Redis.Set(ctx, key, raw, redisx.TTLKitchenCache).Err()
}

// Invalidate bumps the shared version; the worker does the same when it sees the event.
func (c *RedisKitchenCache) Invalidate(ctx context.Context) error {
	return redisx.BumpKitchenVersion(ctx, c.Redis)
}
