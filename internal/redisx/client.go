package redisx

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// KitchenVersion reads the invalidation counter; a missing key is version 0.
func KitchenVersion(ctx context.Context, rdb *redis.Client) (int64, error) {
	v, err := rdb.Get(ctx, KeyKitchenVersion).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// BumpKitchenVersion invalidates every cached kitchen summary at once.
func BumpKitchenVersion(ctx context.Context, rdb *redis.Client) error {
	return rdb.Incr(ctx, KeyKitchenVersion).Err()
}
