package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-warung-pos/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// Idempotency guards a checkout key for its whole lifetime: reserved before any
// work, completed with the order id, or released when the checkout failed.
type Idempotency interface {
	// Reserve returns reserved=true for the first caller. Later callers get the
	// order id stored under the key, or "" while the first checkout is still running.
	Reserve(ctx context.Context, key string) (reserved bool, orderID string, err error)
	Complete(ctx context.Context, key, orderID string) error
	Release(ctx context.Context, key string) error
}

type RedisIdempotency struct {
	Redis *redis.Client
}

func (r *RedisIdempotency) Reserve(ctx context.Context, key string) (bool, string, error) {
	k := fmt.Sprintf(redisx.KeyIdemCheckout, key)
	ok, err := r.Redis.SetNX(ctx, k, redisx.IdemPending, redisx.TTLIdempotency).Result()
	if err != nil {
		return false, "", err
	}
	if ok {
		return true, "", nil
	}
	v, err := r.Redis.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; treat as still running, the client retries
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	if v == redisx.IdemPending {
		return false, "", nil
	}
	return false, v, nil
}

func (r *RedisIdempotency) Complete(ctx context.Context, key, orderID string) error {
	return r.Redis.Set(ctx, fmt.Sprintf(redisx.KeyIdemCheckout, key), orderID, redisx.TTLIdempotency).Err()
}

func (r *RedisIdempotency) Release(ctx context.Context, key string) error {
	return r.Redis.Del(ctx, fmt.Sprintf(redisx.KeyIdemCheckout, key)).Err()
}
