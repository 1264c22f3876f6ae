package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-warung-pos/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// Store keeps one cart per ordering session.
type Store interface {
	Load(ctx context.Context, session string) (*Cart, error)
	Save(ctx context.Context, session string, c *Cart) error
	Clear(ctx context.Context, session string) error
	// Update applies fn to the stored cart atomically and saves the result.
	// fn may run more than once and must not have side effects outside the cart.
	Update(ctx context.Context, session string, fn func(c *Cart) error) (*Cart, error)
}

// ErrBusy is returned when concurrent writers kept invalidating an Update.
var ErrBusy = errors.New("cart is being changed by another request")

const updateAttempts = 5

type RedisStore struct {
	Redis *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{Redis: rdb}
}

// Load returns an empty cart for unknown sessions.
func (s *RedisStore) Load(ctx context.Context, session string) (*Cart, error) {
	raw, err := s.Redis.Get(ctx, fmt.Sprintf(redisx.KeyCart, session)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return decode(raw)
}

func decode(raw []byte) (*Cart, error) {
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &c, nil
}

// Save refreshes the TTL on every write.
func (s *RedisStore) Save(ctx context.Context, session string, c *Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyCart, session), b, redisx.TTLCart).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, session string) error {
	if err := s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyCart, session)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Update runs fn inside WATCH on the cart key; a concurrent write aborts the
// transaction and the whole read-modify-write is retried.
func (s *RedisStore) Update(ctx context.Context, session string, fn func(c *Cart) error) (*Cart, error) {
	key := fmt.Sprintf(redisx.KeyCart, session)
	for i := 0; i < updateAttempts; i++ {
		var out *Cart
		err := s.Redis.Watch(ctx, func(tx *redis.Tx) error {
			c := &Cart{}
			raw, err := tx.Get(ctx, key).Bytes()
			switch {
			case errors.Is(err, redis.Nil):
			case err != nil:
				return fmt.Errorf("load cart: %w", err)
			default:
				if c, err = decode(raw); err != nil {
					return err
				}
			}
			if err := fn(c); err != nil {
				return err
			}
			b, err := json.Marshal(c)
			if err != nil {
				return fmt.Errorf("encode cart: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, b, redisx.TTLCart)
				return nil
			})
			out = c
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, ErrBusy
}
