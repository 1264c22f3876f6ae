package live

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ariefcatur/go-warung-pos/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Notice tells screens which collection changed; they refetch what they show.
type Notice struct {
	Type   string    `json:"type"`             // event type, e.g. OrderStatusChanged
	ID     string    `json:"id"`               // entity id
	Status string    `json:"status,omitempty"` // new status on OrderStatusChanged
	At     time.Time `json:"at"`
}

type Notifier interface {
	Publish(ctx context.Context, n Notice) error
}

type RedisBroker struct {
	Redis   *redis.Client
	Channel string
	Log     zerolog.Logger
}

func NewRedisBroker(rdb *redis.Client, log zerolog.Logger) *RedisBroker {
	return &RedisBroker{Redis: rdb, Channel: redisx.ChannelLive, Log: log}
}

func (b *RedisBroker) Publish(ctx context.Context, n Notice) error {
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := b.Redis.Publish(ctx, b.Channel, raw).Err(); err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	return nil
}

// Subscribe streams notices until ctx is cancelled, then closes the channel.
func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan Notice, error) {
	sub := b.Redis.Subscribe(ctx, b.Channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.Channel, err)
	}

	out := make(chan Notice, 16)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var n Notice
				if err := json.Unmarshal([]byte(m.Payload), &n); err != nil {
					b.Log.Warn().Err(err).Msg("drop malformed notice")
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
