package live

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-warung-pos/internal/events"
	kafkax "github.com/ariefcatur/go-warung-pos/internal/kafka"
	"github.com/ariefcatur/go-warung-pos/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

// Cache is the Redis state the projector touches.
type Cache interface {
	// Claim returns false when the event was already handled.
	Claim(ctx context.Context, service, eventID string) (bool, error)
	// Release undoes a Claim so a redelivered event is handled again.
	Release(ctx context.Context, service, eventID string) error
	BumpKitchen(ctx context.Context) error
}

type RedisCache struct{ Redis *redis.Client }

func (c *RedisCache) Claim(ctx context.Context, service, eventID string) (bool, error) {
	return c.Redis.SetNX(ctx, fmt.Sprintf(redisx.KeyDedup, service, eventID), "1", redisx.TTLDedup).Result()
}

func (c *RedisCache) Release(ctx context.Context, service, eventID string) error {
	return c.Redis.Del(ctx, fmt.Sprintf(redisx.KeyDedup, service, eventID)).Err()
}

func (c *RedisCache) BumpKitchen(ctx context.Context) error {
	return redisx.BumpKitchenVersion(ctx, c.Redis)
}

// Projector turns domain events from Kafka into cache invalidation and live notices.
type Projector struct {
	Cache    Cache
	Notifier Notifier
	Service  string
	Log      zerolog.Logger
}

// Handle is installed as the Kafka consumer handler.
func (p *Projector) Handle(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// a poison message would block the partition forever
		p.Log.Error().Err(err).Str("topic", m.Topic).Msg("skip undecodable event")
		return nil
	}

	fresh, err := p.Cache.Claim(ctx, p.Service, env.EventID)
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	if err := p.project(ctx, env); err != nil {
		if rerr := p.Cache.Release(ctx, p.Service, env.EventID); rerr != nil {
			p.Log.Error().Err(rerr).Str("event_id", env.EventID).Msg("release dedup claim")
		}
		return err
	}
	p.Log.Debug().Str("event_type", env.EventType).Str("id", env.CorrelationID).Msg("projected")
	return nil
}

func (p *Projector) project(ctx context.Context, env events.Envelope) error {
	if affectsKitchen(env.EventType) {
		if err := p.Cache.BumpKitchen(ctx); err != nil {
			return fmt.Errorf("bump kitchen: %w", err)
		}
	}

	n := Notice{Type: env.EventType, ID: env.CorrelationID, At: env.OccurredAt}
	if env.EventType == events.EventOrderStatusChanged {
		if pl, err := kafkax.UnwrapPayload[events.OrderStatusChangedPayload](env.Payload); err == nil {
			n.Status = pl.To
		}
	}
	if err := p.Notifier.Publish(ctx, n); err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	return nil
}

func affectsKitchen(eventType string) bool {
	switch eventType {
	case events.EventOrderCreated, events.EventOrderStatusChanged, events.EventOrderDeleted:
		return true
	}
	return false
}
