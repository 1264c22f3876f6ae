package events

import (
	"context"
	"strconv"
	"time"

	kafkax "github.com/ariefcatur/go-warung-pos/internal/kafka"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher is fire-and-forget; delivery failures are logged by the producer.
type Publisher interface {
	Publish(ctx context.Context, topic, eventType, key string, payload any)
}

type KafkaPublisher struct {
	Producer *kafkax.Producer
	Service  string
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, eventType, key string, payload any) {
	env := NewEnvelope(p.Service, eventType, key, middleware.GetReqID(ctx), payload)
	p.Producer.Publish(topic, PartitionKey(key), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte(strconv.Itoa(env.EventVersion))},
	)
}

func NewEnvelope(producer, eventType, correlationID, traceID string, payload any) Envelope {
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       kafkax.MustMarshal(payload),
	}
}
