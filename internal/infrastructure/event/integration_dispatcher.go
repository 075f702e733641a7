package event

import (
	"context"
	"fmt"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultIntegrationStream is the Redis stream downstream systems read from
const DefaultIntegrationStream = "actor-registry:integration-events"

// IntegrationEvent is a delivered domain event as handed to a sink
type IntegrationEvent struct {
	EventID       string
	EventType     string
	AggregateID   string
	AggregateType string
	OccurredAt    time.Time
	Payload       []byte
}

// IntegrationEventSink hands integration events to downstream systems
type IntegrationEventSink interface {
	Send(ctx context.Context, event IntegrationEvent) error
}

// IntegrationEventDispatcher is the bus handler that forwards participant
// events to a sink. Wrap it in an IdempotentHandler to suppress redeliveries.
type IntegrationEventDispatcher struct {
	sink       IntegrationEventSink
	serializer *EventSerializer
	eventTypes []string
}

// NewIntegrationEventDispatcher creates a dispatcher for the given event types
func NewIntegrationEventDispatcher(sink IntegrationEventSink, serializer *EventSerializer, eventTypes ...string) *IntegrationEventDispatcher {
	return &IntegrationEventDispatcher{
		sink:       sink,
		serializer: serializer,
		eventTypes: eventTypes,
	}
}

// EventTypes implements shared.EventHandler
func (d *IntegrationEventDispatcher) EventTypes() []string {
	return d.eventTypes
}

// Handle implements shared.EventHandler
func (d *IntegrationEventDispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := d.serializer.Serialize(event)
	if err != nil {
		return err
	}
	return d.sink.Send(ctx, IntegrationEvent{
		EventID:       event.EventID().String(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID().String(),
		AggregateType: event.AggregateType(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
	})
}

var _ shared.EventHandler = (*IntegrationEventDispatcher)(nil)

// LogSink writes integration events to the log. Used when no broker is configured.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a new LogSink
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Send implements IntegrationEventSink
func (s *LogSink) Send(ctx context.Context, event IntegrationEvent) error {
	s.logger.Info("integration event",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.String("aggregate_type", event.AggregateType),
		zap.String("aggregate_id", event.AggregateID),
		zap.Time("occurred_at", event.OccurredAt),
		zap.ByteString("payload", event.Payload),
	)
	return nil
}

// RedisStreamSink appends integration events to a Redis stream
type RedisStreamSink struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

// NewRedisStreamSink creates a sink on stream, trimmed to roughly maxLen entries when maxLen > 0
func NewRedisStreamSink(client redis.Cmdable, stream string, maxLen int64) *RedisStreamSink {
	if stream == "" {
		stream = DefaultIntegrationStream
	}
	return &RedisStreamSink{client: client, stream: stream, maxLen: maxLen}
}

// Send implements IntegrationEventSink
func (s *RedisStreamSink) Send(ctx context.Context, event IntegrationEvent) error {
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"event_id":       event.EventID,
			"event_type":     event.EventType,
			"aggregate_type": event.AggregateType,
			"aggregate_id":   event.AggregateID,
			"occurred_at":    event.OccurredAt.UTC().Format(time.RFC3339Nano),
			"payload":        string(event.Payload),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("append %s to %s: %w", event.EventType, s.stream, err)
	}
	return nil
}
