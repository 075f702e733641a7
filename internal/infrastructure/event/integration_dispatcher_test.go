package event

import (
	"context"
	"testing"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSink struct {
	sent []IntegrationEvent
	err  error
}

func (s *recordingSink) Send(ctx context.Context, event IntegrationEvent) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, event)
	return nil
}

func TestIntegrationEventDispatcher_Handle(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterParticipantEvents(serializer)
	sink := &recordingSink{}
	dispatcher := NewIntegrationEventDispatcher(sink, serializer, ParticipantEventTypes...)
	actor := newActivatedActor(t)
	activated := actor.GetDomainEvents()[0]

	require.NoError(t, dispatcher.Handle(context.Background(), activated))

	require.Len(t, sink.sent, 1)
	sent := sink.sent[0]
	assert.Equal(t, activated.EventID().String(), sent.EventID)
	assert.Equal(t, participant.EventTypeActorActivated, sent.EventType)
	assert.Equal(t, actor.ID.String(), sent.AggregateID)
	assert.Equal(t, participant.AggregateTypeActor, sent.AggregateType)

	decoded, err := serializer.Deserialize(sent.EventType, sent.Payload)
	require.NoError(t, err)
	assert.Equal(t, activated.EventID(), decoded.EventID())
}

func TestIntegrationEventDispatcher_SinkError(t *testing.T) {
	sink := &recordingSink{err: errHandler}
	dispatcher := NewIntegrationEventDispatcher(sink, NewEventSerializer(), testEventType)

	err := dispatcher.Handle(context.Background(), newTestEvent(testEventType))

	assert.ErrorIs(t, err, errHandler)
	assert.Equal(t, []string{testEventType}, dispatcher.EventTypes())
}

func TestIntegrationEventDispatcher_ThroughBus(t *testing.T) {
	serializer := NewEventSerializer()
	sink := &recordingSink{}
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewIdempotentHandler(
		NewIntegrationEventDispatcher(sink, serializer, ParticipantEventTypes...),
		newFakeIdempotencyStore(),
		shared.DefaultIdempotencyConfig(),
		zap.NewNop(),
	))
	actor := newActivatedActor(t)
	events := actor.GetDomainEvents()

	require.NoError(t, bus.Publish(context.Background(), events...))
	require.NoError(t, bus.Publish(context.Background(), events...))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent(testEventType)))

	assert.Len(t, sink.sent, len(events))
}

func TestLogSink_Send(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := NewLogSink(zap.New(core))

	require.NoError(t, sink.Send(context.Background(), IntegrationEvent{
		EventID:   "e1",
		EventType: participant.EventTypeActorDeactivated,
		Payload:   []byte(`{}`),
	}))

	entries := logs.FilterMessage("integration event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, participant.EventTypeActorDeactivated, entries[0].ContextMap()["event_type"])
}

func TestRedisStreamSink_WrapsErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	sink := NewRedisStreamSink(client, "", 1000)

	err := sink.Send(context.Background(), IntegrationEvent{EventType: participant.EventTypeActorActivated})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "append ActorActivated to "+DefaultIntegrationStream)
}
