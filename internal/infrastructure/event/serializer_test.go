package event

import (
	"testing"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializer_RoundTrip(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterParticipantEvents(serializer)

	actor := newActivatedActor(t)
	activated, ok := actor.GetDomainEvents()[0].(*participant.ActorActivatedEvent)
	require.True(t, ok)

	data, err := serializer.Serialize(activated)
	require.NoError(t, err)

	decoded, err := serializer.Deserialize(participant.EventTypeActorActivated, data)
	require.NoError(t, err)

	got, ok := decoded.(*participant.ActorActivatedEvent)
	require.True(t, ok)
	assert.Equal(t, activated.EventID(), got.EventID())
	assert.Equal(t, activated.AggregateID(), got.AggregateID())
	assert.Equal(t, "5790000555550", got.ActorNumber)
	assert.Equal(t, participant.EicFunctionGridAccessProvider, got.Function)
	assert.Len(t, got.GridAreas, 1)
	assert.True(t, activated.OccurredAt().Equal(got.OccurredAt()))
}

func TestEventSerializer_UnknownType(t *testing.T) {
	serializer := NewEventSerializer()

	_, err := serializer.Deserialize("NoSuchEvent", []byte(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type: NoSuchEvent")
}

func TestEventSerializer_InvalidPayload(t *testing.T) {
	serializer := NewEventSerializer()
	serializer.Register(testEventType, func() shared.DomainEvent { return &testEvent{} })

	_, err := serializer.Deserialize(testEventType, []byte(`{not json`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal TestEvent")
}

func TestEventSerializer_RegisteredTypes(t *testing.T) {
	serializer := NewEventSerializer()
	assert.False(t, serializer.IsRegistered(participant.EventTypeOrganizationCreated))

	RegisterParticipantEvents(serializer)

	assert.True(t, serializer.IsRegistered(participant.EventTypeOrganizationCreated))
	assert.ElementsMatch(t, ParticipantEventTypes, serializer.RegisteredTypes())
	assert.IsIncreasing(t, serializer.RegisteredTypes())
}
