package event

import (
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
)

// ParticipantEventTypes lists every event the registry publishes
var ParticipantEventTypes = []string{
	participant.EventTypeActorActivated,
	participant.EventTypeActorDeactivated,
	participant.EventTypeGridAreaOwnershipAssigned,
	participant.EventTypeActorExternalIDChanged,
	participant.EventTypeActorCertificateCredentialsAssigned,
	participant.EventTypeActorCertificateCredentialsRemoved,
	participant.EventTypeOrganizationCreated,
}

// RegisterParticipantEvents registers the participant events with the
// serializer so the outbox processor can read them back.
func RegisterParticipantEvents(serializer *EventSerializer) {
	serializer.Register(participant.EventTypeActorActivated, func() shared.DomainEvent { return &participant.ActorActivatedEvent{} })
	serializer.Register(participant.EventTypeActorDeactivated, func() shared.DomainEvent { return &participant.ActorDeactivatedEvent{} })
	serializer.Register(participant.EventTypeGridAreaOwnershipAssigned, func() shared.DomainEvent { return &participant.GridAreaOwnershipAssignedEvent{} })
	serializer.Register(participant.EventTypeActorExternalIDChanged, func() shared.DomainEvent { return &participant.ActorExternalIDChangedEvent{} })
	serializer.Register(participant.EventTypeActorCertificateCredentialsAssigned, func() shared.DomainEvent { return &participant.ActorCertificateCredentialsAssignedEvent{} })
	serializer.Register(participant.EventTypeActorCertificateCredentialsRemoved, func() shared.DomainEvent { return &participant.ActorCertificateCredentialsRemovedEvent{} })
	serializer.Register(participant.EventTypeOrganizationCreated, func() shared.DomainEvent { return &participant.OrganizationCreatedEvent{} })
}
