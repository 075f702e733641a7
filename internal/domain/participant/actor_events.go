package participant

import (
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Actor
const AggregateTypeActor = "Actor"

// Event type constants for Actor
const (
	EventTypeActorActivated                      = "ActorActivated"
	EventTypeActorDeactivated                    = "ActorDeactivated"
	EventTypeGridAreaOwnershipAssigned           = "GridAreaOwnershipAssigned"
	EventTypeActorExternalIDChanged              = "ActorExternalIdChanged"
	EventTypeActorCertificateCredentialsAssigned = "ActorCertificateCredentialsAssigned"
	EventTypeActorCertificateCredentialsRemoved  = "ActorCertificateCredentialsRemoved"
)

// ActorGridAreaSnapshot is the grid area part of an actor event
type ActorGridAreaSnapshot struct {
	GridAreaID         uuid.UUID           `json:"grid_area_id"`
	MeteringPointTypes []MeteringPointType `json:"metering_point_types"`
}

// ActorActivatedEvent is published when an actor becomes active
type ActorActivatedEvent struct {
	shared.BaseDomainEvent
	ActorID         uuid.UUID               `json:"actor_id"`
	OrganizationID  uuid.UUID               `json:"organization_id"`
	ExternalActorID *uuid.UUID              `json:"external_actor_id,omitempty"`
	ActorNumber     string                  `json:"actor_number"`
	ActorNumberType ActorNumberType         `json:"actor_number_type"`
	Name            string                  `json:"name"`
	Function        EicFunction             `json:"function,omitempty"`
	GridAreas       []ActorGridAreaSnapshot `json:"grid_areas,omitempty"`
	ValidFrom       time.Time               `json:"valid_from"`
}

// NewActorActivatedEvent creates a new ActorActivatedEvent
func NewActorActivatedEvent(actor *Actor) *ActorActivatedEvent {
	event := &ActorActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActorActivated, AggregateTypeActor, actor.ID),
		ActorID:         actor.ID,
		OrganizationID:  actor.OrganizationID,
		ExternalActorID: actor.ExternalActorID,
		ActorNumber:     actor.ActorNumber.Value,
		ActorNumberType: actor.ActorNumber.Type,
		Name:            actor.Name,
	}
	event.ValidFrom = event.OccurredAt()
	if actor.MarketRole != nil {
		event.Function = actor.MarketRole.Function()
		for _, ga := range actor.MarketRole.GridAreas() {
			event.GridAreas = append(event.GridAreas, ActorGridAreaSnapshot{
				GridAreaID:         ga.GridAreaID,
				MeteringPointTypes: ga.MeteringPointTypes,
			})
		}
	}
	return event
}

// ActorDeactivatedEvent is published when an active actor becomes inactive
type ActorDeactivatedEvent struct {
	shared.BaseDomainEvent
	ActorID        uuid.UUID   `json:"actor_id"`
	OrganizationID uuid.UUID   `json:"organization_id"`
	ActorNumber    string      `json:"actor_number"`
	Function       EicFunction `json:"function,omitempty"`
	ValidFrom      time.Time   `json:"valid_from"`
}

// NewActorDeactivatedEvent creates a new ActorDeactivatedEvent
func NewActorDeactivatedEvent(actor *Actor) *ActorDeactivatedEvent {
	event := &ActorDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActorDeactivated, AggregateTypeActor, actor.ID),
		ActorID:         actor.ID,
		OrganizationID:  actor.OrganizationID,
		ActorNumber:     actor.ActorNumber.Value,
	}
	event.ValidFrom = event.OccurredAt()
	if fn, ok := actor.Function(); ok {
		event.Function = fn
	}
	return event
}

// GridAreaOwnershipAssignedEvent is published when a grid access provider takes over a grid area
type GridAreaOwnershipAssignedEvent struct {
	shared.BaseDomainEvent
	ActorID        uuid.UUID   `json:"actor_id"`
	OrganizationID uuid.UUID   `json:"organization_id"`
	ActorNumber    string      `json:"actor_number"`
	Function       EicFunction `json:"function"`
	GridAreaID     uuid.UUID   `json:"grid_area_id"`
	ValidFrom      time.Time   `json:"valid_from"`
}

// NewGridAreaOwnershipAssignedEvent creates a new GridAreaOwnershipAssignedEvent
func NewGridAreaOwnershipAssignedEvent(actor *Actor, gridAreaID uuid.UUID) *GridAreaOwnershipAssignedEvent {
	event := &GridAreaOwnershipAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGridAreaOwnershipAssigned, AggregateTypeActor, actor.ID),
		ActorID:         actor.ID,
		OrganizationID:  actor.OrganizationID,
		ActorNumber:     actor.ActorNumber.Value,
		GridAreaID:      gridAreaID,
	}
	event.ValidFrom = event.OccurredAt()
	if fn, ok := actor.Function(); ok {
		event.Function = fn
	}
	return event
}

// ActorExternalIDChangedEvent is published when the identity-provider link of an actor changes
type ActorExternalIDChangedEvent struct {
	shared.BaseDomainEvent
	ActorID         uuid.UUID  `json:"actor_id"`
	OrganizationID  uuid.UUID  `json:"organization_id"`
	ActorNumber     string     `json:"actor_number"`
	ExternalActorID *uuid.UUID `json:"external_actor_id,omitempty"`
}

// NewActorExternalIDChangedEvent creates a new ActorExternalIDChangedEvent
func NewActorExternalIDChangedEvent(actor *Actor) *ActorExternalIDChangedEvent {
	return &ActorExternalIDChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActorExternalIDChanged, AggregateTypeActor, actor.ID),
		ActorID:         actor.ID,
		OrganizationID:  actor.OrganizationID,
		ActorNumber:     actor.ActorNumber.Value,
		ExternalActorID: actor.ExternalActorID,
	}
}

// ActorCertificateCredentialsAssignedEvent is published when an active actor gets a certificate
type ActorCertificateCredentialsAssignedEvent struct {
	shared.BaseDomainEvent
	ActorID               uuid.UUID   `json:"actor_id"`
	ActorNumber           string      `json:"actor_number"`
	Function              EicFunction `json:"function,omitempty"`
	CertificateThumbprint string      `json:"certificate_thumbprint"`
	ValidFrom             time.Time   `json:"valid_from"`
}

// NewActorCertificateCredentialsAssignedEvent creates a new ActorCertificateCredentialsAssignedEvent
func NewActorCertificateCredentialsAssignedEvent(actor *Actor) *ActorCertificateCredentialsAssignedEvent {
	event := &ActorCertificateCredentialsAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActorCertificateCredentialsAssigned, AggregateTypeActor, actor.ID),
		ActorID:         actor.ID,
		ActorNumber:     actor.ActorNumber.Value,
	}
	event.ValidFrom = event.OccurredAt()
	if actor.Credentials != nil {
		event.CertificateThumbprint = actor.Credentials.CertificateThumbprint
	}
	if fn, ok := actor.Function(); ok {
		event.Function = fn
	}
	return event
}

// ActorCertificateCredentialsRemovedEvent is published when an active actor loses its certificate
type ActorCertificateCredentialsRemovedEvent struct {
	shared.BaseDomainEvent
	ActorID               uuid.UUID   `json:"actor_id"`
	ActorNumber           string      `json:"actor_number"`
	Function              EicFunction `json:"function,omitempty"`
	CertificateThumbprint string      `json:"certificate_thumbprint"`
	ValidFrom             time.Time   `json:"valid_from"`
}

// NewActorCertificateCredentialsRemovedEvent creates a new ActorCertificateCredentialsRemovedEvent
func NewActorCertificateCredentialsRemovedEvent(actor *Actor, thumbprint string) *ActorCertificateCredentialsRemovedEvent {
	event := &ActorCertificateCredentialsRemovedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeActorCertificateCredentialsRemoved, AggregateTypeActor, actor.ID),
		ActorID:               actor.ID,
		ActorNumber:           actor.ActorNumber.Value,
		CertificateThumbprint: thumbprint,
	}
	event.ValidFrom = event.OccurredAt()
	if fn, ok := actor.Function(); ok {
		event.Function = fn
	}
	return event
}
