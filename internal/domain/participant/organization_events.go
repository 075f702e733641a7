package participant

import (
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Organization
const AggregateTypeOrganization = "Organization"

// Event type constants for Organization
const (
	EventTypeOrganizationCreated = "OrganizationCreated"
)

// OrganizationCreatedEvent is published when a new organization is created
type OrganizationCreatedEvent struct {
	shared.BaseDomainEvent
	OrganizationID             uuid.UUID `json:"organization_id"`
	Name                       string    `json:"name"`
	BusinessRegisterIdentifier string    `json:"business_register_identifier"`
	Domains                    []string  `json:"domains"`
}

// NewOrganizationCreatedEvent creates a new OrganizationCreatedEvent
func NewOrganizationCreatedEvent(org *Organization) *OrganizationCreatedEvent {
	return &OrganizationCreatedEvent{
		BaseDomainEvent:            shared.NewBaseDomainEvent(EventTypeOrganizationCreated, AggregateTypeOrganization, org.ID),
		OrganizationID:             org.ID,
		Name:                       org.Name,
		BusinessRegisterIdentifier: string(org.BusinessRegisterIdentifier),
		Domains:                    append([]string(nil), org.Domains...),
	}
}
