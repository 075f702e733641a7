package participant

import (
	"strings"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// ActorStatus is the lifecycle state of an actor
type ActorStatus string

const (
	ActorStatusNew      ActorStatus = "New"
	ActorStatusActive   ActorStatus = "Active"
	ActorStatusInactive ActorStatus = "Inactive"
)

const maxActorNameLength = 512

// Actor is a market participant. It is the aggregate root for its market role
// and credentials.
type Actor struct {
	shared.BaseAggregateRoot
	OrganizationID  uuid.UUID
	ExternalActorID *uuid.UUID
	ActorNumber     ActorNumber
	Name            string
	Status          ActorStatus
	MarketRole      *ActorMarketRole
	Credentials     *ActorCredentials
}

// NewActor creates an actor in status New
func NewActor(organizationID uuid.UUID, number ActorNumber, name string, role *ActorMarketRole) (*Actor, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError(CodeInvalidOrganization, "Organization ID is required")
	}
	if number.IsZero() {
		return nil, shared.NewDomainError(CodeInvalidActorNumber, "Actor number is required")
	}
	name, err := validateActorName(name)
	if err != nil {
		return nil, err
	}

	return &Actor{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrganizationID:    organizationID,
		ActorNumber:       number,
		Name:              name,
		Status:            ActorStatusNew,
		MarketRole:        role,
	}, nil
}

// Function returns the market role function, if the actor has a role
func (a *Actor) Function() (EicFunction, bool) {
	if a.MarketRole == nil {
		return "", false
	}
	return a.MarketRole.Function(), true
}

// IsInactive reports whether the actor reached its terminal state
func (a *Actor) IsInactive() bool {
	return a.Status == ActorStatusInactive
}

// Rename changes the display name
func (a *Actor) Rename(name string) error {
	name, err := validateActorName(name)
	if err != nil {
		return err
	}
	a.Name = name
	a.IncrementVersion()
	return nil
}

// ReplaceMarketRole swaps the market role for a new value. Grid areas that an
// active grid access provider gains raise GridAreaOwnershipAssigned.
func (a *Actor) ReplaceMarketRole(role *ActorMarketRole) error {
	if a.IsInactive() && role != nil && len(role.gridAreas) > 0 {
		return shared.NewDomainError(CodeInvalidMarketRole, "An inactive actor cannot be assigned grid areas")
	}

	previous := a.MarketRole
	a.MarketRole = role
	a.IncrementVersion()

	if a.Status == ActorStatusActive && role != nil && role.Function() == EicFunctionGridAccessProvider {
		for _, id := range role.GridAreaIDs() {
			if previous != nil && previous.Function() == role.Function() && previous.HasGridArea(id) {
				continue
			}
			a.AddDomainEvent(NewGridAreaOwnershipAssignedEvent(a, id))
		}
	}
	return nil
}

// Activate moves a new actor to Active
func (a *Actor) Activate() error {
	if a.Status != ActorStatusNew {
		return shared.NewDomainErrorf(CodeInvalidActorStatusTransition, "Cannot activate actor in status %s", a.Status)
	}
	a.Status = ActorStatusActive
	a.IncrementVersion()

	a.AddDomainEvent(NewActorActivatedEvent(a))
	if fn, ok := a.Function(); ok && fn == EicFunctionGridAccessProvider {
		for _, id := range a.MarketRole.GridAreaIDs() {
			a.AddDomainEvent(NewGridAreaOwnershipAssignedEvent(a, id))
		}
	}
	if a.Credentials != nil && a.Credentials.Kind == CredentialsKindCertificate {
		a.AddDomainEvent(NewActorCertificateCredentialsAssignedEvent(a))
	}
	return nil
}

// Deactivate moves the actor to the terminal Inactive status
func (a *Actor) Deactivate() error {
	if a.IsInactive() {
		return shared.NewDomainError(CodeInvalidActorStatusTransition, "Actor is already inactive")
	}
	wasActive := a.Status == ActorStatusActive
	a.Status = ActorStatusInactive
	a.IncrementVersion()

	if wasActive {
		a.AddDomainEvent(NewActorDeactivatedEvent(a))
	}
	return nil
}

// SetExternalActorID links or unlinks the actor from its identity-provider application
func (a *Actor) SetExternalActorID(id *uuid.UUID) {
	if equalOptionalUUID(a.ExternalActorID, id) {
		return
	}
	if id != nil {
		copied := *id
		id = &copied
	}
	a.ExternalActorID = id
	a.IncrementVersion()
	a.AddDomainEvent(NewActorExternalIDChangedEvent(a))
}

// AssignCredentials replaces the actor's credentials
func (a *Actor) AssignCredentials(credentials *ActorCredentials) error {
	if credentials == nil {
		return shared.NewDomainError(CodeInvalidCredentials, "Credentials are required")
	}
	if a.IsInactive() {
		return shared.NewDomainError(CodeInvalidCredentials, "Credentials cannot be assigned to an inactive actor")
	}
	a.removeCertificate()
	a.Credentials = credentials
	a.IncrementVersion()

	if a.Status == ActorStatusActive && credentials.Kind == CredentialsKindCertificate {
		a.AddDomainEvent(NewActorCertificateCredentialsAssignedEvent(a))
	}
	return nil
}

// RemoveCredentials clears the actor's credentials
func (a *Actor) RemoveCredentials() {
	if a.Credentials == nil {
		return
	}
	a.removeCertificate()
	a.Credentials = nil
	a.IncrementVersion()
}

func (a *Actor) removeCertificate() {
	if a.Credentials != nil && a.Credentials.Kind == CredentialsKindCertificate && a.Status == ActorStatusActive {
		a.AddDomainEvent(NewActorCertificateCredentialsRemovedEvent(a, a.Credentials.CertificateThumbprint))
	}
}

func validateActorName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainError(CodeInvalidActorName, "Actor name cannot be empty")
	}
	if len(name) > maxActorNameLength {
		return "", shared.NewDomainError(CodeInvalidActorName, "Actor name cannot exceed 512 characters")
	}
	return name, nil
}

func equalOptionalUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
