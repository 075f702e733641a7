package participant

import (
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Delegation hands the message handling of a market role from one actor to another
type Delegation struct {
	shared.BaseAggregateRoot
	DelegatedByActorID uuid.UUID
	DelegatedToActorID uuid.UUID
	Function           EicFunction
	StartsAt           time.Time
	StopsAt            *time.Time
}

// NewDelegation creates a delegation starting at startsAt
func NewDelegation(delegatedBy, delegatedTo uuid.UUID, function EicFunction, startsAt time.Time) (*Delegation, error) {
	if delegatedBy == uuid.Nil || delegatedTo == uuid.Nil {
		return nil, shared.NewDomainError(CodeInvalidDelegation, "Both actors are required")
	}
	if delegatedBy == delegatedTo {
		return nil, shared.NewDomainError(CodeInvalidDelegation, "An actor cannot delegate to itself")
	}
	if !function.IsValid() {
		return nil, shared.NewDomainErrorf(CodeInvalidEicFunction, "Unknown market role function %q", function)
	}
	return &Delegation{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		DelegatedByActorID: delegatedBy,
		DelegatedToActorID: delegatedTo,
		Function:           function,
		StartsAt:           startsAt.UTC(),
	}, nil
}

// Stop ends the delegation at stopsAt
func (d *Delegation) Stop(stopsAt time.Time) error {
	stopsAt = stopsAt.UTC()
	if stopsAt.Before(d.StartsAt) {
		return shared.NewDomainError(CodeInvalidDelegation, "A delegation cannot stop before it starts")
	}
	d.StopsAt = &stopsAt
	d.IncrementVersion()
	return nil
}

// IsActiveAt reports whether the delegation is in effect at t
func (d *Delegation) IsActiveAt(t time.Time) bool {
	if t.Before(d.StartsAt) {
		return false
	}
	return d.StopsAt == nil || t.Before(*d.StopsAt)
}

// IsStoppedAt reports whether the delegation ended at or before t
func (d *Delegation) IsStoppedAt(t time.Time) bool {
	return d.StopsAt != nil && !t.Before(*d.StopsAt)
}
