package participant

import (
	"strings"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// ActorConsolidationStatus is the state of a planned consolidation
type ActorConsolidationStatus string

const (
	ActorConsolidationStatusPending  ActorConsolidationStatus = "Pending"
	ActorConsolidationStatusExecuted ActorConsolidationStatus = "Executed"
	ActorConsolidationStatusFailed   ActorConsolidationStatus = "Failed"
)

// ActorConsolidation plans the transfer of one grid access provider's grid
// areas to another at ScheduledAt
type ActorConsolidation struct {
	shared.BaseAggregateRoot
	ActorFromID         uuid.UUID
	ActorToID           uuid.UUID
	ScheduledAt         time.Time
	GridAreaToMergeToID *uuid.UUID
	Status              ActorConsolidationStatus
	FailureReason       string
}

// NewActorConsolidation plans a consolidation in status Pending
func NewActorConsolidation(fromID, toID uuid.UUID, scheduledAt time.Time, gridAreaToMergeToID *uuid.UUID) (*ActorConsolidation, error) {
	if fromID == uuid.Nil || toID == uuid.Nil {
		return nil, shared.NewDomainError(CodeInvalidConsolidation, "Both actors are required")
	}
	if fromID == toID {
		return nil, shared.NewDomainError(CodeInvalidConsolidation, "An actor cannot be consolidated into itself")
	}
	if scheduledAt.IsZero() {
		return nil, shared.NewDomainError(CodeInvalidConsolidation, "Scheduled time is required")
	}
	return &ActorConsolidation{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		ActorFromID:         fromID,
		ActorToID:           toID,
		ScheduledAt:         scheduledAt.UTC(),
		GridAreaToMergeToID: gridAreaToMergeToID,
		Status:              ActorConsolidationStatusPending,
	}, nil
}

// IsDueAt reports whether a pending consolidation should run at now
func (c *ActorConsolidation) IsDueAt(now time.Time) bool {
	return c.Status == ActorConsolidationStatusPending && !now.Before(c.ScheduledAt)
}

// Involves reports whether the actor is either side of the consolidation
func (c *ActorConsolidation) Involves(actorID uuid.UUID) bool {
	return c.ActorFromID == actorID || c.ActorToID == actorID
}

// MarkExecuted records a successful consolidation
func (c *ActorConsolidation) MarkExecuted() error {
	if c.Status != ActorConsolidationStatusPending {
		return shared.NewDomainErrorf(CodeInvalidConsolidationStatusTransition, "Cannot execute consolidation in status %s", c.Status)
	}
	c.Status = ActorConsolidationStatusExecuted
	c.FailureReason = ""
	c.IncrementVersion()
	return nil
}

// MarkFailed records a failed consolidation
func (c *ActorConsolidation) MarkFailed(reason string) error {
	if c.Status != ActorConsolidationStatusPending {
		return shared.NewDomainErrorf(CodeInvalidConsolidationStatusTransition, "Cannot fail consolidation in status %s", c.Status)
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > 1000 {
		reason = reason[:1000]
	}
	c.Status = ActorConsolidationStatusFailed
	c.FailureReason = reason
	c.IncrementVersion()
	return nil
}
