package participant

import (
	"context"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// ConsolidationChangeKind is the kind of a consolidation audit entry
type ConsolidationChangeKind string

const (
	ConsolidationChangeRequested ConsolidationChangeKind = "ConsolidationRequested"
	ConsolidationChangeCompleted ConsolidationChangeKind = "ConsolidationCompleted"
)

// ActorConsolidationAuditLogEntry records one grid area's part in a consolidation
type ActorConsolidationAuditLogEntry struct {
	ID              uuid.UUID
	AuditIdentityID uuid.UUID
	ChangeKind      ConsolidationChangeKind
	ConsolidationID uuid.UUID
	ActorFromID     uuid.UUID
	ActorToID       uuid.UUID
	GridAreaID      uuid.UUID
	ScheduledAt     time.Time
	Timestamp       time.Time
}

// NewActorConsolidationAuditLogEntry builds an entry stamped now
func NewActorConsolidationAuditLogEntry(identity shared.AuditIdentity, kind ConsolidationChangeKind, consolidation *ActorConsolidation, gridAreaID uuid.UUID) *ActorConsolidationAuditLogEntry {
	return &ActorConsolidationAuditLogEntry{
		ID:              uuid.New(),
		AuditIdentityID: identity.ID,
		ChangeKind:      kind,
		ConsolidationID: consolidation.ID,
		ActorFromID:     consolidation.ActorFromID,
		ActorToID:       consolidation.ActorToID,
		GridAreaID:      gridAreaID,
		ScheduledAt:     consolidation.ScheduledAt,
		Timestamp:       time.Now().UTC(),
	}
}

// ActorConsolidationAuditLogRepository is the append-only consolidation audit trail
type ActorConsolidationAuditLogRepository interface {
	// Audit appends one entry in the unit of work carried by ctx
	Audit(ctx context.Context, identity shared.AuditIdentity, kind ConsolidationChangeKind, consolidation *ActorConsolidation, gridAreaID uuid.UUID) error

	// FindByConsolidation returns the entries of a consolidation, oldest first
	FindByConsolidation(ctx context.Context, consolidationID uuid.UUID) ([]*ActorConsolidationAuditLogEntry, error)
}
