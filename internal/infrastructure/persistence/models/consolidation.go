package models

import (
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/google/uuid"
)

// ActorConsolidationModel is the persistence model for the ActorConsolidation aggregate
type ActorConsolidationModel struct {
	AggregateModel
	ActorFromID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	ActorToID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	ScheduledAt         time.Time  `gorm:"not null;index:idx_consolidations_status_scheduled,priority:2"`
	GridAreaToMergeToID *uuid.UUID `gorm:"type:uuid"`
	Status              string     `gorm:"type:varchar(20);not null;index:idx_consolidations_status_scheduled,priority:1"`
	FailureReason       string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ActorConsolidationModel) TableName() string {
	return "actor_consolidations"
}

// ToDomain converts the persistence model to a domain ActorConsolidation
func (m *ActorConsolidationModel) ToDomain() *participant.ActorConsolidation {
	return &participant.ActorConsolidation{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		ActorFromID:         m.ActorFromID,
		ActorToID:           m.ActorToID,
		ScheduledAt:         m.ScheduledAt.UTC(),
		GridAreaToMergeToID: m.GridAreaToMergeToID,
		Status:              participant.ActorConsolidationStatus(m.Status),
		FailureReason:       m.FailureReason,
	}
}

// ActorConsolidationModelFromDomain creates a persistence model from a domain ActorConsolidation
func ActorConsolidationModelFromDomain(c *participant.ActorConsolidation) *ActorConsolidationModel {
	m := &ActorConsolidationModel{
		ActorFromID:         c.ActorFromID,
		ActorToID:           c.ActorToID,
		ScheduledAt:         c.ScheduledAt,
		GridAreaToMergeToID: c.GridAreaToMergeToID,
		Status:              string(c.Status),
		FailureReason:       c.FailureReason,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// ConsolidationAuditLogModel is one append-only consolidation audit entry
type ConsolidationAuditLogModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	AuditIdentityID uuid.UUID `gorm:"type:uuid;not null"`
	ChangeKind      string    `gorm:"type:varchar(32);not null"`
	ConsolidationID uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorFromID     uuid.UUID `gorm:"type:uuid;not null"`
	ActorToID       uuid.UUID `gorm:"type:uuid;not null"`
	GridAreaID      uuid.UUID `gorm:"type:uuid;not null"`
	ScheduledAt     time.Time `gorm:"not null"`
	Timestamp       time.Time `gorm:"column:logged_at;not null"`
}

// TableName returns the table name for GORM
func (ConsolidationAuditLogModel) TableName() string {
	return "actor_consolidation_audit_log"
}

// ToDomain converts the persistence model to a domain audit entry
func (m *ConsolidationAuditLogModel) ToDomain() *participant.ActorConsolidationAuditLogEntry {
	return &participant.ActorConsolidationAuditLogEntry{
		ID:              m.ID,
		AuditIdentityID: m.AuditIdentityID,
		ChangeKind:      participant.ConsolidationChangeKind(m.ChangeKind),
		ConsolidationID: m.ConsolidationID,
		ActorFromID:     m.ActorFromID,
		ActorToID:       m.ActorToID,
		GridAreaID:      m.GridAreaID,
		ScheduledAt:     m.ScheduledAt.UTC(),
		Timestamp:       m.Timestamp.UTC(),
	}
}

// ConsolidationAuditLogModelFromDomain creates a persistence model from a domain audit entry
func ConsolidationAuditLogModelFromDomain(e *participant.ActorConsolidationAuditLogEntry) *ConsolidationAuditLogModel {
	return &ConsolidationAuditLogModel{
		ID:              e.ID,
		AuditIdentityID: e.AuditIdentityID,
		ChangeKind:      string(e.ChangeKind),
		ConsolidationID: e.ConsolidationID,
		ActorFromID:     e.ActorFromID,
		ActorToID:       e.ActorToID,
		GridAreaID:      e.GridAreaID,
		ScheduledAt:     e.ScheduledAt,
		Timestamp:       e.Timestamp,
	}
}

// ReservationModel pins a (function, grid area) pair to one actor.
// The composite primary key is the uniqueness guarantee.
type ReservationModel struct {
	Function   string    `gorm:"type:varchar(64);primaryKey"`
	GridAreaID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (ReservationModel) TableName() string {
	return "market_role_grid_area_reservations"
}

// ToDomain converts the persistence model to a domain reservation
func (m *ReservationModel) ToDomain() participant.MarketRoleGridAreaReservation {
	return participant.MarketRoleGridAreaReservation{
		Function:   participant.EicFunction(m.Function),
		GridAreaID: m.GridAreaID,
		ActorID:    m.ActorID,
	}
}

// DelegationModel is the persistence model for a delegation
type DelegationModel struct {
	AggregateModel
	DelegatedByActorID uuid.UUID `gorm:"type:uuid;not null;index"`
	DelegatedToActorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Function           string    `gorm:"type:varchar(64);not null"`
	StartsAt           time.Time `gorm:"not null"`
	StopsAt            *time.Time
}

// TableName returns the table name for GORM
func (DelegationModel) TableName() string {
	return "delegations"
}

// ToDomain converts the persistence model to a domain Delegation
func (m *DelegationModel) ToDomain() *participant.Delegation {
	return &participant.Delegation{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		DelegatedByActorID: m.DelegatedByActorID,
		DelegatedToActorID: m.DelegatedToActorID,
		Function:           participant.EicFunction(m.Function),
		StartsAt:           m.StartsAt.UTC(),
		StopsAt:            m.StopsAt,
	}
}

// DelegationModelFromDomain creates a persistence model from a domain Delegation
func DelegationModelFromDomain(d *participant.Delegation) *DelegationModel {
	m := &DelegationModel{
		DelegatedByActorID: d.DelegatedByActorID,
		DelegatedToActorID: d.DelegatedToActorID,
		Function:           string(d.Function),
		StartsAt:           d.StartsAt,
		StopsAt:            d.StopsAt,
	}
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	return m
}
