package persistence

import (
	"context"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormConsolidationAuditLogRepository appends consolidation audit entries
type GormConsolidationAuditLogRepository struct {
	db *gorm.DB
}

// NewGormConsolidationAuditLogRepository creates a new GormConsolidationAuditLogRepository
func NewGormConsolidationAuditLogRepository(db *gorm.DB) *GormConsolidationAuditLogRepository {
	return &GormConsolidationAuditLogRepository{db: db}
}

// Audit implements participant.ActorConsolidationAuditLogRepository
func (r *GormConsolidationAuditLogRepository) Audit(ctx context.Context, identity shared.AuditIdentity, kind participant.ConsolidationChangeKind, consolidation *participant.ActorConsolidation, gridAreaID uuid.UUID) error {
	entry := participant.NewActorConsolidationAuditLogEntry(identity, kind, consolidation, gridAreaID)
	return Conn(ctx, r.db).Create(models.ConsolidationAuditLogModelFromDomain(entry)).Error
}

// FindByConsolidation returns the entries of a consolidation, oldest first
func (r *GormConsolidationAuditLogRepository) FindByConsolidation(ctx context.Context, consolidationID uuid.UUID) ([]*participant.ActorConsolidationAuditLogEntry, error) {
	var rows []models.ConsolidationAuditLogModel
	if err := Conn(ctx, r.db).
		Where("consolidation_id = ?", consolidationID).
		Order("logged_at, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]*participant.ActorConsolidationAuditLogEntry, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result, nil
}

var _ participant.ActorConsolidationAuditLogRepository = (*GormConsolidationAuditLogRepository)(nil)
