package persistence

import (
	"context"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormActorConsolidationRepository implements participant.ActorConsolidationRepository using GORM
type GormActorConsolidationRepository struct {
	db *gorm.DB
}

// NewGormActorConsolidationRepository creates a new GormActorConsolidationRepository
func NewGormActorConsolidationRepository(db *gorm.DB) *GormActorConsolidationRepository {
	return &GormActorConsolidationRepository{db: db}
}

// FindByID finds a consolidation by its ID
func (r *GormActorConsolidationRepository) FindByID(ctx context.Context, id uuid.UUID) (*participant.ActorConsolidation, error) {
	var model models.ActorConsolidationModel
	if err := Conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds every consolidation, latest scheduled first
func (r *GormActorConsolidationRepository) FindAll(ctx context.Context) ([]*participant.ActorConsolidation, error) {
	return r.find(Conn(ctx, r.db).Order("scheduled_at DESC"))
}

// FindPending finds every pending consolidation
func (r *GormActorConsolidationRepository) FindPending(ctx context.Context) ([]*participant.ActorConsolidation, error) {
	return r.find(Conn(ctx, r.db).
		Where("status = ?", string(participant.ActorConsolidationStatusPending)).
		Order("scheduled_at"))
}

// FindDue finds pending consolidations scheduled at or before now, oldest first
func (r *GormActorConsolidationRepository) FindDue(ctx context.Context, now time.Time) ([]*participant.ActorConsolidation, error) {
	return r.find(Conn(ctx, r.db).
		Where("status = ? AND scheduled_at <= ?", string(participant.ActorConsolidationStatusPending), now).
		Order("scheduled_at"))
}

// AddOrUpdate inserts or updates the consolidation and returns its ID
func (r *GormActorConsolidationRepository) AddOrUpdate(ctx context.Context, consolidation *participant.ActorConsolidation) (uuid.UUID, error) {
	ensureID(&consolidation.ID)
	model := models.ActorConsolidationModelFromDomain(consolidation)
	tx := Conn(ctx, r.db)

	found, err := exists(tx, &models.ActorConsolidationModel{}, consolidation.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if found {
		err = updateAll(tx, model)
	} else {
		err = tx.Create(model).Error
	}
	if err != nil {
		return uuid.Nil, err
	}
	return consolidation.ID, nil
}

func (r *GormActorConsolidationRepository) find(query *gorm.DB) ([]*participant.ActorConsolidation, error) {
	var rows []models.ActorConsolidationModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]*participant.ActorConsolidation, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result, nil
}

var _ participant.ActorConsolidationRepository = (*GormActorConsolidationRepository)(nil)
