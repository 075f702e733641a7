package persistence

import (
	"context"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDelegationRepository implements participant.DelegationRepository using GORM
type GormDelegationRepository struct {
	db *gorm.DB
}

// NewGormDelegationRepository creates a new GormDelegationRepository
func NewGormDelegationRepository(db *gorm.DB) *GormDelegationRepository {
	return &GormDelegationRepository{db: db}
}

// FindByID finds a delegation by its ID
func (r *GormDelegationRepository) FindByID(ctx context.Context, id uuid.UUID) (*participant.Delegation, error) {
	var model models.DelegationModel
	if err := Conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByDelegatedTo finds the delegations received by any of the actors
func (r *GormDelegationRepository) FindByDelegatedTo(ctx context.Context, actorIDs []uuid.UUID) ([]*participant.Delegation, error) {
	if len(actorIDs) == 0 {
		return []*participant.Delegation{}, nil
	}
	var rows []models.DelegationModel
	if err := Conn(ctx, r.db).
		Where("delegated_to_actor_id IN ?", actorIDs).
		Order("starts_at").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]*participant.Delegation, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result, nil
}

// AddOrUpdate inserts or updates the delegation and returns its ID
func (r *GormDelegationRepository) AddOrUpdate(ctx context.Context, delegation *participant.Delegation) (uuid.UUID, error) {
	ensureID(&delegation.ID)
	model := models.DelegationModelFromDomain(delegation)
	tx := Conn(ctx, r.db)

	found, err := exists(tx, &models.DelegationModel{}, delegation.ID)
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
	return delegation.ID, nil
}

var _ participant.DelegationRepository = (*GormDelegationRepository)(nil)
