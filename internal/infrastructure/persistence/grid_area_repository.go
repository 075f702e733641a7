package persistence

import (
	"context"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGridAreaRepository implements participant.GridAreaRepository using GORM
type GormGridAreaRepository struct {
	db *gorm.DB
}

// NewGormGridAreaRepository creates a new GormGridAreaRepository
func NewGormGridAreaRepository(db *gorm.DB) *GormGridAreaRepository {
	return &GormGridAreaRepository{db: db}
}

// FindAll finds every grid area ordered by code
func (r *GormGridAreaRepository) FindAll(ctx context.Context) ([]*participant.GridArea, error) {
	var rows []models.GridAreaModel
	if err := Conn(ctx, r.db).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]*participant.GridArea, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result, nil
}

// FindByID finds a grid area by its ID
func (r *GormGridAreaRepository) FindByID(ctx context.Context, id uuid.UUID) (*participant.GridArea, error) {
	var model models.GridAreaModel
	if err := Conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a grid area by its code
func (r *GormGridAreaRepository) FindByCode(ctx context.Context, code string) (*participant.GridArea, error) {
	var model models.GridAreaModel
	if err := Conn(ctx, r.db).First(&model, "code = ?", code).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// AddOrUpdate inserts or updates the grid area and returns its ID
func (r *GormGridAreaRepository) AddOrUpdate(ctx context.Context, gridArea *participant.GridArea) (uuid.UUID, error) {
	ensureID(&gridArea.ID)
	model := models.GridAreaModelFromDomain(gridArea)
	tx := Conn(ctx, r.db)

	found, err := exists(tx, &models.GridAreaModel{}, gridArea.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if found {
		err = updateAll(tx, model)
	} else {
		err = tx.Create(model).Error
	}
	if err != nil {
		if isUniqueViolation(err, constraintGridAreaCode) {
			return uuid.Nil, participant.ErrGridAreaCodeTaken
		}
		return uuid.Nil, err
	}
	return gridArea.ID, nil
}

var _ participant.GridAreaRepository = (*GormGridAreaRepository)(nil)
