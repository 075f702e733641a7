package persistence

import (
	"context"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReservationRepository implements participant.MarketRoleGridAreaReservationRepository.
// The (function, grid area) primary key makes claims race free across processes.
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// Reserve implements participant.MarketRoleGridAreaReservationRepository
func (r *GormReservationRepository) Reserve(ctx context.Context, reservation participant.MarketRoleGridAreaReservation) (bool, error) {
	tx := Conn(ctx, r.db)
	model := models.ReservationModel{
		Function:   string(reservation.Function),
		GridAreaID: reservation.GridAreaID,
		ActorID:    reservation.ActorID,
	}

	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	var holder models.ReservationModel
	if err := tx.First(&holder, "function = ? AND grid_area_id = ?", model.Function, model.GridAreaID).Error; err != nil {
		return false, err
	}
	return holder.ActorID == reservation.ActorID, nil
}

// ReleaseAll drops every reservation held by the actor
func (r *GormReservationRepository) ReleaseAll(ctx context.Context, actorID uuid.UUID) error {
	return Conn(ctx, r.db).Where("actor_id = ?", actorID).Delete(&models.ReservationModel{}).Error
}

// FindByActor returns the reservations held by the actor
func (r *GormReservationRepository) FindByActor(ctx context.Context, actorID uuid.UUID) ([]participant.MarketRoleGridAreaReservation, error) {
	var rows []models.ReservationModel
	if err := Conn(ctx, r.db).Where("actor_id = ?", actorID).Order("function, grid_area_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]participant.MarketRoleGridAreaReservation, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result, nil
}

var _ participant.MarketRoleGridAreaReservationRepository = (*GormReservationRepository)(nil)
