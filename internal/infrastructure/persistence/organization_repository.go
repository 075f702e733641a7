package persistence

import (
	"context"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements participant.OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization by its ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*participant.Organization, error) {
	var model models.OrganizationModel
	if err := Conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByActorNumber finds the organizations owning a non-inactive actor with the number
func (r *GormOrganizationRepository) FindByActorNumber(ctx context.Context, number participant.ActorNumber) ([]*participant.Organization, error) {
	var rows []models.OrganizationModel
	owners := Conn(ctx, r.db).Model(&models.ActorModel{}).
		Select("organization_id").
		Where("actor_number = ? AND status <> ?", number.Value, string(participant.ActorStatusInactive))
	if err := Conn(ctx, r.db).Where("id IN (?)", owners).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return organizationsToDomain(rows), nil
}

// FindByBusinessRegisterIdentifier finds active organizations with the identifier
func (r *GormOrganizationRepository) FindByBusinessRegisterIdentifier(ctx context.Context, bri participant.BusinessRegisterIdentifier) ([]*participant.Organization, error) {
	var rows []models.OrganizationModel
	if err := Conn(ctx, r.db).
		Where("business_register_identifier = ? AND status = ?", string(bri), string(participant.OrganizationStatusActive)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return organizationsToDomain(rows), nil
}

// FindAll finds every organization ordered by name
func (r *GormOrganizationRepository) FindAll(ctx context.Context) ([]*participant.Organization, error) {
	var rows []models.OrganizationModel
	if err := Conn(ctx, r.db).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return organizationsToDomain(rows), nil
}

// AddOrUpdate inserts or updates the organization and returns its ID
func (r *GormOrganizationRepository) AddOrUpdate(ctx context.Context, org *participant.Organization) (uuid.UUID, error) {
	ensureID(&org.ID)
	model := models.OrganizationModelFromDomain(org)
	tx := Conn(ctx, r.db)

	found, err := exists(tx, &models.OrganizationModel{}, org.ID)
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
	return org.ID, nil
}

func organizationsToDomain(rows []models.OrganizationModel) []*participant.Organization {
	result := make([]*participant.Organization, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result
}

var _ participant.OrganizationRepository = (*GormOrganizationRepository)(nil)
