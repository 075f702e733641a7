package persistence

import (
	"context"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormActorRepository implements participant.ActorRepository using GORM.
// An actor's market role grid areas live in a child table that is rewritten
// on every save.
type GormActorRepository struct {
	db   *gorm.DB
	lock shared.EntityLock
}

// NewGormActorRepository creates a new GormActorRepository. Inserts are
// checked against lock.
func NewGormActorRepository(db *gorm.DB, lock shared.EntityLock) *GormActorRepository {
	return &GormActorRepository{db: db, lock: lock}
}

// FindByID finds an actor by its ID
func (r *GormActorRepository) FindByID(ctx context.Context, id uuid.UUID) (*participant.Actor, error) {
	var model models.ActorModel
	if err := r.query(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain()
}

// FindByOrganization finds the actors owned by an organization
func (r *GormActorRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*participant.Actor, error) {
	return r.find(r.query(ctx).Where("organization_id = ?", organizationID))
}

// FindByFunction finds every actor whose market role has the function
func (r *GormActorRepository) FindByFunction(ctx context.Context, function participant.EicFunction) ([]*participant.Actor, error) {
	return r.find(r.query(ctx).Where("market_role_function = ?", string(function)))
}

// FindAll finds every actor
func (r *GormActorRepository) FindAll(ctx context.Context) ([]*participant.Actor, error) {
	return r.find(r.query(ctx))
}

// AddOrUpdate implements participant.ActorRepository
func (r *GormActorRepository) AddOrUpdate(ctx context.Context, actor *participant.Actor) (uuid.UUID, error) {
	ensureID(&actor.ID)
	model := models.ActorModelFromDomain(actor)
	tx := Conn(ctx, r.db)

	found, err := exists(tx, &models.ActorModel{}, actor.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if found {
		err = updateAll(tx, model)
	} else {
		if err := r.lock.EnsureLocked(ctx, shared.LockableEntityActor); err != nil {
			return uuid.Nil, err
		}
		err = tx.Omit(clause.Associations).Create(model).Error
	}
	if err != nil {
		if isUniqueViolation(err, constraintActorThumbprint) {
			return uuid.Nil, participant.ErrCertificateThumbprintConflict
		}
		return uuid.Nil, err
	}

	if err := r.replaceGridAreas(tx, actor.ID, model.GridAreas); err != nil {
		return uuid.Nil, err
	}
	return actor.ID, nil
}

func (r *GormActorRepository) replaceGridAreas(tx *gorm.DB, actorID uuid.UUID, rows []models.ActorGridAreaModel) error {
	if err := tx.Where("actor_id = ?", actorID).Delete(&models.ActorGridAreaModel{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func (r *GormActorRepository) query(ctx context.Context) *gorm.DB {
	return Conn(ctx, r.db).Preload("GridAreas")
}

func (r *GormActorRepository) find(query *gorm.DB) ([]*participant.Actor, error) {
	var rows []models.ActorModel
	if err := query.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]*participant.Actor, 0, len(rows))
	for i := range rows {
		actor, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, actor)
	}
	return result, nil
}

var _ participant.ActorRepository = (*GormActorRepository)(nil)
