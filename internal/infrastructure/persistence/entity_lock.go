package persistence

import (
	"context"
	"fmt"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
)

// GormEntityLock implements shared.EntityLock with transaction-scoped
// PostgreSQL advisory locks. The lock is released by the database when the
// unit of work's transaction ends, so it also serializes writers running in
// other processes.
type GormEntityLock struct{}

// NewGormEntityLock creates a new GormEntityLock
func NewGormEntityLock() *GormEntityLock {
	return &GormEntityLock{}
}

// Lock implements shared.EntityLock
func (l *GormEntityLock) Lock(ctx context.Context, entity shared.LockableEntity) error {
	uow, ok := shared.UnitOfWorkFromContext(ctx)
	if !ok {
		return shared.NewInvariantViolation("%s lock must be acquired inside a unit of work", entity)
	}
	if uow.IsLocked(entity) {
		return nil
	}
	g, ok := uow.(*gormUnitOfWork)
	if !ok {
		return shared.NewInvariantViolation("%s lock must be acquired inside a database unit of work", entity)
	}

	if err := g.tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", entity.LockKey()).Error; err != nil {
		return fmt.Errorf("acquire %s lock: %w", entity, err)
	}
	uow.MarkLocked(entity)
	return nil
}

// EnsureLocked implements shared.EntityLock
func (l *GormEntityLock) EnsureLocked(ctx context.Context, entity shared.LockableEntity) error {
	return shared.EnsureLockedInContext(ctx, entity)
}

var _ shared.EntityLock = (*GormEntityLock)(nil)
