package lock

import (
	"context"
	"sync"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
)

// InProcessEntityLock serializes units of work within a single process.
// Each lockable entity class is a one-slot semaphore held until the owning
// unit of work completes. Use GormEntityLock when several processes share
// the database.
type InProcessEntityLock struct {
	mu    sync.Mutex
	slots map[shared.LockableEntity]chan struct{}
}

// NewInProcessEntityLock creates a new InProcessEntityLock
func NewInProcessEntityLock() *InProcessEntityLock {
	return &InProcessEntityLock{
		slots: make(map[shared.LockableEntity]chan struct{}),
	}
}

// Lock implements shared.EntityLock
func (l *InProcessEntityLock) Lock(ctx context.Context, entity shared.LockableEntity) error {
	uow, ok := shared.UnitOfWorkFromContext(ctx)
	if !ok {
		return shared.NewInvariantViolation("%s lock must be acquired inside a unit of work", entity)
	}
	if uow.IsLocked(entity) {
		return nil
	}

	slot := l.slot(entity)
	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	uow.MarkLocked(entity)
	uow.OnComplete(func() { <-slot })
	return nil
}

// EnsureLocked implements shared.EntityLock
func (l *InProcessEntityLock) EnsureLocked(ctx context.Context, entity shared.LockableEntity) error {
	return shared.EnsureLockedInContext(ctx, entity)
}

func (l *InProcessEntityLock) slot(entity shared.LockableEntity) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[entity]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[entity] = slot
	}
	return slot
}
