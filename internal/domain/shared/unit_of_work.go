package shared

import (
	"context"
	"sync"
)

// UnitOfWork is a transactional scope. Everything written through repositories
// while the unit's context is in use commits or rolls back together.
// Close without a prior Commit rolls back.
type UnitOfWork interface {
	// Context returns a context that carries this unit of work
	Context() context.Context
	Commit() error
	Close() error

	// MarkLocked records that the entity lock is held for the rest of this unit of work
	MarkLocked(entity LockableEntity)
	IsLocked(entity LockableEntity) bool
	// OnComplete registers a callback run once the unit of work ends, whether committed or not
	OnComplete(fn func())
}

// UnitOfWorkProvider starts units of work. When ctx already carries a unit of
// work the returned one joins it: its Commit is a no-op and the outer unit decides.
type UnitOfWorkProvider interface {
	NewUnitOfWork(ctx context.Context) (UnitOfWork, error)
}

type unitOfWorkKey struct{}

// ContextWithUnitOfWork returns a copy of ctx carrying uow
func ContextWithUnitOfWork(ctx context.Context, uow UnitOfWork) context.Context {
	return context.WithValue(ctx, unitOfWorkKey{}, uow)
}

// UnitOfWorkFromContext returns the unit of work carried by ctx, if any
func UnitOfWorkFromContext(ctx context.Context) (UnitOfWork, bool) {
	uow, ok := ctx.Value(unitOfWorkKey{}).(UnitOfWork)
	return uow, ok && uow != nil
}

// UnitOfWorkState tracks held locks and completion hooks. Implementations of
// UnitOfWork embed it.
type UnitOfWorkState struct {
	mu       sync.Mutex
	locked   map[LockableEntity]struct{}
	hooks    []func()
	finished bool
}

// MarkLocked implements UnitOfWork
func (s *UnitOfWorkState) MarkLocked(entity LockableEntity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked == nil {
		s.locked = make(map[LockableEntity]struct{})
	}
	s.locked[entity] = struct{}{}
}

// IsLocked implements UnitOfWork
func (s *UnitOfWorkState) IsLocked(entity LockableEntity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.locked[entity]
	return ok
}

// OnComplete implements UnitOfWork
func (s *UnitOfWorkState) OnComplete(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Finish runs completion hooks in reverse registration order. Only the first call has effect.
func (s *UnitOfWorkState) Finish() {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	hooks := s.hooks
	s.hooks = nil
	s.locked = nil
	s.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// IsFinished reports whether Finish has been called
func (s *UnitOfWorkState) IsFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}
