package shared

import (
	"context"
	"fmt"
)

// LockableEntity names a class of entities that writers serialize on.
// Holding the lock for a class excludes every other holder of the same class
// until the holder's unit of work ends.
type LockableEntity int

const (
	LockableEntityActor LockableEntity = iota + 1
	LockableEntityUser
)

// advisory lock keys are persisted knowledge shared by every process using the
// same database; never renumber them.
var lockKeys = map[LockableEntity]int64{
	LockableEntityActor: 0x4143_5452, // "ACTR"
	LockableEntityUser:  0x5553_4552, // "USER"
}

// LockKey returns the stable key identifying the lock across processes
func (e LockableEntity) LockKey() int64 {
	return lockKeys[e]
}

func (e LockableEntity) String() string {
	switch e {
	case LockableEntityActor:
		return "Actor"
	case LockableEntityUser:
		return "User"
	default:
		return fmt.Sprintf("LockableEntity(%d)", int(e))
	}
}

// EntityLock serializes writers of a lockable entity class within units of work
type EntityLock interface {
	// Lock blocks until the lock is held by the unit of work carried by ctx.
	// Re-locking within the same unit of work returns immediately.
	Lock(ctx context.Context, entity LockableEntity) error
	// EnsureLocked fails with an *InvariantViolation when the current unit of
	// work does not hold the lock.
	EnsureLocked(ctx context.Context, entity LockableEntity) error
}

// NewLockRequiredViolation builds the invariant violation raised when a guarded write runs without the lock
func NewLockRequiredViolation(entity LockableEntity) *InvariantViolation {
	return NewInvariantViolation("%s lock is required.", entity)
}

// EnsureLockedInContext checks the lock bookkeeping of the unit of work in ctx
func EnsureLockedInContext(ctx context.Context, entity LockableEntity) error {
	uow, ok := UnitOfWorkFromContext(ctx)
	if !ok || !uow.IsLocked(entity) {
		return NewLockRequiredViolation(entity)
	}
	return nil
}
