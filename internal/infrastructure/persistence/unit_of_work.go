package persistence

import (
	"context"
	"fmt"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// GormUnitOfWorkProvider starts units of work backed by database transactions
type GormUnitOfWorkProvider struct {
	db *gorm.DB
}

// NewGormUnitOfWorkProvider creates a new GormUnitOfWorkProvider
func NewGormUnitOfWorkProvider(db *gorm.DB) *GormUnitOfWorkProvider {
	return &GormUnitOfWorkProvider{db: db}
}

// NewUnitOfWork begins a transaction, or joins the one already carried by ctx
func (p *GormUnitOfWorkProvider) NewUnitOfWork(ctx context.Context) (shared.UnitOfWork, error) {
	if outer, ok := shared.UnitOfWorkFromContext(ctx); ok {
		if g, isGorm := outer.(*gormUnitOfWork); !isGorm || !g.IsFinished() {
			return &joinedUnitOfWork{UnitOfWork: outer, ctx: ctx}, nil
		}
	}

	tx := p.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	uow := &gormUnitOfWork{tx: tx}
	uow.ctx = shared.ContextWithUnitOfWork(ctx, uow)
	return uow, nil
}

type gormUnitOfWork struct {
	shared.UnitOfWorkState
	ctx context.Context
	tx  *gorm.DB
}

func (u *gormUnitOfWork) Context() context.Context {
	return u.ctx
}

func (u *gormUnitOfWork) Commit() error {
	if u.IsFinished() {
		return shared.NewInvariantViolation("unit of work is already complete")
	}
	defer u.Finish()
	if err := u.tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close rolls back unless Commit already ran
func (u *gormUnitOfWork) Close() error {
	if u.IsFinished() {
		return nil
	}
	defer u.Finish()
	if err := u.tx.Rollback().Error; err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// joinedUnitOfWork participates in an outer unit of work; the outer one commits
type joinedUnitOfWork struct {
	shared.UnitOfWork
	ctx context.Context
}

func (j *joinedUnitOfWork) Context() context.Context { return j.ctx }
func (j *joinedUnitOfWork) Commit() error            { return nil }
func (j *joinedUnitOfWork) Close() error             { return nil }

// Conn returns the transaction of the unit of work carried by ctx, or db
// itself when there is none.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if uow, ok := shared.UnitOfWorkFromContext(ctx); ok {
		if g, ok := uow.(*gormUnitOfWork); ok {
			return g.tx.WithContext(ctx)
		}
	}
	return db.WithContext(ctx)
}
