package persistence

import (
	"errors"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// exists reports whether a row with the id is present in model's table
func exists(tx *gorm.DB, model any, id uuid.UUID) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// updateAll writes every column of model, zero values included, leaving
// associations and the creation timestamp untouched.
func updateAll(tx *gorm.DB, model any) error {
	return tx.Model(model).Select("*").Omit("created_at", clause.Associations).Updates(model).Error
}

// notFound maps gorm's missing-row error onto shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// ensureID assigns a fresh identifier to entities created without one
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
