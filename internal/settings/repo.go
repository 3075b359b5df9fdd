// Package settings reads and writes the app_settings key/value rows that hold
// cross-cutting application state.
package settings

import (
	"context"

	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes the settings persistence surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Get returns the stored value, or gorm.ErrRecordNotFound when the key is absent.
func (r *repository) Get(ctx context.Context, key string) (string, error) {
	var setting models.AppSetting
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&setting).Error
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// Set inserts or overwrites the value for key.
func (r *repository) Set(ctx context.Context, key, value string) error {
	setting := models.AppSetting{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_date"}),
		}).
		Create(&setting).Error
}
