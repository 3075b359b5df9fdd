// Package stats derives dashboard counts from the live tables. Read-only.
package stats

import (
	"context"

	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"gorm.io/gorm"
)

// StatusCount is one bucket of a grouped count query.
type StatusCount struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

// Repository exposes the grouped count queries behind the overview.
type Repository interface {
	PoolCountsByStatus(ctx context.Context) ([]StatusCount, error)
	RequestCountsByStatus(ctx context.Context) ([]StatusCount, error)
	TechnicianCountsByStatus(ctx context.Context) ([]StatusCount, error)
	ReportCount(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stats repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) PoolCountsByStatus(ctx context.Context) ([]StatusCount, error) {
	return r.groupedCounts(ctx, &models.Pool{}, "status")
}

func (r *repository) RequestCountsByStatus(ctx context.Context) ([]StatusCount, error) {
	return r.groupedCounts(ctx, &models.ServiceRequest{}, "status")
}

func (r *repository) TechnicianCountsByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("status, COUNT(*) AS count").
		Where("role = ?", "technician").
		Where("status IS NOT NULL").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *repository) ReportCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ServiceReport{}).Count(&count).Error
	return count, err
}

func (r *repository) groupedCounts(ctx context.Context, model any, column string) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).
		Model(model).
		Select(column + " AS status, COUNT(*) AS count").
		Group(column).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
