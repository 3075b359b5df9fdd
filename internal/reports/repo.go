// Package reports stores the write-once records technicians file when a job
// completes.
package reports

import (
	"context"

	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportFilters narrows report listings.
type ReportFilters struct {
	PoolID           *uuid.UUID
	PoolIDs          []uuid.UUID
	ServiceRequestID *uuid.UUID
	TechnicianEmail  *string
}

// Repository exposes the service report persistence surface. Reports are
// immutable, so there is no update.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateReport(ctx context.Context, report *models.ServiceReport) (*models.ServiceReport, error)
	FindReportByID(ctx context.Context, id uuid.UUID) (*models.ServiceReport, error)
	ListReports(ctx context.Context, params listing.Params, filters ReportFilters) ([]models.ServiceReport, error)
}

var reportOrderColumns = []string{"created_date", "time_completed"}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a report repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateReport(ctx context.Context, report *models.ServiceReport) (*models.ServiceReport, error) {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (r *repository) FindReportByID(ctx context.Context, id uuid.UUID) (*models.ServiceReport, error) {
	var report models.ServiceReport
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *repository) ListReports(ctx context.Context, params listing.Params, filters ReportFilters) ([]models.ServiceReport, error) {
	params = params.Normalize()
	order, err := params.OrderClause(reportOrderColumns)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.ServiceReport{}).Order(order)
	if filters.PoolID != nil {
		query = query.Where("pool_id = ?", *filters.PoolID)
	}
	if len(filters.PoolIDs) > 0 {
		query = query.Where("pool_id IN ?", filters.PoolIDs)
	}
	if filters.ServiceRequestID != nil {
		query = query.Where("service_request_id = ?", *filters.ServiceRequestID)
	}
	if filters.TechnicianEmail != nil {
		query = query.Where("technician_email = ?", *filters.TechnicianEmail)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}

	var reports []models.ServiceReport
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
