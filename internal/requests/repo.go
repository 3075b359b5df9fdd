package requests

import (
	"context"

	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var requestOrderColumns = []string{"created_date", "updated_date", "scheduled_date", "completion_date", "priority", "status"}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a service request repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRequest(ctx context.Context, request *models.ServiceRequest) (*models.ServiceRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) FindRequestByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) ListRequests(ctx context.Context, params listing.Params, filters RequestFilters) ([]models.ServiceRequest, error) {
	params = params.Normalize()
	order, err := params.OrderClause(requestOrderColumns)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.ServiceRequest{}).Order(order)
	if filters.PoolID != nil {
		query = query.Where("pool_id = ?", *filters.PoolID)
	}
	if filters.ClientEmail != nil {
		query = query.Where("client_email = ?", *filters.ClientEmail)
	}
	if filters.AssignedTechnician != nil {
		query = query.Where("assigned_technician = ?", *filters.AssignedTechnician)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}

	var requests []models.ServiceRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) UpdateRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ServiceRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.ServiceRequest{}).Error
}
