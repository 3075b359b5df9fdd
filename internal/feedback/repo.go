// Package feedback records client ratings of technician visits, one per
// service request.
package feedback

import (
	"context"

	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackFilters narrows feedback listings.
type FeedbackFilters struct {
	ClientEmail     *string
	TechnicianEmail *string
}

// Repository exposes the feedback persistence surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateFeedback(ctx context.Context, feedback *models.TechnicianFeedback) (*models.TechnicianFeedback, error)
	ListFeedback(ctx context.Context, params listing.Params, filters FeedbackFilters) ([]models.TechnicianFeedback, error)
	RatedRequestIDs(ctx context.Context, clientEmail string) ([]uuid.UUID, error)
}

var feedbackOrderColumns = []string{"created_date", "rating"}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a feedback repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateFeedback(ctx context.Context, feedback *models.TechnicianFeedback) (*models.TechnicianFeedback, error) {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

func (r *repository) ListFeedback(ctx context.Context, params listing.Params, filters FeedbackFilters) ([]models.TechnicianFeedback, error) {
	params = params.Normalize()
	order, err := params.OrderClause(feedbackOrderColumns)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.TechnicianFeedback{}).Order(order)
	if filters.ClientEmail != nil {
		query = query.Where("client_email = ?", *filters.ClientEmail)
	}
	if filters.TechnicianEmail != nil {
		query = query.Where("technician_email = ?", *filters.TechnicianEmail)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}

	var items []models.TechnicianFeedback
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// RatedRequestIDs returns the request ids the client has already rated.
func (r *repository) RatedRequestIDs(ctx context.Context, clientEmail string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.TechnicianFeedback{}).
		Where("client_email = ?", clientEmail).
		Pluck("service_request_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
