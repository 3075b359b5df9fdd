package pools

import (
	"context"

	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var poolOrderColumns = []string{"created_date", "updated_date", "address", "status", "construction_status", "last_service_date"}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pool repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePool(ctx context.Context, pool *models.Pool) (*models.Pool, error) {
	if err := r.db.WithContext(ctx).Create(pool).Error; err != nil {
		return nil, err
	}
	return pool, nil
}

func (r *repository) FindPoolByID(ctx context.Context, id uuid.UUID) (*models.Pool, error) {
	var pool models.Pool
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&pool).Error
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

func (r *repository) ListPools(ctx context.Context, params listing.Params, filters PoolFilters) ([]models.Pool, error) {
	params = params.Normalize()
	order, err := params.OrderClause(poolOrderColumns)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Pool{}).Order(order)
	if filters.OwnerEmail != nil {
		query = query.Where("owner_email = ?", *filters.OwnerEmail)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ConstructionStatus != nil {
		query = query.Where("construction_status = ?", *filters.ConstructionStatus)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}

	var pools []models.Pool
	if err := query.Find(&pools).Error; err != nil {
		return nil, err
	}
	return pools, nil
}

func (r *repository) UpdatePool(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Pool{}).
		Where("id = ?", id).
		Updates(updates).Error
}
