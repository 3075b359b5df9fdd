package pools

import (
	"context"

	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PoolFilters narrows pool listings.
type PoolFilters struct {
	OwnerEmail         *string
	Status             *enums.PoolStatus
	ConstructionStatus *enums.ConstructionStatus
}

// Repository exposes the pool persistence surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePool(ctx context.Context, pool *models.Pool) (*models.Pool, error)
	FindPoolByID(ctx context.Context, id uuid.UUID) (*models.Pool, error)
	ListPools(ctx context.Context, params listing.Params, filters PoolFilters) ([]models.Pool, error)
	UpdatePool(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
