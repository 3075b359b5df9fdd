package requests

import (
	"context"

	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestFilters narrows service request listings.
type RequestFilters struct {
	PoolID             *uuid.UUID
	ClientEmail        *string
	AssignedTechnician *string
	Status             *enums.RequestStatus
	Priority           *enums.RequestPriority
}

// Repository exposes the service request persistence surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRequest(ctx context.Context, request *models.ServiceRequest) (*models.ServiceRequest, error)
	FindRequestByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error)
	ListRequests(ctx context.Context, params listing.Params, filters RequestFilters) ([]models.ServiceRequest, error)
	UpdateRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteRequest(ctx context.Context, id uuid.UUID) error
}
