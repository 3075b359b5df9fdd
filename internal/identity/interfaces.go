package identity

import (
	"context"

	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserFilters narrows user listings.
type UserFilters struct {
	Role   *enums.UserRole
	Status *enums.TechnicianStatus
}

// Repository exposes the user persistence surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, params listing.Params, filters UserFilters) ([]models.User, error)
	FirstAdmin(ctx context.Context) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
