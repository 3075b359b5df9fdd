package pools

import (
	"context"
	"fmt"
	"strings"

	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/absolutepools/aquatrack-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreatePoolInput captures the fields accepted when registering a pool. Pool
// owners order new construction with the same call, so the construction
// attributes are optional extras.
type CreatePoolInput struct {
	OwnerEmail       string
	Address          string
	PoolType         *string
	Size             *string
	ServiceFrequency *string
	Shape            *string
	Color            *string
	Depth            *string
	SanitizationTech *string
	Notes            *string
}

// UpdatePoolInput captures the mutable pool fields. Nil fields are untouched.
type UpdatePoolInput struct {
	Address          *string
	PoolType         *string
	Size             *string
	ServiceFrequency *string
	Status           *enums.PoolStatus
	PHLevel          *float64
	ChlorineLevel    *float64
	WaterTemperature *float64
	Shape            *string
	Color            *string
	Depth            *string
	SanitizationTech *string
	Notes            *string
}

// Service defines the pool operations.
type Service interface {
	List(ctx context.Context, actor types.Actor, params listing.Params, filters PoolFilters) ([]models.Pool, error)
	Get(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.Pool, error)
	Create(ctx context.Context, actor types.Actor, input CreatePoolInput) (*models.Pool, error)
	Update(ctx context.Context, actor types.Actor, id uuid.UUID, input UpdatePoolInput) (*models.Pool, error)
	SetConstructionStatus(ctx context.Context, actor types.Actor, id uuid.UUID, status enums.ConstructionStatus) (*models.Pool, error)
	SetEstimatedPrice(ctx context.Context, actor types.Actor, id uuid.UUID, price decimal.Decimal) (*models.Pool, error)
}

type service struct {
	repo Repository
}

// NewService builds the pool service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pools repository required")
	}
	return &service{repo: repo}, nil
}

// List scopes pool owners down to their own pools. Admins and technicians see
// everything.
func (s *service) List(ctx context.Context, actor types.Actor, params listing.Params, filters PoolFilters) ([]models.Pool, error) {
	if actor.Role == enums.UserRolePoolOwner {
		email := actor.Email
		filters.OwnerEmail = &email
	}
	pools, err := s.repo.ListPools(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pools")
	}
	return pools, nil
}

func (s *service) Get(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.Pool, error) {
	pool, err := s.loadPool(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == enums.UserRolePoolOwner && pool.OwnerEmail != actor.Email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "pool belongs to another owner")
	}
	return pool, nil
}

func (s *service) Create(ctx context.Context, actor types.Actor, input CreatePoolInput) (*models.Pool, error) {
	ownerEmail := strings.ToLower(strings.TrimSpace(input.OwnerEmail))
	switch actor.Role {
	case enums.UserRoleAdmin:
		if ownerEmail == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner email required")
		}
	case enums.UserRolePoolOwner:
		// Owners always create pools for themselves.
		ownerEmail = actor.Email
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "technicians cannot register pools")
	}

	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address required")
	}

	pool := &models.Pool{
		ID:                 uuid.New(),
		OwnerEmail:         ownerEmail,
		Address:            address,
		PoolType:           input.PoolType,
		Size:               input.Size,
		ServiceFrequency:   input.ServiceFrequency,
		Status:             enums.PoolStatusGood,
		ConstructionStatus: enums.ConstructionStatusPlanning,
		Shape:              input.Shape,
		Color:              input.Color,
		Depth:              input.Depth,
		SanitizationTech:   input.SanitizationTech,
		Notes:              input.Notes,
	}

	created, err := s.repo.CreatePool(ctx, pool)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pool")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, actor types.Actor, id uuid.UUID, input UpdatePoolInput) (*models.Pool, error) {
	pool, err := s.loadPool(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		if actor.Role != enums.UserRolePoolOwner || pool.OwnerEmail != actor.Email {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot update this pool")
		}
		if input.Status != nil || input.PHLevel != nil || input.ChlorineLevel != nil || input.WaterTemperature != nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "owners cannot change readings or status")
		}
	}

	updates := map[string]any{}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if address == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address cannot be empty")
		}
		updates["address"] = address
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pool status")
		}
		updates["status"] = *input.Status
	}
	setIfPresent(updates, "pool_type", input.PoolType)
	setIfPresent(updates, "size", input.Size)
	setIfPresent(updates, "service_frequency", input.ServiceFrequency)
	setIfPresentFloat(updates, "ph_level", input.PHLevel)
	setIfPresentFloat(updates, "chlorine_level", input.ChlorineLevel)
	setIfPresentFloat(updates, "water_temperature", input.WaterTemperature)
	setIfPresent(updates, "shape", input.Shape)
	setIfPresent(updates, "color", input.Color)
	setIfPresent(updates, "depth", input.Depth)
	setIfPresent(updates, "sanitization_tech", input.SanitizationTech)
	setIfPresent(updates, "notes", input.Notes)

	if len(updates) == 0 {
		return pool, nil
	}
	return s.applyUpdates(ctx, id, updates)
}

// SetConstructionStatus moves the build pipeline marker. Any status can jump
// to any other so the office can correct mistakes.
func (s *service) SetConstructionStatus(ctx context.Context, actor types.Actor, id uuid.UUID, status enums.ConstructionStatus) (*models.Pool, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can change construction status")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid construction status")
	}
	if _, err := s.loadPool(ctx, id); err != nil {
		return nil, err
	}
	return s.applyUpdates(ctx, id, map[string]any{"construction_status": status})
}

func (s *service) SetEstimatedPrice(ctx context.Context, actor types.Actor, id uuid.UUID, price decimal.Decimal) (*models.Pool, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can set the estimated price")
	}
	if price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated price cannot be negative")
	}
	if _, err := s.loadPool(ctx, id); err != nil {
		return nil, err
	}
	return s.applyUpdates(ctx, id, map[string]any{"estimated_price": price})
}

func (s *service) loadPool(ctx context.Context, id uuid.UUID) (*models.Pool, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pool id required")
	}
	pool, err := s.repo.FindPoolByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pool not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pool")
	}
	return pool, nil
}

func (s *service) applyUpdates(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Pool, error) {
	if err := s.repo.UpdatePool(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pool")
	}
	pool, err := s.repo.FindPoolByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload pool")
	}
	return pool, nil
}

func setIfPresent(updates map[string]any, column string, value *string) {
	if value != nil {
		updates[column] = *value
	}
}

func setIfPresentFloat(updates map[string]any, column string, value *float64) {
	if value != nil {
		updates[column] = *value
	}
}
