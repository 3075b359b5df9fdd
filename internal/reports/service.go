package reports

import (
	"context"
	"fmt"

	"github.com/absolutepools/aquatrack-backend/internal/pools"
	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/absolutepools/aquatrack-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines read access to filed reports.
type Service interface {
	List(ctx context.Context, actor types.Actor, params listing.Params, filters ReportFilters) ([]models.ServiceReport, error)
	Get(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.ServiceReport, error)
}

type service struct {
	repo  Repository
	pools pools.Repository
}

// NewService builds the report read service.
func NewService(repo Repository, poolsRepo pools.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if poolsRepo == nil {
		return nil, fmt.Errorf("pools repository required")
	}
	return &service{repo: repo, pools: poolsRepo}, nil
}

// List scopes technicians to the reports they filed and owners to reports
// about their own pools.
func (s *service) List(ctx context.Context, actor types.Actor, params listing.Params, filters ReportFilters) ([]models.ServiceReport, error) {
	switch actor.Role {
	case enums.UserRoleTechnician:
		email := actor.Email
		filters.TechnicianEmail = &email
	case enums.UserRolePoolOwner:
		ids, err := s.ownerPoolIDs(ctx, actor.Email)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []models.ServiceReport{}, nil
		}
		filters.PoolIDs = ids
	}

	items, err := s.repo.ListReports(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list service reports")
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.ServiceReport, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report id required")
	}
	report, err := s.repo.FindReportByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service report not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service report")
	}

	switch actor.Role {
	case enums.UserRoleAdmin:
		return report, nil
	case enums.UserRoleTechnician:
		if report.TechnicianEmail == actor.Email {
			return report, nil
		}
	case enums.UserRolePoolOwner:
		ids, err := s.ownerPoolIDs(ctx, actor.Email)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if id == report.PoolID {
				return report, nil
			}
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeForbidden, "report belongs to another user")
}

func (s *service) ownerPoolIDs(ctx context.Context, email string) ([]uuid.UUID, error) {
	owned, err := s.pools.ListPools(ctx, listing.Params{}, pools.PoolFilters{OwnerEmail: &email})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owner pools")
	}
	ids := make([]uuid.UUID, 0, len(owned))
	for _, pool := range owned {
		ids = append(ids, pool.ID)
	}
	return ids, nil
}
