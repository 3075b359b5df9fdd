package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/absolutepools/aquatrack-backend/internal/pools"
	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/absolutepools/aquatrack-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubReportsRepo struct {
	reports map[uuid.UUID]*models.ServiceReport
}

func newStubReportsRepo() *stubReportsRepo {
	return &stubReportsRepo{reports: map[uuid.UUID]*models.ServiceReport{}}
}

func (s *stubReportsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubReportsRepo) CreateReport(ctx context.Context, report *models.ServiceReport) (*models.ServiceReport, error) {
	s.reports[report.ID] = report
	return report, nil
}

func (s *stubReportsRepo) FindReportByID(ctx context.Context, id uuid.UUID) (*models.ServiceReport, error) {
	report, ok := s.reports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return report, nil
}

func (s *stubReportsRepo) ListReports(ctx context.Context, params listing.Params, filters ReportFilters) ([]models.ServiceReport, error) {
	var out []models.ServiceReport
	for _, report := range s.reports {
		if filters.TechnicianEmail != nil && report.TechnicianEmail != *filters.TechnicianEmail {
			continue
		}
		if len(filters.PoolIDs) > 0 {
			matched := false
			for _, id := range filters.PoolIDs {
				if id == report.PoolID {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, *report)
	}
	return out, nil
}

type stubPoolsRepo struct {
	pools map[uuid.UUID]*models.Pool
}

func newStubPoolsRepo() *stubPoolsRepo {
	return &stubPoolsRepo{pools: map[uuid.UUID]*models.Pool{}}
}

func (s *stubPoolsRepo) WithTx(tx *gorm.DB) pools.Repository { return s }

func (s *stubPoolsRepo) CreatePool(ctx context.Context, pool *models.Pool) (*models.Pool, error) {
	s.pools[pool.ID] = pool
	return pool, nil
}

func (s *stubPoolsRepo) FindPoolByID(ctx context.Context, id uuid.UUID) (*models.Pool, error) {
	pool, ok := s.pools[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return pool, nil
}

func (s *stubPoolsRepo) ListPools(ctx context.Context, params listing.Params, filters pools.PoolFilters) ([]models.Pool, error) {
	var out []models.Pool
	for _, pool := range s.pools {
		if filters.OwnerEmail != nil && pool.OwnerEmail != *filters.OwnerEmail {
			continue
		}
		out = append(out, *pool)
	}
	return out, nil
}

func (s *stubPoolsRepo) UpdatePool(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubPoolsRepo) seedPool(owner string) *models.Pool {
	pool := &models.Pool{
		ID:         uuid.New(),
		OwnerEmail: owner,
		Address:    "9 Marina Way",
		Status:     enums.PoolStatusGood,
	}
	s.pools[pool.ID] = pool
	return pool
}

func (s *stubReportsRepo) seedReport(poolID uuid.UUID, technician string) *models.ServiceReport {
	report := &models.ServiceReport{
		ID:               uuid.New(),
		ServiceRequestID: uuid.New(),
		PoolID:           poolID,
		TechnicianEmail:  technician,
		WorkPerformed:    "Filter change",
		TimeCompleted:    time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC),
	}
	s.reports[report.ID] = report
	return report
}

func newReportsFixture(t *testing.T) (Service, *stubReportsRepo, *stubPoolsRepo) {
	t.Helper()
	repo := newStubReportsRepo()
	poolsRepo := newStubPoolsRepo()
	svc, err := NewService(repo, poolsRepo)
	require.NoError(t, err)
	return svc, repo, poolsRepo
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	var domainErr *pkgerrors.Error
	require.True(t, errors.As(err, &domainErr), "expected typed error, got %v", err)
	assert.Equal(t, code, domainErr.Code())
}

func TestListScopesTechnicianToOwnReports(t *testing.T) {
	svc, repo, poolsRepo := newReportsFixture(t)
	pool := poolsRepo.seedPool("owner@example.com")
	repo.seedReport(pool.ID, "tech-a@absolutepools.com")
	repo.seedReport(pool.ID, "tech-b@absolutepools.com")

	tech := types.Actor{Email: "tech-a@absolutepools.com", Role: enums.UserRoleTechnician}
	got, err := svc.List(context.Background(), tech, listing.Params{}, ReportFilters{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tech-a@absolutepools.com", got[0].TechnicianEmail)
}

func TestListScopesOwnerToOwnPools(t *testing.T) {
	svc, repo, poolsRepo := newReportsFixture(t)
	mine := poolsRepo.seedPool("owner@example.com")
	other := poolsRepo.seedPool("neighbor@example.com")
	repo.seedReport(mine.ID, "tech@absolutepools.com")
	repo.seedReport(other.ID, "tech@absolutepools.com")

	owner := types.Actor{Email: "owner@example.com", Role: enums.UserRolePoolOwner}
	got, err := svc.List(context.Background(), owner, listing.Params{}, ReportFilters{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].PoolID)
}

func TestListOwnerWithoutPoolsReturnsEmpty(t *testing.T) {
	svc, repo, poolsRepo := newReportsFixture(t)
	stranger := poolsRepo.seedPool("neighbor@example.com")
	repo.seedReport(stranger.ID, "tech@absolutepools.com")

	owner := types.Actor{Email: "owner@example.com", Role: enums.UserRolePoolOwner}
	got, err := svc.List(context.Background(), owner, listing.Params{}, ReportFilters{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetForbidsForeignReport(t *testing.T) {
	svc, repo, poolsRepo := newReportsFixture(t)
	pool := poolsRepo.seedPool("neighbor@example.com")
	report := repo.seedReport(pool.ID, "tech-b@absolutepools.com")

	owner := types.Actor{Email: "owner@example.com", Role: enums.UserRolePoolOwner}
	_, err := svc.Get(context.Background(), owner, report.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)

	tech := types.Actor{Email: "tech-a@absolutepools.com", Role: enums.UserRoleTechnician}
	_, err = svc.Get(context.Background(), tech, report.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestGetAdminSeesEverything(t *testing.T) {
	svc, repo, poolsRepo := newReportsFixture(t)
	pool := poolsRepo.seedPool("owner@example.com")
	report := repo.seedReport(pool.ID, "tech@absolutepools.com")

	admin := types.Actor{Email: "admin@absolutepools.com", Role: enums.UserRoleAdmin}
	got, err := svc.Get(context.Background(), admin, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
}

func TestGetUnknownReportNotFound(t *testing.T) {
	svc, _, _ := newReportsFixture(t)

	admin := types.Actor{Email: "admin@absolutepools.com", Role: enums.UserRoleAdmin}
	_, err := svc.Get(context.Background(), admin, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}
