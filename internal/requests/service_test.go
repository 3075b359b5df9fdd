package requests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/absolutepools/aquatrack-backend/internal/pools"
	"github.com/absolutepools/aquatrack-backend/internal/reports"
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

type stubRequestRepo struct {
	requests map[uuid.UUID]*models.ServiceRequest
	deleted  []uuid.UUID
	filters  RequestFilters
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: map[uuid.UUID]*models.ServiceRequest{}}
}

func (s *stubRequestRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRequestRepo) CreateRequest(ctx context.Context, request *models.ServiceRequest) (*models.ServiceRequest, error) {
	request.CreatedDate = time.Now()
	request.UpdatedDate = request.CreatedDate
	s.requests[request.ID] = request
	return request, nil
}

func (s *stubRequestRepo) FindRequestByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	return &copied, nil
}

func (s *stubRequestRepo) ListRequests(ctx context.Context, params listing.Params, filters RequestFilters) ([]models.ServiceRequest, error) {
	s.filters = filters
	var out []models.ServiceRequest
	for _, request := range s.requests {
		if filters.ClientEmail != nil && request.ClientEmail != *filters.ClientEmail {
			continue
		}
		if filters.AssignedTechnician != nil && (request.AssignedTechnician == nil || *request.AssignedTechnician != *filters.AssignedTechnician) {
			continue
		}
		out = append(out, *request)
	}
	return out, nil
}

func (s *stubRequestRepo) UpdateRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	request, ok := s.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.RequestStatus); ok {
		request.Status = status
	}
	if tech, ok := updates["assigned_technician"].(string); ok {
		request.AssignedTechnician = &tech
	}
	if scheduled, ok := updates["scheduled_date"].(time.Time); ok {
		request.ScheduledDate = &scheduled
	}
	if completion, ok := updates["completion_date"].(time.Time); ok {
		request.CompletionDate = &completion
	}
	request.UpdatedDate = time.Now()
	return nil
}

func (s *stubRequestRepo) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	delete(s.requests, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubPoolRepo struct {
	pools   map[uuid.UUID]*models.Pool
	updates map[string]any
}

func newStubPoolRepo() *stubPoolRepo {
	return &stubPoolRepo{pools: map[uuid.UUID]*models.Pool{}}
}

func (s *stubPoolRepo) WithTx(tx *gorm.DB) pools.Repository { return s }

func (s *stubPoolRepo) CreatePool(ctx context.Context, pool *models.Pool) (*models.Pool, error) {
	s.pools[pool.ID] = pool
	return pool, nil
}

func (s *stubPoolRepo) FindPoolByID(ctx context.Context, id uuid.UUID) (*models.Pool, error) {
	pool, ok := s.pools[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return pool, nil
}

func (s *stubPoolRepo) ListPools(ctx context.Context, params listing.Params, filters pools.PoolFilters) ([]models.Pool, error) {
	return nil, nil
}

func (s *stubPoolRepo) UpdatePool(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

type stubReportsRepo struct {
	created []*models.ServiceReport
}

func (s *stubReportsRepo) WithTx(tx *gorm.DB) reports.Repository { return s }

func (s *stubReportsRepo) CreateReport(ctx context.Context, report *models.ServiceReport) (*models.ServiceReport, error) {
	s.created = append(s.created, report)
	return report, nil
}

func (s *stubReportsRepo) FindReportByID(ctx context.Context, id uuid.UUID) (*models.ServiceReport, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReportsRepo) ListReports(ctx context.Context, params listing.Params, filters reports.ReportFilters) ([]models.ServiceReport, error) {
	return nil, nil
}

type stubUsers struct {
	users map[string]*models.User
}

func (s *stubUsers) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fixture struct {
	svc      Service
	repo     *stubRequestRepo
	pools    *stubPoolRepo
	reports  *stubReportsRepo
	users    *stubUsers
	now      time.Time
	poolID   uuid.UUID
	techMail string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newStubRequestRepo()
	poolRepo := newStubPoolRepo()
	reportRepo := &stubReportsRepo{}
	users := &stubUsers{users: map[string]*models.User{}}

	svc, err := NewService(repo, poolRepo, reportRepo, users, stubTx{})
	require.NoError(t, err)

	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	svc.(*service).now = func() time.Time { return now }

	poolID := uuid.New()
	ph := 7.8
	poolRepo.pools[poolID] = &models.Pool{
		ID:         poolID,
		OwnerEmail: "owner@example.com",
		Address:    "55 Cove St",
		Status:     enums.PoolStatusNeedsAttention,
		PHLevel:    &ph,
	}

	status := enums.TechnicianStatusAvailable
	users.users["tech@absolutepools.com"] = &models.User{
		ID:     uuid.New(),
		Email:  "tech@absolutepools.com",
		Role:   enums.UserRoleTechnician,
		Status: &status,
	}

	return &fixture{
		svc:      svc,
		repo:     repo,
		pools:    poolRepo,
		reports:  reportRepo,
		users:    users,
		now:      now,
		poolID:   poolID,
		techMail: "tech@absolutepools.com",
	}
}

func (f *fixture) seedRequest(t *testing.T, status enums.RequestStatus) *models.ServiceRequest {
	t.Helper()
	request := &models.ServiceRequest{
		ID:          uuid.New(),
		PoolID:      f.poolID,
		ClientEmail: "owner@example.com",
		ServiceType: enums.ServiceTypeCleaning,
		Priority:    enums.RequestPriorityMedium,
		Status:      status,
		CreatedDate: f.now.Add(-48 * time.Hour),
		UpdatedDate: f.now.Add(-2 * time.Hour),
	}
	if status != enums.RequestStatusPending {
		tech := f.techMail
		request.AssignedTechnician = &tech
	}
	f.repo.requests[request.ID] = request
	return request
}

var (
	adminActor = types.Actor{UserID: uuid.New(), Email: "maria@absolutepools.com", Role: enums.UserRoleAdmin}
	ownerActor = types.Actor{UserID: uuid.New(), Email: "owner@example.com", Role: enums.UserRolePoolOwner}
	techActor  = types.Actor{UserID: uuid.New(), Email: "tech@absolutepools.com", Role: enums.UserRoleTechnician}
)

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	var domainErr *pkgerrors.Error
	require.True(t, errors.As(err, &domainErr), "expected typed error, got %v", err)
	assert.Equal(t, code, domainErr.Code())
}

func TestCreateDefaultsPendingMedium(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(context.Background(), ownerActor, CreateRequestInput{
		PoolID:      f.poolID,
		ServiceType: enums.ServiceTypeChemicalCheck,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusPending, created.Status)
	assert.Equal(t, enums.RequestPriorityMedium, created.Priority)
	assert.Equal(t, "owner@example.com", created.ClientEmail)
	assert.Nil(t, created.AssignedTechnician)
}

func TestCreateRejectsForeignPool(t *testing.T) {
	f := newFixture(t)

	stranger := types.Actor{Email: "other@example.com", Role: enums.UserRolePoolOwner}
	_, err := f.svc.Create(context.Background(), stranger, CreateRequestInput{
		PoolID:      f.poolID,
		ServiceType: enums.ServiceTypeCleaning,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestCreateRejectsUnknownServiceType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), adminActor, CreateRequestInput{
		PoolID:      f.poolID,
		ClientEmail: "owner@example.com",
		ServiceType: enums.ServiceType("lawn_mowing"),
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestAssignPendingRequest(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusPending)
	scheduled := f.now.Add(24 * time.Hour)

	updated, err := f.svc.Assign(context.Background(), adminActor, request.ID, AssignInput{
		TechnicianEmail: "Tech@AbsolutePools.com",
		ScheduledDate:   &scheduled,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusAssigned, updated.Status)
	require.NotNil(t, updated.AssignedTechnician)
	assert.Equal(t, "tech@absolutepools.com", *updated.AssignedTechnician)
	require.NotNil(t, updated.ScheduledDate)
}

func TestReassignInProgressSwapsTechnicianWithoutRegressing(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusInProgress)

	relief := enums.TechnicianStatusAvailable
	f.users.users["relief@absolutepools.com"] = &models.User{
		ID:     uuid.New(),
		Email:  "relief@absolutepools.com",
		Role:   enums.UserRoleTechnician,
		Status: &relief,
	}

	updated, err := f.svc.Assign(context.Background(), adminActor, request.ID, AssignInput{TechnicianEmail: "relief@absolutepools.com"})
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusInProgress, updated.Status, "reassignment must not move the status backwards")
	require.NotNil(t, updated.AssignedTechnician)
	assert.Equal(t, "relief@absolutepools.com", *updated.AssignedTechnician)
}

func TestAssignClosedRequestRefused(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusCompleted)

	_, err := f.svc.Assign(context.Background(), adminActor, request.ID, AssignInput{TechnicianEmail: f.techMail})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestAssignRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusPending)

	_, err := f.svc.Assign(context.Background(), techActor, request.ID, AssignInput{TechnicianEmail: f.techMail})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestAssignRejectsNonTechnician(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusPending)
	f.users.users["owner@example.com"] = &models.User{Email: "owner@example.com", Role: enums.UserRolePoolOwner}

	_, err := f.svc.Assign(context.Background(), adminActor, request.ID, AssignInput{TechnicianEmail: "owner@example.com"})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestStartAssignedRequest(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusAssigned)

	updated, err := f.svc.Start(context.Background(), techActor, request.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusInProgress, updated.Status)
}

func TestStartRejectsWrongTechnician(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusAssigned)

	other := types.Actor{Email: "other-tech@absolutepools.com", Role: enums.UserRoleTechnician}
	_, err := f.svc.Start(context.Background(), other, request.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestStartRejectsPendingRequest(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusPending)

	_, err := f.svc.Start(context.Background(), adminActor, request.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCompleteFilesReportAndRefreshesPool(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusInProgress)
	priorUpdated := request.UpdatedDate

	ph := 7.2
	chlorine := 2.5
	result, err := f.svc.Complete(context.Background(), techActor, request.ID, CompleteInput{
		WorkPerformed:    "Skimmed, brushed, balanced chemicals",
		WaterTestResults: types.WaterTestResults{PH: &ph, Chlorine: &chlorine},
		AfterPhotos:      []string{"/uploads/after-1.jpg"},
	})
	require.NoError(t, err)

	require.Len(t, f.reports.created, 1)
	report := f.reports.created[0]
	assert.Equal(t, request.ID, report.ServiceRequestID)
	assert.Equal(t, f.poolID, report.PoolID)
	assert.Equal(t, f.techMail, report.TechnicianEmail)
	require.NotNil(t, report.TimeStarted)
	assert.True(t, report.TimeStarted.Equal(priorUpdated), "report starts where the request last moved")
	assert.True(t, report.TimeCompleted.Equal(f.now))

	assert.Equal(t, enums.RequestStatusCompleted, result.Request.Status)
	require.NotNil(t, result.Request.CompletionDate)
	assert.True(t, result.Request.CompletionDate.Equal(f.now))

	updates := f.pools.updates
	require.NotNil(t, updates)
	assert.Equal(t, enums.PoolStatusGood, updates["status"])
	assert.Equal(t, 7.2, updates["ph_level"])
	assert.Equal(t, 2.5, updates["chlorine_level"])
	_, hasTemperature := updates["water_temperature"]
	assert.False(t, hasTemperature, "no reading and no previous value leaves the column alone")
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), updates["last_service_date"])
}

func TestCompleteFallsBackToExistingReadings(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusInProgress)

	_, err := f.svc.Complete(context.Background(), techActor, request.ID, CompleteInput{
		WorkPerformed: "Filter change only",
	})
	require.NoError(t, err)
	assert.Equal(t, 7.8, f.pools.updates["ph_level"], "previous reading carries over")
}

func TestCompleteRejectsWrongState(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusAssigned)

	_, err := f.svc.Complete(context.Background(), techActor, request.ID, CompleteInput{WorkPerformed: "x"})
	assertCode(t, err, pkgerrors.CodeStateConflict)
	assert.Empty(t, f.reports.created)
}

func TestCompleteRequiresWorkPerformed(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusInProgress)

	_, err := f.svc.Complete(context.Background(), techActor, request.ID, CompleteInput{WorkPerformed: "   "})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCancelOpenRequest(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusAssigned)

	updated, err := f.svc.Cancel(context.Background(), ownerActor, request.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusCancelled, updated.Status)
}

func TestCancelClosedRequest(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusCompleted)

	_, err := f.svc.Cancel(context.Background(), adminActor, request.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestDeleteOpenRequestAdminOnly(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusPending)

	err := f.svc.Delete(context.Background(), ownerActor, request.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)

	require.NoError(t, f.svc.Delete(context.Background(), adminActor, request.ID))
	assert.Contains(t, f.repo.deleted, request.ID)
}

func TestDeleteClosedRequestRefused(t *testing.T) {
	f := newFixture(t)
	request := f.seedRequest(t, enums.RequestStatusCompleted)

	err := f.svc.Delete(context.Background(), adminActor, request.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestListScopesByRole(t *testing.T) {
	f := newFixture(t)
	f.seedRequest(t, enums.RequestStatusPending)
	assigned := f.seedRequest(t, enums.RequestStatusAssigned)

	items, err := f.svc.List(context.Background(), techActor, listing.Params{}, RequestFilters{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, assigned.ID, items[0].ID)

	items, err = f.svc.List(context.Background(), ownerActor, listing.Params{}, RequestFilters{})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = f.svc.List(context.Background(), adminActor, listing.Params{}, RequestFilters{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
