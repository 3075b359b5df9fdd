package requests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/absolutepools/aquatrack-backend/internal/pools"
	"github.com/absolutepools/aquatrack-backend/internal/reports"
	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/absolutepools/aquatrack-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UserFinder resolves technician accounts during assignment.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// CreateRequestInput captures the fields accepted when opening a request.
type CreateRequestInput struct {
	PoolID        uuid.UUID
	ClientEmail   string
	ServiceType   enums.ServiceType
	Priority      *enums.RequestPriority
	ScheduledDate *time.Time
	Description   *string
}

// UpdateRequestInput captures the editable request fields. Nil fields are untouched.
type UpdateRequestInput struct {
	ServiceType   *enums.ServiceType
	Priority      *enums.RequestPriority
	ScheduledDate *time.Time
	Description   *string
}

// AssignInput names the technician taking the job.
type AssignInput struct {
	TechnicianEmail string
	ScheduledDate   *time.Time
}

// CompleteInput carries the technician's completion report.
type CompleteInput struct {
	WorkPerformed    string
	IssuesFound      *string
	Recommendations  *string
	WaterTestResults types.WaterTestResults
	BeforePhotos     []string
	AfterPhotos      []string
}

// CompleteResult returns what the completion transaction produced.
type CompleteResult struct {
	Request *models.ServiceRequest
	Report  *models.ServiceReport
}

// Service defines the service request workflow.
type Service interface {
	List(ctx context.Context, actor types.Actor, params listing.Params, filters RequestFilters) ([]models.ServiceRequest, error)
	Get(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.ServiceRequest, error)
	Create(ctx context.Context, actor types.Actor, input CreateRequestInput) (*models.ServiceRequest, error)
	Update(ctx context.Context, actor types.Actor, id uuid.UUID, input UpdateRequestInput) (*models.ServiceRequest, error)
	Assign(ctx context.Context, actor types.Actor, id uuid.UUID, input AssignInput) (*models.ServiceRequest, error)
	Start(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.ServiceRequest, error)
	Complete(ctx context.Context, actor types.Actor, id uuid.UUID, input CompleteInput) (*CompleteResult, error)
	Cancel(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.ServiceRequest, error)
	Delete(ctx context.Context, actor types.Actor, id uuid.UUID) error
}

type service struct {
	repo    Repository
	pools   pools.Repository
	reports reports.Repository
	users   UserFinder
	tx      txRunner
	now     func() time.Time
}

// NewService builds the request workflow service.
func NewService(repo Repository, poolsRepo pools.Repository, reportsRepo reports.Repository, users UserFinder, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if poolsRepo == nil {
		return nil, fmt.Errorf("pools repository required")
	}
	if reportsRepo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		pools:   poolsRepo,
		reports: reportsRepo,
		users:   users,
		tx:      tx,
		now:     time.Now,
	}, nil
}

// List scopes non-admins to the requests they participate in: owners to their
// own, technicians to their assignments.
func (s *service) List(ctx context.Context, actor types.Actor, params listing.Params, filters RequestFilters) ([]models.ServiceRequest, error) {
	switch actor.Role {
	case enums.UserRolePoolOwner:
		email := actor.Email
		filters.ClientEmail = &email
	case enums.UserRoleTechnician:
		email := actor.Email
		filters.AssignedTechnician = &email
	}
	items, err := s.repo.ListRequests(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list service requests")
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.ServiceRequest, error) {
	request, err := s.loadRequest(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, request) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "request belongs to another user")
	}
	return request, nil
}

func (s *service) Create(ctx context.Context, actor types.Actor, input CreateRequestInput) (*models.ServiceRequest, error) {
	clientEmail := strings.ToLower(strings.TrimSpace(input.ClientEmail))
	switch actor.Role {
	case enums.UserRoleAdmin:
		if clientEmail == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client email required")
		}
	case enums.UserRolePoolOwner:
		clientEmail = actor.Email
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "technicians cannot open requests")
	}

	if !input.ServiceType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid service type")
	}
	priority := enums.RequestPriorityMedium
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
		}
		priority = *input.Priority
	}
	if input.PoolID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pool id required")
	}

	pool, err := s.pools.FindPoolByID(ctx, input.PoolID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pool not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pool")
	}
	if actor.Role == enums.UserRolePoolOwner && pool.OwnerEmail != actor.Email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "pool belongs to another owner")
	}

	request := &models.ServiceRequest{
		ID:            uuid.New(),
		PoolID:        pool.ID,
		ClientEmail:   clientEmail,
		ServiceType:   input.ServiceType,
		Priority:      priority,
		Status:        enums.RequestStatusPending,
		ScheduledDate: input.ScheduledDate,
		Description:   input.Description,
	}
	created, err := s.repo.CreateRequest(ctx, request)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service request")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, actor types.Actor, id uuid.UUID, input UpdateRequestInput) (*models.ServiceRequest, error) {
	request, err := s.loadRequest(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	switch {
	case actor.IsAdmin():
	case actor.Role == enums.UserRolePoolOwner && request.ClientEmail == actor.Email:
		if request.Status != enums.RequestStatusPending {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending requests can be edited by their owner")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot edit this request")
	}
	if request.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request is closed")
	}

	updates := map[string]any{}
	if input.ServiceType != nil {
		if !input.ServiceType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid service type")
		}
		updates["service_type"] = *input.ServiceType
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
		}
		updates["priority"] = *input.Priority
	}
	if input.ScheduledDate != nil {
		updates["scheduled_date"] = *input.ScheduledDate
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) == 0 {
		return request, nil
	}
	return s.applyUpdates(ctx, id, updates)
}

// Assign hands a request to a technician. A pending request moves to
// assigned; a request already underway keeps its status and only changes
// hands.
func (s *service) Assign(ctx context.Context, actor types.Actor, id uuid.UUID, input AssignInput) (*models.ServiceRequest, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can assign technicians")
	}

	email := strings.ToLower(strings.TrimSpace(input.TechnicianEmail))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "technician email required")
	}
	technician, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "technician not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load technician")
	}
	if technician.Role != enums.UserRoleTechnician {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user is not a technician")
	}

	request, err := s.loadRequest(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if request.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "closed requests cannot be assigned")
	}

	updates := map[string]any{
		"assigned_technician": technician.Email,
	}
	if request.Status == enums.RequestStatusPending {
		updates["status"] = enums.RequestStatusAssigned
	}
	if input.ScheduledDate != nil {
		updates["scheduled_date"] = *input.ScheduledDate
	}
	return s.applyUpdates(ctx, id, updates)
}

// Start moves an assigned job into progress. Only the assigned technician or
// an admin may start it.
func (s *service) Start(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.ServiceRequest, error) {
	request, err := s.loadRequest(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if err := requireAssignee(actor, request); err != nil {
		return nil, err
	}
	if request.Status != enums.RequestStatusAssigned {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only assigned requests can be started")
	}
	return s.applyUpdates(ctx, id, map[string]any{"status": enums.RequestStatusInProgress})
}

// Complete files the report, closes the request, and refreshes the pool in a
// single transaction so a crash can never leave a completed request without
// its report.
func (s *service) Complete(ctx context.Context, actor types.Actor, id uuid.UUID, input CompleteInput) (*CompleteResult, error) {
	if strings.TrimSpace(input.WorkPerformed) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "work performed required")
	}

	var result CompleteResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := s.loadRequest(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := requireAssignee(actor, request); err != nil {
			return err
		}
		if request.Status != enums.RequestStatusInProgress {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only in-progress requests can be completed")
		}

		poolsRepo := s.pools.WithTx(tx)
		pool, err := poolsRepo.FindPoolByID(ctx, request.PoolID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pool not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pool")
		}

		now := s.now()
		timeStarted := request.UpdatedDate
		report := &models.ServiceReport{
			ID:               uuid.New(),
			ServiceRequestID: request.ID,
			PoolID:           pool.ID,
			TechnicianEmail:  derefString(request.AssignedTechnician),
			WorkPerformed:    strings.TrimSpace(input.WorkPerformed),
			IssuesFound:      input.IssuesFound,
			Recommendations:  input.Recommendations,
			WaterTestResults: input.WaterTestResults,
			BeforePhotos:     types.StringList(input.BeforePhotos),
			AfterPhotos:      types.StringList(input.AfterPhotos),
			TimeStarted:      &timeStarted,
			TimeCompleted:    now,
		}
		if _, err := s.reports.WithTx(tx).CreateReport(ctx, report); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service report")
		}

		if err := repo.UpdateRequest(ctx, request.ID, map[string]any{
			"status":          enums.RequestStatusCompleted,
			"completion_date": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close service request")
		}

		if err := poolsRepo.UpdatePool(ctx, pool.ID, poolUpdatesAfterService(pool, input.WaterTestResults, now)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh pool")
		}

		request.Status = enums.RequestStatusCompleted
		request.CompletionDate = &now
		result.Request = request
		result.Report = report
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Cancel closes a request from any open state.
func (s *service) Cancel(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.ServiceRequest, error) {
	request, err := s.loadRequest(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !(actor.Role == enums.UserRolePoolOwner && request.ClientEmail == actor.Email) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot cancel this request")
	}
	if request.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request is already closed")
	}
	return s.applyUpdates(ctx, id, map[string]any{"status": enums.RequestStatusCancelled})
}

// Delete removes an open request entirely. Closed requests stay on record.
func (s *service) Delete(ctx context.Context, actor types.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins can delete requests")
	}
	request, err := s.loadRequest(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if request.Status.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "closed requests cannot be deleted")
	}
	if err := s.repo.DeleteRequest(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete service request")
	}
	return nil
}

func (s *service) loadRequest(ctx context.Context, repo Repository, id uuid.UUID) (*models.ServiceRequest, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	request, err := repo.FindRequestByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service request")
	}
	return request, nil
}

func (s *service) applyUpdates(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.ServiceRequest, error) {
	if err := s.repo.UpdateRequest(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update service request")
	}
	request, err := s.repo.FindRequestByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload service request")
	}
	return request, nil
}

func canView(actor types.Actor, request *models.ServiceRequest) bool {
	switch actor.Role {
	case enums.UserRoleAdmin:
		return true
	case enums.UserRolePoolOwner:
		return request.ClientEmail == actor.Email
	case enums.UserRoleTechnician:
		return request.AssignedTechnician != nil && *request.AssignedTechnician == actor.Email
	default:
		return false
	}
}

func requireAssignee(actor types.Actor, request *models.ServiceRequest) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsTechnician() && request.AssignedTechnician != nil && *request.AssignedTechnician == actor.Email {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "request is assigned to another technician")
}

// poolUpdatesAfterService folds the report's readings into the pool, keeping
// the previous value when the technician skipped a measurement. The pool
// leaves service marked good.
func poolUpdatesAfterService(pool *models.Pool, results types.WaterTestResults, now time.Time) map[string]any {
	updates := map[string]any{
		"status":            enums.PoolStatusGood,
		"last_service_date": dateOnly(now),
	}
	if results.PH != nil {
		updates["ph_level"] = *results.PH
	} else if pool.PHLevel != nil {
		updates["ph_level"] = *pool.PHLevel
	}
	if results.Chlorine != nil {
		updates["chlorine_level"] = *results.Chlorine
	} else if pool.ChlorineLevel != nil {
		updates["chlorine_level"] = *pool.ChlorineLevel
	}
	if results.Temperature != nil {
		updates["water_temperature"] = *results.Temperature
	} else if pool.WaterTemperature != nil {
		updates["water_temperature"] = *pool.WaterTemperature
	}
	return updates
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
