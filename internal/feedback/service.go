package feedback

import (
	"context"
	"fmt"

	"github.com/absolutepools/aquatrack-backend/internal/requests"
	"github.com/absolutepools/aquatrack-backend/pkg/db"
	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/absolutepools/aquatrack-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// rateableStatuses lists the request states a client may rate. The visit has
// to be underway or done before feedback makes sense.
var rateableStatuses = map[enums.RequestStatus]bool{
	enums.RequestStatusAssigned:   true,
	enums.RequestStatusInProgress: true,
	enums.RequestStatusCompleted:  true,
}

// CreateFeedbackInput captures a client's rating submission.
type CreateFeedbackInput struct {
	ServiceRequestID uuid.UUID
	Rating           int
	Categories       types.CategoryScores
	FeedbackText     *string
	WouldRecommend   *bool
}

// Service defines the feedback operations.
type Service interface {
	Create(ctx context.Context, actor types.Actor, input CreateFeedbackInput) (*models.TechnicianFeedback, error)
	List(ctx context.Context, actor types.Actor, params listing.Params, filters FeedbackFilters) ([]models.TechnicianFeedback, error)
	EligibleRequests(ctx context.Context, actor types.Actor) ([]models.ServiceRequest, error)
}

type service struct {
	repo     Repository
	requests requests.Repository
}

// NewService builds the feedback service.
func NewService(repo Repository, requestsRepo requests.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("feedback repository required")
	}
	if requestsRepo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	return &service{repo: repo, requests: requestsRepo}, nil
}

// Create files the rating. The unique index on service_request_id turns a
// concurrent double submit into a conflict instead of a second row.
func (s *service) Create(ctx context.Context, actor types.Actor, input CreateFeedbackInput) (*models.TechnicianFeedback, error) {
	if actor.Role != enums.UserRolePoolOwner {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only pool owners can rate visits")
	}
	if input.ServiceRequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service request id required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if err := validateCategories(input.Categories); err != nil {
		return nil, err
	}

	request, err := s.requests.FindRequestByID(ctx, input.ServiceRequestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service request")
	}
	if request.ClientEmail != actor.Email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "request belongs to another client")
	}
	if request.AssignedTechnician == nil || !rateableStatuses[request.Status] {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request has no technician visit to rate")
	}

	feedback := &models.TechnicianFeedback{
		ID:               uuid.New(),
		ServiceRequestID: request.ID,
		TechnicianEmail:  *request.AssignedTechnician,
		ClientEmail:      actor.Email,
		Rating:           input.Rating,
		Categories:       input.Categories,
		FeedbackText:     input.FeedbackText,
		WouldRecommend:   input.WouldRecommend,
	}
	created, err := s.repo.CreateFeedback(ctx, feedback)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "request already rated")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create feedback")
	}
	return created, nil
}

// List scopes clients to their own submissions and technicians to ratings
// about them.
func (s *service) List(ctx context.Context, actor types.Actor, params listing.Params, filters FeedbackFilters) ([]models.TechnicianFeedback, error) {
	switch actor.Role {
	case enums.UserRolePoolOwner:
		email := actor.Email
		filters.ClientEmail = &email
	case enums.UserRoleTechnician:
		email := actor.Email
		filters.TechnicianEmail = &email
	}
	items, err := s.repo.ListFeedback(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list feedback")
	}
	return items, nil
}

// EligibleRequests returns the client's requests that can still be rated: a
// technician is attached, the visit is underway or done, and no rating exists.
func (s *service) EligibleRequests(ctx context.Context, actor types.Actor) ([]models.ServiceRequest, error) {
	if actor.Role != enums.UserRolePoolOwner {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only pool owners rate visits")
	}

	email := actor.Email
	all, err := s.requests.ListRequests(ctx, listing.Params{}, requests.RequestFilters{ClientEmail: &email})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list client requests")
	}

	ratedIDs, err := s.repo.RatedRequestIDs(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rated requests")
	}
	rated := make(map[uuid.UUID]bool, len(ratedIDs))
	for _, id := range ratedIDs {
		rated[id] = true
	}

	eligible := make([]models.ServiceRequest, 0, len(all))
	for _, request := range all {
		if request.AssignedTechnician == nil || *request.AssignedTechnician == "" {
			continue
		}
		if !rateableStatuses[request.Status] {
			continue
		}
		if rated[request.ID] {
			continue
		}
		eligible = append(eligible, request)
	}
	return eligible, nil
}

func validateCategories(scores types.CategoryScores) error {
	for _, score := range []int{scores.Professionalism, scores.QualityOfWork, scores.Timeliness, scores.Communication} {
		if score < 0 || score > 5 {
			return pkgerrors.New(pkgerrors.CodeValidation, "category scores must be between 0 and 5")
		}
	}
	return nil
}
