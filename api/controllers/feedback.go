package controllers

import (
	"net/http"

	"github.com/absolutepools/aquatrack-backend/api/middleware"
	"github.com/absolutepools/aquatrack-backend/api/responses"
	"github.com/absolutepools/aquatrack-backend/api/validators"
	"github.com/absolutepools/aquatrack-backend/internal/feedback"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
	"github.com/absolutepools/aquatrack-backend/pkg/types"
	"github.com/google/uuid"
)

type createFeedbackRequest struct {
	ServiceRequestID string  `json:"service_request_id" validate:"required,uuid"`
	Rating           int     `json:"rating" validate:"required,min=1,max=5"`
	Professionalism  int     `json:"professionalism" validate:"min=0,max=5"`
	QualityOfWork    int     `json:"quality_of_work" validate:"min=0,max=5"`
	Timeliness       int     `json:"timeliness" validate:"min=0,max=5"`
	Communication    int     `json:"communication" validate:"min=0,max=5"`
	FeedbackText     *string `json:"feedback_text,omitempty" validate:"omitempty,max=4000"`
	WouldRecommend   *bool   `json:"would_recommend,omitempty"`
}

func FeedbackCreate(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createFeedbackRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := uuid.Parse(body.ServiceRequestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), feedback.CreateFeedbackInput{
			ServiceRequestID: requestID,
			Rating:           body.Rating,
			Categories: types.CategoryScores{
				Professionalism: body.Professionalism,
				QualityOfWork:   body.QualityOfWork,
				Timeliness:      body.Timeliness,
				Communication:   body.Communication,
			},
			FeedbackText:   body.FeedbackText,
			WouldRecommend: body.WouldRecommend,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func FeedbackList(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParseListingParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := feedback.FeedbackFilters{
			TechnicianEmail: validators.QueryString(r, "technician_email"),
		}

		items, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func FeedbackEligibleRequests(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.EligibleRequests(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
