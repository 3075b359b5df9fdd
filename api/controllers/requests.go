package controllers

import (
	"net/http"
	"time"

	"github.com/absolutepools/aquatrack-backend/api/middleware"
	"github.com/absolutepools/aquatrack-backend/api/responses"
	"github.com/absolutepools/aquatrack-backend/api/validators"
	"github.com/absolutepools/aquatrack-backend/internal/requests"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
	"github.com/absolutepools/aquatrack-backend/pkg/types"
	"github.com/google/uuid"
)

type createRequestRequest struct {
	PoolID        string  `json:"pool_id" validate:"required,uuid"`
	ServiceType   string  `json:"service_type" validate:"required"`
	Priority      *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	ScheduledDate *string `json:"scheduled_date,omitempty"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type updateRequestRequest struct {
	ServiceType   *string `json:"service_type,omitempty"`
	Priority      *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	ScheduledDate *string `json:"scheduled_date,omitempty"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type assignRequestRequest struct {
	TechnicianEmail string  `json:"technician_email" validate:"required,email"`
	ScheduledDate   *string `json:"scheduled_date,omitempty"`
}

type completeRequestRequest struct {
	WorkPerformed    string                 `json:"work_performed" validate:"required,min=1,max=4000"`
	IssuesFound      *string                `json:"issues_found,omitempty" validate:"omitempty,max=4000"`
	Recommendations  *string                `json:"recommendations,omitempty" validate:"omitempty,max=4000"`
	WaterTestResults types.WaterTestResults `json:"water_test_results"`
	BeforePhotos     []string               `json:"before_photos,omitempty"`
	AfterPhotos      []string               `json:"after_photos,omitempty"`
}

func RequestList(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParseListingParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := requests.RequestFilters{
			ClientEmail:        validators.QueryString(r, "client_email"),
			AssignedTechnician: validators.QueryString(r, "assigned_technician"),
		}
		if filters.PoolID, err = validators.QueryUUID(r, "pool_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := validators.QueryString(r, "status"); raw != nil {
			status := enums.RequestStatus(*raw)
			filters.Status = &status
		}
		if raw := validators.QueryString(r, "priority"); raw != nil {
			priority := enums.RequestPriority(*raw)
			filters.Priority = &priority
		}

		items, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func RequestGet(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Get(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

func RequestCreate(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createRequestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		poolID, err := uuid.Parse(body.PoolID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		input := requests.CreateRequestInput{
			PoolID:      poolID,
			ClientEmail: actor.Email,
			ServiceType: enums.ServiceType(body.ServiceType),
			Description: body.Description,
		}
		if body.Priority != nil {
			priority := enums.RequestPriority(*body.Priority)
			input.Priority = &priority
		}
		if input.ScheduledDate, err = parseDate(body.ScheduledDate); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Create(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

func RequestUpdate(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateRequestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := requests.UpdateRequestInput{Description: body.Description}
		if body.ServiceType != nil {
			serviceType := enums.ServiceType(*body.ServiceType)
			input.ServiceType = &serviceType
		}
		if body.Priority != nil {
			priority := enums.RequestPriority(*body.Priority)
			input.Priority = &priority
		}
		if input.ScheduledDate, err = parseDate(body.ScheduledDate); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

func RequestAssign(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body assignRequestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := requests.AssignInput{TechnicianEmail: body.TechnicianEmail}
		if input.ScheduledDate, err = parseDate(body.ScheduledDate); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Assign(r.Context(), middleware.ActorFromContext(r.Context()), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

func RequestStart(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Start(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

func RequestComplete(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body completeRequestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Complete(r.Context(), middleware.ActorFromContext(r.Context()), id, requests.CompleteInput{
			WorkPerformed:    body.WorkPerformed,
			IssuesFound:      body.IssuesFound,
			Recommendations:  body.Recommendations,
			WaterTestResults: body.WaterTestResults,
			BeforePhotos:     body.BeforePhotos,
			AfterPhotos:      body.AfterPhotos,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"request": result.Request,
			"report":  result.Report,
		})
	}
}

func RequestCancel(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Cancel(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

func RequestDelete(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// parseDate accepts date-only or RFC3339 values.
func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, *raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD or RFC3339")
}
