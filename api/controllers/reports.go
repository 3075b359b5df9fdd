package controllers

import (
	"net/http"

	"github.com/absolutepools/aquatrack-backend/api/middleware"
	"github.com/absolutepools/aquatrack-backend/api/responses"
	"github.com/absolutepools/aquatrack-backend/api/validators"
	"github.com/absolutepools/aquatrack-backend/internal/reports"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
)

func ReportList(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParseListingParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := reports.ReportFilters{}
		if filters.PoolID, err = validators.QueryUUID(r, "pool_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.ServiceRequestID, err = validators.QueryUUID(r, "service_request_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func ReportGet(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "reportId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Get(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
