package controllers

import (
	"net/http"

	"github.com/absolutepools/aquatrack-backend/api/middleware"
	"github.com/absolutepools/aquatrack-backend/api/responses"
	"github.com/absolutepools/aquatrack-backend/api/validators"
	"github.com/absolutepools/aquatrack-backend/internal/pools"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type createPoolRequest struct {
	OwnerEmail       string  `json:"owner_email" validate:"omitempty,email"`
	Address          string  `json:"address" validate:"required,min=1,max=256"`
	PoolType         *string `json:"pool_type,omitempty"`
	Size             *string `json:"size,omitempty"`
	ServiceFrequency *string `json:"service_frequency,omitempty"`
	Shape            *string `json:"shape,omitempty"`
	Color            *string `json:"color,omitempty"`
	Depth            *string `json:"depth,omitempty"`
	SanitizationTech *string `json:"sanitization_tech,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

type updatePoolRequest struct {
	Address          *string  `json:"address,omitempty" validate:"omitempty,min=1,max=256"`
	PoolType         *string  `json:"pool_type,omitempty"`
	Size             *string  `json:"size,omitempty"`
	ServiceFrequency *string  `json:"service_frequency,omitempty"`
	Status           *string  `json:"status,omitempty" validate:"omitempty,oneof=good needs_attention critical"`
	PHLevel          *float64 `json:"ph_level,omitempty"`
	ChlorineLevel    *float64 `json:"chlorine_level,omitempty"`
	WaterTemperature *float64 `json:"water_temperature,omitempty"`
	Shape            *string  `json:"shape,omitempty"`
	Color            *string  `json:"color,omitempty"`
	Depth            *string  `json:"depth,omitempty"`
	SanitizationTech *string  `json:"sanitization_tech,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

type constructionStatusRequest struct {
	ConstructionStatus string `json:"construction_status" validate:"required"`
}

type estimatedPriceRequest struct {
	EstimatedPrice string `json:"estimated_price" validate:"required"`
}

func PoolList(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParseListingParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := pools.PoolFilters{OwnerEmail: validators.QueryString(r, "owner_email")}
		if raw := validators.QueryString(r, "status"); raw != nil {
			status := enums.PoolStatus(*raw)
			filters.Status = &status
		}
		if raw := validators.QueryString(r, "construction_status"); raw != nil {
			status := enums.ConstructionStatus(*raw)
			filters.ConstructionStatus = &status
		}

		items, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func PoolGet(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "poolId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pool, err := svc.Get(r.Context(), middleware.ActorFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pool)
	}
}

func PoolCreate(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createPoolRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pool, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), pools.CreatePoolInput{
			OwnerEmail:       body.OwnerEmail,
			Address:          body.Address,
			PoolType:         body.PoolType,
			Size:             body.Size,
			ServiceFrequency: body.ServiceFrequency,
			Shape:            body.Shape,
			Color:            body.Color,
			Depth:            body.Depth,
			SanitizationTech: body.SanitizationTech,
			Notes:            body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pool)
	}
}

func PoolUpdate(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "poolId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updatePoolRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := pools.UpdatePoolInput{
			Address:          body.Address,
			PoolType:         body.PoolType,
			Size:             body.Size,
			ServiceFrequency: body.ServiceFrequency,
			PHLevel:          body.PHLevel,
			ChlorineLevel:    body.ChlorineLevel,
			WaterTemperature: body.WaterTemperature,
			Shape:            body.Shape,
			Color:            body.Color,
			Depth:            body.Depth,
			SanitizationTech: body.SanitizationTech,
			Notes:            body.Notes,
		}
		if body.Status != nil {
			status := enums.PoolStatus(*body.Status)
			input.Status = &status
		}

		pool, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pool)
	}
}

func PoolSetConstructionStatus(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "poolId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body constructionStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pool, err := svc.SetConstructionStatus(r.Context(), middleware.ActorFromContext(r.Context()), id, enums.ConstructionStatus(body.ConstructionStatus))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pool)
	}
}

func PoolSetEstimatedPrice(svc pools.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "poolId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body estimatedPriceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(body.EstimatedPrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "estimated price must be a decimal number"))
			return
		}

		pool, err := svc.SetEstimatedPrice(r.Context(), middleware.ActorFromContext(r.Context()), id, price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pool)
	}
}
