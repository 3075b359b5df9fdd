package controllers

import (
	"net/http"

	"github.com/absolutepools/aquatrack-backend/api/middleware"
	"github.com/absolutepools/aquatrack-backend/api/responses"
	"github.com/absolutepools/aquatrack-backend/api/validators"
	"github.com/absolutepools/aquatrack-backend/internal/identity"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
)

type createUserRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	FullName       string  `json:"full_name" validate:"required,min=1,max=128"`
	Role           string  `json:"role" validate:"required,oneof=admin technician pool_owner"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=available busy"`
	TechnicianZone *string `json:"technician_zone,omitempty" validate:"omitempty,max=64"`
}

type updateUserRequest struct {
	FullName       *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=128"`
	Role           *string `json:"role,omitempty" validate:"omitempty,oneof=admin technician pool_owner"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=available busy"`
	TechnicianZone *string `json:"technician_zone,omitempty" validate:"omitempty,max=64"`
}

func UserList(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParseListingParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := identity.UserFilters{}
		if raw := validators.QueryString(r, "role"); raw != nil {
			role := enums.UserRole(*raw)
			filters.Role = &role
		}
		if raw := validators.QueryString(r, "status"); raw != nil {
			status := enums.TechnicianStatus(*raw)
			filters.Status = &status
		}

		users, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, users)
	}
}

func UserCreate(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := identity.CreateUserInput{
			Email:          body.Email,
			FullName:       body.FullName,
			Role:           enums.UserRole(body.Role),
			TechnicianZone: body.TechnicianZone,
		}
		if body.Status != nil {
			status := enums.TechnicianStatus(*body.Status)
			input.Status = &status
		}

		user, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

func UserUpdate(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := identity.UpdateUserInput{
			FullName:       body.FullName,
			TechnicianZone: body.TechnicianZone,
		}
		if body.Role != nil {
			role := enums.UserRole(*body.Role)
			input.Role = &role
		}
		if body.Status != nil {
			status := enums.TechnicianStatus(*body.Status)
			input.Status = &status
		}

		user, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
