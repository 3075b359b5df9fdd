package controllers

import (
	"net/http"
	"strings"

	"github.com/absolutepools/aquatrack-backend/api/responses"
	"github.com/absolutepools/aquatrack-backend/api/validators"
	"github.com/absolutepools/aquatrack-backend/internal/identity"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
	"github.com/google/uuid"
)

type loginAsRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type loginAsResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// SessionLoginAs mints a token for the requested user. There is no credential
// check: the product runs as a role switcher, not an auth system.
func SessionLoginAs(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginAsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuid.Parse(body.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.LoginAs(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loginAsResponse{Token: result.Token, User: result.User})
	}
}

// SessionLogout revokes the presented token's session marker. Unknown or
// malformed tokens are a no-op.
func SessionLogout(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if err := svc.Logout(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// SessionMe returns the actor the identity middleware resolved.
func SessionMe(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.Resolve(r.Context(), bearerToken(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
