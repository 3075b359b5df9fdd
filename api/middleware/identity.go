package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/absolutepools/aquatrack-backend/api/responses"
	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
	"github.com/absolutepools/aquatrack-backend/pkg/types"
)

// UserResolver maps a bearer token to a user. A missing or garbage token
// still resolves to the configured fallback user, so requests past this
// middleware always carry an actor.
type UserResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// Identity resolves the current user from the Authorization header and
// injects the actor into the request context.
func Identity(resolver UserResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity resolver unavailable"))
				return
			}

			user, err := resolver.Resolve(r.Context(), bearerToken(r))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			actor := types.Actor{UserID: user.ID, Email: user.Email, Role: user.Role}
			ctx := WithActor(r.Context(), actor)
			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ID.String())
				ctx = logg.WithActorRole(ctx, string(user.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
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
