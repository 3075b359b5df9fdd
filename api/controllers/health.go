package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/absolutepools/aquatrack-backend/api/responses"
	"github.com/absolutepools/aquatrack-backend/pkg/config"
	"github.com/absolutepools/aquatrack-backend/pkg/db"
	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
	"github.com/absolutepools/aquatrack-backend/pkg/redis"
)

const readyCheckTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AquaTrack-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the datastore and session store. Failures are combined
// so one response names every unhealthy dependency.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AquaTrack-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		var err error
		checks := map[string]string{}

		if dbP != nil {
			if pingErr := dbP.Ping(ctx); pingErr != nil {
				err = multierr.Append(err, pingErr)
				checks["db"] = "down"
			} else {
				checks["db"] = "up"
			}
		}
		if redisP != nil {
			if pingErr := redisP.Ping(ctx); pingErr != nil {
				err = multierr.Append(err, pingErr)
				checks["redis"] = "down"
			} else {
				checks["redis"] = "up"
			}
		}

		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed").WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
