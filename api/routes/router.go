package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/absolutepools/aquatrack-backend/api/controllers"
	"github.com/absolutepools/aquatrack-backend/api/middleware"
	"github.com/absolutepools/aquatrack-backend/internal/feedback"
	"github.com/absolutepools/aquatrack-backend/internal/identity"
	"github.com/absolutepools/aquatrack-backend/internal/pools"
	"github.com/absolutepools/aquatrack-backend/internal/requests"
	"github.com/absolutepools/aquatrack-backend/internal/reports"
	"github.com/absolutepools/aquatrack-backend/internal/stats"
	"github.com/absolutepools/aquatrack-backend/pkg/config"
	"github.com/absolutepools/aquatrack-backend/pkg/db"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
	"github.com/absolutepools/aquatrack-backend/pkg/metrics"
	pkgredis "github.com/absolutepools/aquatrack-backend/pkg/redis"
	"github.com/absolutepools/aquatrack-backend/pkg/uploads"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *pkgredis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Identity    identity.Service
	Pools       pools.Service
	Requests    requests.Service
	Reports     reports.Service
	Feedback    feedback.Service
	Stats       stats.Service
	Uploads     uploads.Store
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.HTTPMetrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.HTTPMetrics.Handler())
	}

	var localUploads *uploads.LocalStore
	switch store := deps.Uploads.(type) {
	case *uploads.LocalStore:
		localUploads = store
	case *uploads.RemoteStore:
		localUploads = store.Local()
	}
	if localUploads != nil {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(localUploads.Dir())))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(deps.Identity, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/session", func(r chi.Router) {
			r.Post("/login-as", controllers.SessionLoginAs(deps.Identity, logg))
			r.Post("/logout", controllers.SessionLogout(deps.Identity, logg))
			r.Get("/me", controllers.SessionMe(deps.Identity, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UserList(deps.Identity, logg))
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin)).
				Post("/", controllers.UserCreate(deps.Identity, logg))
			r.Patch("/{userId}", controllers.UserUpdate(deps.Identity, logg))
		})

		r.Route("/pools", func(r chi.Router) {
			r.Get("/", controllers.PoolList(deps.Pools, logg))
			r.Post("/", controllers.PoolCreate(deps.Pools, logg))
			r.Get("/{poolId}", controllers.PoolGet(deps.Pools, logg))
			r.Patch("/{poolId}", controllers.PoolUpdate(deps.Pools, logg))
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin)).
				Patch("/{poolId}/construction-status", controllers.PoolSetConstructionStatus(deps.Pools, logg))
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin)).
				Patch("/{poolId}/price", controllers.PoolSetEstimatedPrice(deps.Pools, logg))
		})

		r.Route("/service-requests", func(r chi.Router) {
			r.Get("/", controllers.RequestList(deps.Requests, logg))
			r.Post("/", controllers.RequestCreate(deps.Requests, logg))
			r.Get("/{requestId}", controllers.RequestGet(deps.Requests, logg))
			r.Patch("/{requestId}", controllers.RequestUpdate(deps.Requests, logg))
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin)).
				Delete("/{requestId}", controllers.RequestDelete(deps.Requests, logg))
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin)).
				Post("/{requestId}/assign", controllers.RequestAssign(deps.Requests, logg))
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleTechnician)).
				Post("/{requestId}/start", controllers.RequestStart(deps.Requests, logg))
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleTechnician)).
				Post("/{requestId}/complete", controllers.RequestComplete(deps.Requests, logg))
			r.Post("/{requestId}/cancel", controllers.RequestCancel(deps.Requests, logg))
		})

		r.Route("/service-reports", func(r chi.Router) {
			r.Get("/", controllers.ReportList(deps.Reports, logg))
			r.Get("/{reportId}", controllers.ReportGet(deps.Reports, logg))
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Get("/", controllers.FeedbackList(deps.Feedback, logg))
			r.Post("/", controllers.FeedbackCreate(deps.Feedback, logg))
			r.Get("/eligible-requests", controllers.FeedbackEligibleRequests(deps.Feedback, logg))
		})

		r.Get("/stats", controllers.StatsOverview(deps.Stats, logg))
		r.Post("/uploads", controllers.UploadFile(deps.Uploads, cfg.Uploads.MaxUploadMB, logg))
	})

	return r
}
