package main

import (
	"context"
	"net/http"
	"os"

	"github.com/absolutepools/aquatrack-backend/api/routes"
	"github.com/absolutepools/aquatrack-backend/internal/feedback"
	"github.com/absolutepools/aquatrack-backend/internal/identity"
	"github.com/absolutepools/aquatrack-backend/internal/pools"
	"github.com/absolutepools/aquatrack-backend/internal/requests"
	"github.com/absolutepools/aquatrack-backend/internal/reports"
	"github.com/absolutepools/aquatrack-backend/internal/seed"
	"github.com/absolutepools/aquatrack-backend/internal/settings"
	"github.com/absolutepools/aquatrack-backend/internal/stats"
	"github.com/absolutepools/aquatrack-backend/pkg/auth/session"
	"github.com/absolutepools/aquatrack-backend/pkg/config"
	"github.com/absolutepools/aquatrack-backend/pkg/db"
	"github.com/absolutepools/aquatrack-backend/pkg/instance"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
	"github.com/absolutepools/aquatrack-backend/pkg/metrics"
	"github.com/absolutepools/aquatrack-backend/pkg/migrate"
	pkgredis "github.com/absolutepools/aquatrack-backend/pkg/redis"
	"github.com/absolutepools/aquatrack-backend/pkg/uploads"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	settingsRepo := settings.NewRepository(dbClient.DB())

	if cfg.FeatureFlags.SeedOnBoot {
		seeder, err := seed.New(dbClient, settingsRepo, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to build seeder", err)
			os.Exit(1)
		}
		if _, err := seeder.Run(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to seed database", err)
			os.Exit(1)
		}
	}

	sessionManager := session.NewManager(redisClient, cfg.JWT.SessionTTL())

	identityService, err := identity.NewService(identity.NewRepository(dbClient.DB()), settingsRepo, sessionManager, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	poolsRepo := pools.NewRepository(dbClient.DB())
	poolsService, err := pools.NewService(poolsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create pools service", err)
		os.Exit(1)
	}

	requestsRepo := requests.NewRepository(dbClient.DB())
	reportsRepo := reports.NewRepository(dbClient.DB())
	requestsService, err := requests.NewService(requestsRepo, poolsRepo, reportsRepo, identity.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create requests service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reportsRepo, poolsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	feedbackService, err := feedback.NewService(feedback.NewRepository(dbClient.DB()), requestsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create feedback service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(stats.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	uploadStore, err := uploads.New(cfg.Uploads)
	if err != nil {
		logg.Error(context.Background(), "failed to create upload store", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			HTTPMetrics: metrics.NewHTTPMetrics(),
			Identity:    identityService,
			Pools:       poolsService,
			Requests:    requestsService,
			Reports:     reportsService,
			Feedback:    feedbackService,
			Stats:       statsService,
			Uploads:     uploadStore,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
