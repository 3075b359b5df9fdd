package main

import (
	"context"
	"os"

	"github.com/absolutepools/aquatrack-backend/internal/seed"
	"github.com/absolutepools/aquatrack-backend/internal/settings"
	"github.com/absolutepools/aquatrack-backend/pkg/config"
	"github.com/absolutepools/aquatrack-backend/pkg/db"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

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

	seeder, err := seed.New(dbClient, settings.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build seeder", err)
		os.Exit(1)
	}

	if _, err := seeder.Run(context.Background()); err != nil {
		logg.Error(context.Background(), "seed failed", err)
		os.Exit(1)
	}
}
