package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/absolutepools/aquatrack-backend/pkg/config"
	"github.com/absolutepools/aquatrack-backend/pkg/db"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
	"github.com/absolutepools/aquatrack-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	dir := flag.String("dir", migrate.DefaultDir, "migrations directory")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (for to-version)")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	// create and validate work without a database
	switch command {
	case "create":
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			logg.Error(context.Background(), "failed to create migration", err)
			os.Exit(1)
		}
		fmt.Println(path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			logg.Error(context.Background(), "migration validation failed", err)
			os.Exit(1)
		}
		logg.Info(context.Background(), "migrations valid")
		return
	}

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

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(context.Background(), "failed to unwrap sql.DB", err)
		os.Exit(1)
	}

	if command == "to-version" {
		if err := migrate.MigrateToVersion(context.Background(), sqlDB, cfg.DB.Driver, *dir, *version); err != nil {
			logg.Error(context.Background(), "migration failed", err)
			os.Exit(1)
		}
		return
	}

	if err := migrate.Run(context.Background(), sqlDB, cfg.DB.Driver, *dir, command, flag.Args()[1:]...); err != nil {
		logg.Error(context.Background(), "migration failed", err)
		os.Exit(1)
	}
}
