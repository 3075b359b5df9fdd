package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/absolutepools/aquatrack-backend/pkg/migrate"
)

func TestShippedMigrationsValidate(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir should validate: %v", err)
	}
}

func TestInitSchemaCoversAllTables(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE users",
		"CREATE TABLE pools",
		"CREATE TABLE service_requests",
		"CREATE TABLE service_reports",
		"CREATE TABLE technician_feedbacks",
		"CREATE TABLE app_settings",
		"CREATE UNIQUE INDEX idx_users_email",
		"CREATE UNIQUE INDEX idx_technician_feedbacks_service_request_id",
		"DROP TABLE users",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
