package pools

import (
	"context"
	"testing"
	"time"

	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPoolsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	pools := `
CREATE TABLE IF NOT EXISTS pools (
  id TEXT PRIMARY KEY,
  owner_email TEXT NOT NULL,
  address TEXT NOT NULL,
  pool_type TEXT,
  size TEXT,
  service_frequency TEXT,
  status TEXT NOT NULL DEFAULT 'good',
  ph_level REAL,
  chlorine_level REAL,
  water_temperature REAL,
  last_service_date DATE,
  next_service_date DATE,
  construction_status TEXT NOT NULL DEFAULT 'planning',
  estimated_price NUMERIC,
  shape TEXT,
  color TEXT,
  depth TEXT,
  sanitization_tech TEXT,
  notes TEXT,
  created_date DATETIME,
  updated_date DATETIME
);`
	require.NoError(t, db.Exec(pools).Error)
	require.NoError(t, db.Exec(`DELETE FROM pools`).Error)

	return db
}

func insertPool(t *testing.T, db *gorm.DB, ownerEmail string, status enums.PoolStatus) *models.Pool {
	t.Helper()
	pool := &models.Pool{
		ID:                 uuid.New(),
		OwnerEmail:         ownerEmail,
		Address:            "742 Evergreen Terrace",
		Status:             status,
		ConstructionStatus: enums.ConstructionStatusPlanning,
	}
	require.NoError(t, db.Create(pool).Error)
	return pool
}

func TestCreateAndFindPool(t *testing.T) {
	db := setupPoolsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	price := decimal.RequireFromString("38000.00")
	created, err := repo.CreatePool(ctx, &models.Pool{
		ID:                 uuid.New(),
		OwnerEmail:         "owner@example.com",
		Address:            "12 Lakeview Rd",
		Status:             enums.PoolStatusGood,
		ConstructionStatus: enums.ConstructionStatusPlanning,
		EstimatedPrice:     &price,
	})
	require.NoError(t, err)

	found, err := repo.FindPoolByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 Lakeview Rd", found.Address)
	require.NotNil(t, found.EstimatedPrice)
	assert.True(t, found.EstimatedPrice.Equal(price))
}

func TestListPoolsFilters(t *testing.T) {
	db := setupPoolsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	insertPool(t, db, "a@example.com", enums.PoolStatusGood)
	insertPool(t, db, "a@example.com", enums.PoolStatusCritical)
	insertPool(t, db, "b@example.com", enums.PoolStatusGood)

	owner := "a@example.com"
	got, err := repo.ListPools(ctx, listing.Params{}, PoolFilters{OwnerEmail: &owner})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	critical := enums.PoolStatusCritical
	got, err = repo.ListPools(ctx, listing.Params{}, PoolFilters{OwnerEmail: &owner, Status: &critical})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, enums.PoolStatusCritical, got[0].Status)
}

func TestUpdatePoolReadings(t *testing.T) {
	db := setupPoolsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pool := insertPool(t, db, "owner@example.com", enums.PoolStatusNeedsAttention)
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpdatePool(ctx, pool.ID, map[string]any{
		"ph_level":          7.2,
		"chlorine_level":    2.0,
		"status":            enums.PoolStatusGood,
		"last_service_date": today,
	}))

	updated, err := repo.FindPoolByID(ctx, pool.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.PHLevel)
	assert.InDelta(t, 7.2, *updated.PHLevel, 0.001)
	assert.Equal(t, enums.PoolStatusGood, updated.Status)
	require.NotNil(t, updated.LastServiceDate)
}
