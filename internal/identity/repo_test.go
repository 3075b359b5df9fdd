package identity

import (
	"context"
	"testing"

	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupIdentityTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  full_name TEXT NOT NULL,
  role TEXT NOT NULL,
  status TEXT,
  technician_zone TEXT,
  created_date DATETIME,
  updated_date DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(`DELETE FROM users`).Error)

	return db
}

func insertUser(t *testing.T, db *gorm.DB, role enums.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@absolutepools.com",
		FullName: "Repo Test User",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateAndFindUser(t *testing.T) {
	db := setupIdentityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	status := enums.TechnicianStatusAvailable
	zone := "North Zone"
	created, err := repo.CreateUser(ctx, &models.User{
		ID:             uuid.New(),
		Email:          "carlos@absolutepools.com",
		FullName:       "Carlos Mendez",
		Role:           enums.UserRoleTechnician,
		Status:         &status,
		TechnicianZone: &zone,
	})
	require.NoError(t, err)

	found, err := repo.FindUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "carlos@absolutepools.com", found.Email)
	require.NotNil(t, found.Status)
	assert.Equal(t, enums.TechnicianStatusAvailable, *found.Status)

	byEmail, err := repo.FindUserByEmail(ctx, "  Carlos@AbsolutePools.com ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
}

func TestListUsersFiltersByRole(t *testing.T) {
	db := setupIdentityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	insertUser(t, db, enums.UserRoleAdmin)
	insertUser(t, db, enums.UserRoleTechnician)
	insertUser(t, db, enums.UserRoleTechnician)

	role := enums.UserRoleTechnician
	techs, err := repo.ListUsers(ctx, listing.Params{}, UserFilters{Role: &role})
	require.NoError(t, err)
	assert.Len(t, techs, 2)
	for _, user := range techs {
		assert.Equal(t, enums.UserRoleTechnician, user.Role)
	}
}

func TestListUsersRejectsUnknownOrderColumn(t *testing.T) {
	db := setupIdentityTestDB(t)
	repo := NewRepository(db)

	_, err := repo.ListUsers(context.Background(), listing.Params{OrderBy: "email; DROP TABLE users"}, UserFilters{})
	require.Error(t, err)
}

func TestFirstAdminPicksOldest(t *testing.T) {
	db := setupIdentityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := insertUser(t, db, enums.UserRoleAdmin)
	require.NoError(t, db.Exec(`UPDATE users SET created_date = '2020-01-01 00:00:00' WHERE id = ?`, first.ID).Error)
	insertUser(t, db, enums.UserRoleAdmin)

	admin, err := repo.FirstAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, admin.ID)
}

func TestUpdateUserAppliesColumns(t *testing.T) {
	db := setupIdentityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := insertUser(t, db, enums.UserRoleTechnician)
	require.NoError(t, repo.UpdateUser(ctx, user.ID, map[string]any{
		"status":          enums.TechnicianStatusBusy,
		"technician_zone": "South Zone",
	}))

	updated, err := repo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Status)
	assert.Equal(t, enums.TechnicianStatusBusy, *updated.Status)
	require.NotNil(t, updated.TechnicianZone)
	assert.Equal(t, "South Zone", *updated.TechnicianZone)
}
