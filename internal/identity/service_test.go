package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/absolutepools/aquatrack-backend/pkg/auth"
	"github.com/absolutepools/aquatrack-backend/pkg/config"
	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/absolutepools/aquatrack-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users      map[uuid.UUID]*models.User
	createErr  error
	updates    map[string]any
	updatedID  uuid.UUID
	firstAdmin *models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) ListUsers(ctx context.Context, params listing.Params, filters UserFilters) ([]models.User, error) {
	var out []models.User
	for _, user := range s.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

func (s *stubUserRepo) FirstAdmin(ctx context.Context) (*models.User, error) {
	if s.firstAdmin == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.firstAdmin, nil
}

func (s *stubUserRepo) UpdateUser(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updatedID = id
	s.updates = updates
	user := s.users[id]
	if user == nil {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.TechnicianStatus); ok {
		user.Status = &status
	}
	return nil
}

type stubSettings struct {
	values map[string]string
}

func (s *stubSettings) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return v, nil
}

func (s *stubSettings) Set(ctx context.Context, key, value string) error {
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value
	return nil
}

type stubSessions struct {
	active  map[string]bool
	revoked []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{active: map[string]bool{}}
}

func (s *stubSessions) Create(ctx context.Context, sessionID, userID string) error {
	s.active[sessionID] = true
	return nil
}

func (s *stubSessions) Active(ctx context.Context, sessionID string) (bool, error) {
	return s.active[sessionID], nil
}

func (s *stubSessions) Revoke(ctx context.Context, sessionID string) error {
	delete(s.active, sessionID)
	s.revoked = append(s.revoked, sessionID)
	return nil
}

func identityTestConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "aquatrack-test", ExpirationMinutes: 30}
}

func newTestService(t *testing.T, repo Repository, settings SettingsStore, sessions SessionManager) Service {
	t.Helper()
	svc, err := NewService(repo, settings, sessions, identityTestConfig())
	require.NoError(t, err)
	return svc
}

func seedUser(repo *stubUserRepo, role enums.UserRole) *models.User {
	user := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@absolutepools.com", FullName: "Test User", Role: role}
	repo.users[user.ID] = user
	return user
}

func TestLoginAsMintsUsableToken(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessions()
	svc := newTestService(t, repo, &stubSettings{}, sessions)
	tech := seedUser(repo, enums.UserRoleTechnician)

	result, err := svc.LoginAs(context.Background(), tech.ID)
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.Equal(t, tech.ID, result.User.ID)

	claims, err := auth.ParseAccessToken(identityTestConfig(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, tech.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleTechnician, claims.Role)
	assert.True(t, sessions.active[claims.ID])

	resolved, err := svc.Resolve(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, tech.ID, resolved.ID)
}

func TestLoginAsUnknownUser(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), &stubSettings{}, newStubSessions())

	_, err := svc.LoginAs(context.Background(), uuid.New())
	require.Error(t, err)
	var domainErr *pkgerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, pkgerrors.CodeNotFound, domainErr.Code())
}

func TestResolveFallsBackAfterLogout(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessions()
	settings := &stubSettings{values: map[string]string{}}
	svc := newTestService(t, repo, settings, sessions)

	admin := seedUser(repo, enums.UserRoleAdmin)
	tech := seedUser(repo, enums.UserRoleTechnician)
	settings.values[models.SettingDefaultUserID] = admin.ID.String()

	result, err := svc.LoginAs(context.Background(), tech.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.Token))
	assert.Len(t, sessions.revoked, 1)

	resolved, err := svc.Resolve(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, resolved.ID, "revoked token should resolve to default user")
}

func TestResolveFallsBackToFirstAdmin(t *testing.T) {
	repo := newStubUserRepo()
	admin := seedUser(repo, enums.UserRoleAdmin)
	repo.firstAdmin = admin
	svc := newTestService(t, repo, &stubSettings{}, newStubSessions())

	resolved, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, resolved.ID)
}

func TestResolveBootstrapsAdminOnEmptyDatabase(t *testing.T) {
	repo := newStubUserRepo()
	settings := &stubSettings{}
	svc := newTestService(t, repo, settings, newStubSessions())

	resolved, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, resolved.Role)

	require.Len(t, repo.users, 1, "recovery admin should be persisted")
	assert.Equal(t, resolved.ID.String(), settings.values[models.SettingDefaultUserID])

	again, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, resolved.ID, again.ID, "second resolve reuses the persisted admin")
	assert.Len(t, repo.users, 1)
}

func TestLogoutIgnoresGarbageTokens(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), &stubSettings{}, newStubSessions())
	assert.NoError(t, svc.Logout(context.Background(), "not-a-jwt"))
}

func TestCreateRequiresAdmin(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), &stubSettings{}, newStubSessions())

	_, err := svc.Create(context.Background(), types.Actor{Role: enums.UserRolePoolOwner}, CreateUserInput{
		Email:    "new@absolutepools.com",
		FullName: "New User",
		Role:     enums.UserRolePoolOwner,
	})
	require.Error(t, err)
	var domainErr *pkgerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, pkgerrors.CodeForbidden, domainErr.Code())
}

func TestCreateTechnicianDefaultsAvailable(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSettings{}, newStubSessions())

	created, err := svc.Create(context.Background(), types.Actor{Role: enums.UserRoleAdmin}, CreateUserInput{
		Email:    "Tech@AbsolutePools.com",
		FullName: "Carlos Mendez",
		Role:     enums.UserRoleTechnician,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Status)
	assert.Equal(t, enums.TechnicianStatusAvailable, *created.Status)
	assert.Equal(t, "tech@absolutepools.com", created.Email, "email should be normalized")
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	repo := newStubUserRepo()
	repo.createErr = errors.New("UNIQUE constraint failed: users.email")
	svc := newTestService(t, repo, &stubSettings{}, newStubSessions())

	_, err := svc.Create(context.Background(), types.Actor{Role: enums.UserRoleAdmin}, CreateUserInput{
		Email:    "dup@absolutepools.com",
		FullName: "Dup",
		Role:     enums.UserRolePoolOwner,
	})
	require.Error(t, err)
	var domainErr *pkgerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, pkgerrors.CodeConflict, domainErr.Code())
}

func TestTechnicianUpdatesOwnStatus(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSettings{}, newStubSessions())
	tech := seedUser(repo, enums.UserRoleTechnician)

	busy := enums.TechnicianStatusBusy
	updated, err := svc.Update(context.Background(), types.Actor{UserID: tech.ID, Role: enums.UserRoleTechnician}, tech.ID, UpdateUserInput{Status: &busy})
	require.NoError(t, err)
	require.NotNil(t, updated.Status)
	assert.Equal(t, enums.TechnicianStatusBusy, *updated.Status)
}

func TestTechnicianCannotUpdateOthers(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, &stubSettings{}, newStubSessions())
	tech := seedUser(repo, enums.UserRoleTechnician)
	other := seedUser(repo, enums.UserRoleTechnician)

	busy := enums.TechnicianStatusBusy
	_, err := svc.Update(context.Background(), types.Actor{UserID: tech.ID, Role: enums.UserRoleTechnician}, other.ID, UpdateUserInput{Status: &busy})
	require.Error(t, err)
	var domainErr *pkgerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, pkgerrors.CodeForbidden, domainErr.Code())
}
