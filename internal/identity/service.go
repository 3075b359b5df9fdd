package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/absolutepools/aquatrack-backend/pkg/auth"
	"github.com/absolutepools/aquatrack-backend/pkg/config"
	"github.com/absolutepools/aquatrack-backend/pkg/db"
	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	pkgerrors "github.com/absolutepools/aquatrack-backend/pkg/errors"
	"github.com/absolutepools/aquatrack-backend/pkg/listing"
	"github.com/absolutepools/aquatrack-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettingsStore is the subset of the settings repository the service needs.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// SessionManager tracks which minted tokens are still honored.
type SessionManager interface {
	Create(ctx context.Context, sessionID, userID string) error
	Active(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

// LoginResult pairs a minted token with the user it impersonates.
type LoginResult struct {
	Token string
	User  *models.User
}

// CreateUserInput captures the fields accepted when registering a user.
type CreateUserInput struct {
	Email          string
	FullName       string
	Role           enums.UserRole
	Status         *enums.TechnicianStatus
	TechnicianZone *string
}

// UpdateUserInput captures the mutable user fields. Nil fields are untouched.
type UpdateUserInput struct {
	FullName       *string
	Role           *enums.UserRole
	Status         *enums.TechnicianStatus
	TechnicianZone *string
}

// Service defines the identity operations.
type Service interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
	LoginAs(ctx context.Context, userID uuid.UUID) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	List(ctx context.Context, params listing.Params, filters UserFilters) ([]models.User, error)
	Create(ctx context.Context, actor types.Actor, input CreateUserInput) (*models.User, error)
	Update(ctx context.Context, actor types.Actor, id uuid.UUID, input UpdateUserInput) (*models.User, error)
}

type service struct {
	repo     Repository
	settings SettingsStore
	sessions SessionManager
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService builds the identity service with its dependencies.
func NewService(repo Repository, settings SettingsStore, sessions SessionManager, jwtCfg config.JWTConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("identity repository required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings store required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		repo:     repo,
		settings: settings,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}, nil
}

// Resolve maps a bearer token to its user, falling back to the default
// account whenever the token is missing, expired, revoked, or orphaned. The
// app always has a current user.
func (s *service) Resolve(ctx context.Context, token string) (*models.User, error) {
	if user := s.resolveToken(ctx, token); user != nil {
		return user, nil
	}
	return s.fallbackUser(ctx)
}

func (s *service) resolveToken(ctx context.Context, token string) *models.User {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	claims, err := auth.ParseAccessToken(s.jwtCfg, token)
	if err != nil {
		return nil
	}
	active, err := s.sessions.Active(ctx, claims.ID)
	if err != nil || !active {
		return nil
	}
	user, err := s.repo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil
	}
	return user
}

func (s *service) fallbackUser(ctx context.Context) (*models.User, error) {
	if raw, err := s.settings.Get(ctx, models.SettingDefaultUserID); err == nil {
		if id, parseErr := uuid.Parse(raw); parseErr == nil {
			if user, findErr := s.repo.FindUserByID(ctx, id); findErr == nil {
				return user, nil
			}
		}
	}
	user, err := s.repo.FirstAdmin(ctx)
	if err == nil {
		return user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default user")
	}
	return s.bootstrapAdmin(ctx)
}

// bootstrapAdmin persists a recovery administrator so identity resolution
// still produces a user on an empty database.
func (s *service) bootstrapAdmin(ctx context.Context) (*models.User, error) {
	admin := &models.User{
		ID:       uuid.New(),
		Email:    "admin@absolutepools.com",
		FullName: "Administrator",
		Role:     enums.UserRoleAdmin,
	}
	created, err := s.repo.CreateUser(ctx, admin)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			existing, adminErr := s.repo.FirstAdmin(ctx)
			if adminErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, adminErr, "load default user")
			}
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bootstrap default admin")
	}
	if err := s.settings.Set(ctx, models.SettingDefaultUserID, created.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record default user")
	}
	return created, nil
}

// LoginAs mints a token for the target user and records its session marker.
func (s *service) LoginAs(ctx context.Context, userID uuid.UUID) (*LoginResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	jti := uuid.NewString()
	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	if err := s.sessions.Create(ctx, jti, user.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record session")
	}

	return &LoginResult{Token: token, User: user}, nil
}

// Logout revokes the token's session marker. Unusable tokens are ignored so
// logout always succeeds from the caller's point of view.
func (s *service) Logout(ctx context.Context, token string) error {
	claims, err := auth.ParseAccessToken(s.jwtCfg, strings.TrimSpace(token))
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) List(ctx context.Context, params listing.Params, filters UserFilters) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return users, nil
}

func (s *service) Create(ctx context.Context, actor types.Actor, input CreateUserInput) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can create users")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user role")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid technician status")
	}

	user := &models.User{
		ID:       uuid.New(),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		FullName: strings.TrimSpace(input.FullName),
		Role:     input.Role,
	}
	if user.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if user.FullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name required")
	}

	if input.Role == enums.UserRoleTechnician {
		status := enums.TechnicianStatusAvailable
		if input.Status != nil {
			status = *input.Status
		}
		user.Status = &status
		user.TechnicianZone = input.TechnicianZone
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, actor types.Actor, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	target, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	updates, err := buildUserUpdates(actor, target, input)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return target, nil
	}

	if err := s.repo.UpdateUser(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	updated, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload user")
	}
	return updated, nil
}

// buildUserUpdates enforces who may change what: admins edit any field on
// anyone, technicians edit only their own status and zone.
func buildUserUpdates(actor types.Actor, target *models.User, input UpdateUserInput) (map[string]any, error) {
	updates := map[string]any{}

	if actor.IsAdmin() {
		if input.FullName != nil {
			name := strings.TrimSpace(*input.FullName)
			if name == "" {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
			}
			updates["full_name"] = name
		}
		if input.Role != nil {
			if !input.Role.IsValid() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user role")
			}
			updates["role"] = *input.Role
		}
	} else {
		if input.FullName != nil || input.Role != nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can change name or role")
		}
		if actor.UserID != target.ID || !actor.IsTechnician() {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot update another user")
		}
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid technician status")
		}
		updates["status"] = *input.Status
	}
	if input.TechnicianZone != nil {
		updates["technician_zone"] = *input.TechnicianZone
	}

	return updates, nil
}
