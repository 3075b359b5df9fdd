// Package seed loads the demo dataset a fresh environment starts from. The
// seeder is idempotent: once the completion flag is stored it never writes
// again, so table counts stay stable across restarts.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/absolutepools/aquatrack-backend/internal/settings"
	"github.com/absolutepools/aquatrack-backend/pkg/db"
	"github.com/absolutepools/aquatrack-backend/pkg/db/models"
	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	"github.com/absolutepools/aquatrack-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeder writes the starter dataset inside a single transaction.
type Seeder struct {
	client   *db.Client
	settings settings.Repository
	logg     *logger.Logger
	now      func() time.Time
}

// New builds a seeder. The logger may be nil.
func New(client *db.Client, settingsRepo settings.Repository, logg *logger.Logger) (*Seeder, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if settingsRepo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &Seeder{client: client, settings: settingsRepo, logg: logg, now: time.Now}, nil
}

// Run seeds the database unless a previous run already completed. Returns
// true when data was written.
func (s *Seeder) Run(ctx context.Context) (bool, error) {
	if _, err := s.settings.Get(ctx, models.SettingSeedCompleted); err == nil {
		if s.logg != nil {
			s.logg.Info(ctx, "seed already completed, skipping")
		}
		return false, nil
	} else if err != gorm.ErrRecordNotFound {
		return false, fmt.Errorf("checking seed flag: %w", err)
	}

	admin := s.buildUsers()
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		users := s.buildAllUsers(admin)
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("seeding users: %w", err)
		}

		pools := s.buildPools()
		if err := tx.Create(&pools).Error; err != nil {
			return fmt.Errorf("seeding pools: %w", err)
		}

		requests := s.buildRequests(pools)
		if err := tx.Create(&requests).Error; err != nil {
			return fmt.Errorf("seeding service requests: %w", err)
		}

		txSettings := s.settings.WithTx(tx)
		if err := txSettings.Set(ctx, models.SettingSeedCompleted, s.now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("storing seed flag: %w", err)
		}
		if err := txSettings.Set(ctx, models.SettingDefaultUserID, admin.ID.String()); err != nil {
			return fmt.Errorf("storing default user: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if s.logg != nil {
		s.logg.Info(ctx, "seed completed")
	}
	return true, nil
}

func (s *Seeder) buildUsers() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Email:    "admin@absolutepools.com",
		FullName: "Alex Rivera",
		Role:     enums.UserRoleAdmin,
	}
}

func (s *Seeder) buildAllUsers(admin *models.User) []models.User {
	available := enums.TechnicianStatusAvailable
	busy := enums.TechnicianStatusBusy
	north := "North"
	south := "South"

	return []models.User{
		*admin,
		{
			ID:             uuid.New(),
			Email:          "marcus@absolutepools.com",
			FullName:       "Marcus Webb",
			Role:           enums.UserRoleTechnician,
			Status:         &available,
			TechnicianZone: &north,
		},
		{
			ID:             uuid.New(),
			Email:          "dana@absolutepools.com",
			FullName:       "Dana Ortiz",
			Role:           enums.UserRoleTechnician,
			Status:         &busy,
			TechnicianZone: &south,
		},
		{
			ID:       uuid.New(),
			Email:    "j.harper@example.com",
			FullName: "Jordan Harper",
			Role:     enums.UserRolePoolOwner,
		},
		{
			ID:       uuid.New(),
			Email:    "s.kim@example.com",
			FullName: "Sam Kim",
			Role:     enums.UserRolePoolOwner,
		},
	}
}

func (s *Seeder) buildPools() []models.Pool {
	ph := 7.4
	chlorine := 2.0
	lowPH := 6.8
	freeform := "freeform"
	rectangle := "rectangle"

	return []models.Pool{
		{
			ID:                 uuid.New(),
			OwnerEmail:         "j.harper@example.com",
			Address:            "14 Bayshore Ave",
			Status:             enums.PoolStatusGood,
			ConstructionStatus: enums.ConstructionStatusOperational,
			PHLevel:            &ph,
			ChlorineLevel:      &chlorine,
			Shape:              &rectangle,
		},
		{
			ID:                 uuid.New(),
			OwnerEmail:         "j.harper@example.com",
			Address:            "27 Palm Court",
			Status:             enums.PoolStatusNeedsAttention,
			ConstructionStatus: enums.ConstructionStatusOperational,
			PHLevel:            &lowPH,
		},
		{
			ID:                 uuid.New(),
			OwnerEmail:         "s.kim@example.com",
			Address:            "3 Crestview Ln",
			Status:             enums.PoolStatusGood,
			ConstructionStatus: enums.ConstructionStatusManufacturing,
			Shape:              &freeform,
		},
	}
}

func (s *Seeder) buildRequests(pools []models.Pool) []models.ServiceRequest {
	technician := "marcus@absolutepools.com"
	tomorrow := s.now().UTC().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	description := "Water looks cloudy after the storm"

	return []models.ServiceRequest{
		{
			ID:          uuid.New(),
			PoolID:      pools[1].ID,
			ClientEmail: pools[1].OwnerEmail,
			ServiceType: enums.ServiceTypeChemicalCheck,
			Priority:    enums.RequestPriorityHigh,
			Status:      enums.RequestStatusPending,
			Description: &description,
		},
		{
			ID:                 uuid.New(),
			PoolID:             pools[0].ID,
			ClientEmail:        pools[0].OwnerEmail,
			ServiceType:        enums.ServiceTypeCleaning,
			Priority:           enums.RequestPriorityMedium,
			Status:             enums.RequestStatusAssigned,
			AssignedTechnician: &technician,
			ScheduledDate:      &tomorrow,
		},
	}
}
