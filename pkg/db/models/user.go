package models

import (
	"time"

	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity. Technician-only fields stay
// nil for admins and pool owners.
type User struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email          string                  `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	FullName       string                  `gorm:"column:full_name;not null" json:"full_name"`
	Role           enums.UserRole          `gorm:"column:role;type:text;not null" json:"role"`
	Status         *enums.TechnicianStatus `gorm:"column:status;type:text" json:"status,omitempty"`
	TechnicianZone *string                 `gorm:"column:technician_zone" json:"technician_zone,omitempty"`
	CreatedDate    time.Time               `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	UpdatedDate    time.Time               `gorm:"column:updated_date;autoUpdateTime" json:"updated_date"`
}

// TableName overrides the default pluralization.
func (User) TableName() string {
	return "users"
}
