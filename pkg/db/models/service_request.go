package models

import (
	"time"

	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	"github.com/google/uuid"
)

// ServiceRequest tracks a client's ask for pool work from creation through
// completion or cancellation.
type ServiceRequest struct {
	ID                 uuid.UUID             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PoolID             uuid.UUID             `gorm:"column:pool_id;type:uuid;not null;index" json:"pool_id"`
	ClientEmail        string                `gorm:"column:client_email;not null;index" json:"client_email"`
	ServiceType        enums.ServiceType     `gorm:"column:service_type;type:text;not null" json:"service_type"`
	Priority           enums.RequestPriority `gorm:"column:priority;type:text;not null;default:'medium'" json:"priority"`
	Status             enums.RequestStatus   `gorm:"column:status;type:text;not null;default:'pending';index" json:"status"`
	AssignedTechnician *string               `gorm:"column:assigned_technician;index" json:"assigned_technician,omitempty"`
	ScheduledDate      *time.Time            `gorm:"column:scheduled_date" json:"scheduled_date,omitempty"`
	CompletionDate     *time.Time            `gorm:"column:completion_date" json:"completion_date,omitempty"`
	Description        *string               `gorm:"column:description" json:"description,omitempty"`
	CreatedDate        time.Time             `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	UpdatedDate        time.Time             `gorm:"column:updated_date;autoUpdateTime" json:"updated_date"`
}

// TableName overrides the default pluralization.
func (ServiceRequest) TableName() string {
	return "service_requests"
}
