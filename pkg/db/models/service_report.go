package models

import (
	"time"

	"github.com/absolutepools/aquatrack-backend/pkg/types"
	"github.com/google/uuid"
)

// ServiceReport is the technician's record of a completed job. Reports are
// written once and never updated.
type ServiceReport struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ServiceRequestID uuid.UUID              `gorm:"column:service_request_id;type:uuid;not null;index" json:"service_request_id"`
	PoolID           uuid.UUID              `gorm:"column:pool_id;type:uuid;not null;index" json:"pool_id"`
	TechnicianEmail  string                 `gorm:"column:technician_email;not null" json:"technician_email"`
	WorkPerformed    string                 `gorm:"column:work_performed;not null" json:"work_performed"`
	IssuesFound      *string                `gorm:"column:issues_found" json:"issues_found,omitempty"`
	Recommendations  *string                `gorm:"column:recommendations" json:"recommendations,omitempty"`
	WaterTestResults types.WaterTestResults `gorm:"column:water_test_results;type:text" json:"water_test_results"`
	BeforePhotos     types.StringList       `gorm:"column:before_photos;type:text" json:"before_photos"`
	AfterPhotos      types.StringList       `gorm:"column:after_photos;type:text" json:"after_photos"`
	TimeStarted      *time.Time             `gorm:"column:time_started" json:"time_started,omitempty"`
	TimeCompleted    time.Time              `gorm:"column:time_completed;not null" json:"time_completed"`
	CreatedDate      time.Time              `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

// TableName overrides the default pluralization.
func (ServiceReport) TableName() string {
	return "service_reports"
}
