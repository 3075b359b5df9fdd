package models

import (
	"time"

	"github.com/absolutepools/aquatrack-backend/pkg/types"
	"github.com/google/uuid"
)

// TechnicianFeedback is a client's one-time rating of a serviced request.
// The unique index on service_request_id enforces at most one feedback per
// request at the storage layer.
type TechnicianFeedback struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ServiceRequestID uuid.UUID            `gorm:"column:service_request_id;type:uuid;not null;uniqueIndex" json:"service_request_id"`
	TechnicianEmail  string               `gorm:"column:technician_email;not null" json:"technician_email"`
	ClientEmail      string               `gorm:"column:client_email;not null;index" json:"client_email"`
	Rating           int                  `gorm:"column:rating;not null" json:"rating"`
	Categories       types.CategoryScores `gorm:"column:categories;type:text" json:"categories"`
	FeedbackText     *string              `gorm:"column:feedback_text" json:"feedback_text,omitempty"`
	WouldRecommend   *bool                `gorm:"column:would_recommend" json:"would_recommend,omitempty"`
	CreatedDate      time.Time            `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

// TableName overrides the default pluralization.
func (TechnicianFeedback) TableName() string {
	return "technician_feedbacks"
}
