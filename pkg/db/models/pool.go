package models

import (
	"time"

	"github.com/absolutepools/aquatrack-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pool represents a client pool under service, including the construction
// attributes captured when the pool was ordered as a new build.
type Pool struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerEmail         string                   `gorm:"column:owner_email;not null;index" json:"owner_email"`
	Address            string                   `gorm:"column:address;not null" json:"address"`
	PoolType           *string                  `gorm:"column:pool_type" json:"pool_type,omitempty"`
	Size               *string                  `gorm:"column:size" json:"size,omitempty"`
	ServiceFrequency   *string                  `gorm:"column:service_frequency" json:"service_frequency,omitempty"`
	Status             enums.PoolStatus         `gorm:"column:status;type:text;not null;default:'good'" json:"status"`
	PHLevel            *float64                 `gorm:"column:ph_level" json:"ph_level,omitempty"`
	ChlorineLevel      *float64                 `gorm:"column:chlorine_level" json:"chlorine_level,omitempty"`
	WaterTemperature   *float64                 `gorm:"column:water_temperature" json:"water_temperature,omitempty"`
	LastServiceDate    *time.Time               `gorm:"column:last_service_date;type:date" json:"last_service_date,omitempty"`
	NextServiceDate    *time.Time               `gorm:"column:next_service_date;type:date" json:"next_service_date,omitempty"`
	ConstructionStatus enums.ConstructionStatus `gorm:"column:construction_status;type:text;not null;default:'planning'" json:"construction_status"`
	EstimatedPrice     *decimal.Decimal         `gorm:"column:estimated_price;type:numeric(12,2)" json:"estimated_price,omitempty"`
	Shape              *string                  `gorm:"column:shape" json:"shape,omitempty"`
	Color              *string                  `gorm:"column:color" json:"color,omitempty"`
	Depth              *string                  `gorm:"column:depth" json:"depth,omitempty"`
	SanitizationTech   *string                  `gorm:"column:sanitization_tech" json:"sanitization_tech,omitempty"`
	Notes              *string                  `gorm:"column:notes" json:"notes,omitempty"`
	CreatedDate        time.Time                `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	UpdatedDate        time.Time                `gorm:"column:updated_date;autoUpdateTime" json:"updated_date"`
}

// TableName overrides the default pluralization.
func (Pool) TableName() string {
	return "pools"
}
