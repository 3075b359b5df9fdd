package models

import "time"

// AppSetting stores scalar application state such as the seed marker and the
// fallback current-user pointer.
type AppSetting struct {
	Key         string    `gorm:"column:key;primaryKey" json:"key"`
	Value       string    `gorm:"column:value;not null" json:"value"`
	UpdatedDate time.Time `gorm:"column:updated_date;autoUpdateTime" json:"updated_date"`
}

// TableName overrides the default pluralization.
func (AppSetting) TableName() string {
	return "app_settings"
}

// Keys for well-known settings rows.
const (
	SettingSeedCompleted = "seed_completed"
	SettingDefaultUserID = "default_user_id"
)
