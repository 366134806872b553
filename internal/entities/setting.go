package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return TableSettings
}

// Known setting keys
const (
	// Elder identity, reported to paired guardians
	SettingKeyElderID   = "elder_id"
	SettingKeyElderName = "elder_name"
	SettingKeyElderAge  = "elder_age"

	// Device state last reported by the launcher
	SettingKeyBatteryLevel = "battery_level"
	SettingKeyLastActivity = "last_activity_at"
)
