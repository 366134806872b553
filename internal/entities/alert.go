package entities

import "time"

type AlertType string

const (
	AlertSOS        AlertType = "SOS"         // critical
	AlertFall       AlertType = "FALL"        // critical
	AlertMissedMed  AlertType = "MISSED_MED"  // warning
	AlertInactivity AlertType = "INACTIVITY"  // warning
	AlertLowBattery AlertType = "LOW_BATTERY" // info
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertSOS, AlertFall, AlertMissedMed, AlertInactivity, AlertLowBattery:
		return true
	}
	return false
}

// Critical reports whether guardians should be paged immediately.
func (t AlertType) Critical() bool {
	return t == AlertSOS || t == AlertFall
}

type Alert struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Type         AlertType  `gorm:"not null;type:text" json:"type"`
	TriggeredAt  time.Time  `gorm:"not null" json:"triggered_at"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	BatteryLevel *int       `json:"battery_level,omitempty"`
	Resolved     bool       `gorm:"not null" json:"resolved"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	Notes        string     `gorm:"not null" json:"notes"`
}

func (Alert) TableName() string {
	return TableAlerts
}

// HasLocation reports whether both coordinates are present.
func (a Alert) HasLocation() bool {
	return a.Latitude != nil && a.Longitude != nil
}

type PairedGuardian struct {
	GuardianID   string    `gorm:"primaryKey;type:text" json:"guardian_id"`
	GuardianName string    `gorm:"not null" json:"guardian_name"`
	PairedAt     time.Time `gorm:"not null" json:"paired_at"`
}

func (PairedGuardian) TableName() string {
	return TablePairedGuardians
}
