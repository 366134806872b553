package entities

import (
	"fmt"
	"time"
)

// ProfileID is the primary key of the single medical profile row.
const ProfileID int64 = 1

const DefaultHydrationGoal = 8

type MedicalProfile struct {
	ID                int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	BloodType         string    `gorm:"not null" json:"blood_type"`
	Allergies         string    `gorm:"not null" json:"allergies"`
	MedicalConditions string    `gorm:"not null" json:"medical_conditions"`
	EmergencyNotes    string    `gorm:"not null" json:"emergency_notes"`
	DoctorName        string    `gorm:"not null" json:"doctor_name"`
	DoctorPhone       string    `gorm:"not null" json:"doctor_phone"`
	InsuranceInfo     string    `gorm:"not null" json:"insurance_info"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}

func (MedicalProfile) TableName() string {
	return TableMedicalProfile
}

type HydrationLog struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Date         time.Time `gorm:"not null" json:"date"`
	GlassesCount int       `gorm:"not null" json:"glasses_count"`
	Goal         int       `gorm:"not null" json:"goal"`
}

func (HydrationLog) TableName() string {
	return TableHydrationLogs
}

// GoalReached reports whether today's glasses meet the goal.
func (h HydrationLog) GoalReached() bool {
	return h.Goal > 0 && h.GlassesCount >= h.Goal
}

type HealthCheckIn struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Date         time.Time `gorm:"not null" json:"date"`
	Mood         *int      `json:"mood,omitempty"`          // 1-5
	PainLevel    *int      `json:"pain_level,omitempty"`    // 1-10
	SleepQuality *int      `json:"sleep_quality,omitempty"` // 1-5
	Symptoms     []string  `gorm:"serializer:json;type:text;not null" json:"symptoms"`
	Notes        string    `gorm:"not null" json:"notes"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (HealthCheckIn) TableName() string {
	return TableHealthCheckIns
}

// Validate checks the optional scores against their scales.
func (c HealthCheckIn) Validate() error {
	if err := checkScale("mood", c.Mood, 1, 5); err != nil {
		return err
	}
	if err := checkScale("pain_level", c.PainLevel, 1, 10); err != nil {
		return err
	}
	return checkScale("sleep_quality", c.SleepQuality, 1, 5)
}

func checkScale(name string, v *int, lo, hi int) error {
	if v == nil {
		return nil
	}
	if *v < lo || *v > hi {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, lo, hi, *v)
	}
	return nil
}
