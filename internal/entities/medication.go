package entities

import (
	"time"

	"gorm.io/gorm"
)

type MedicationFrequency string

const (
	FrequencyDaily    MedicationFrequency = "DAILY"
	FrequencyWeekly   MedicationFrequency = "WEEKLY"
	FrequencyMonthly  MedicationFrequency = "MONTHLY"
	FrequencyAsNeeded MedicationFrequency = "AS_NEEDED"
)

// Valid reports whether f is one of the known frequencies.
func (f MedicationFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyAsNeeded:
		return true
	}
	return false
}

type MedicationAction string

const (
	ActionTaken   MedicationAction = "TAKEN"
	ActionSkipped MedicationAction = "SKIPPED"
	ActionSnoozed MedicationAction = "SNOOZED"
	ActionMissed  MedicationAction = "MISSED"
)

func (a MedicationAction) Valid() bool {
	switch a {
	case ActionTaken, ActionSkipped, ActionSnoozed, ActionMissed:
		return true
	}
	return false
}

type Medication struct {
	ID        int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string              `gorm:"not null" json:"name"`
	Dosage    string              `gorm:"not null" json:"dosage"`
	Frequency MedicationFrequency `gorm:"not null;type:text" json:"frequency"`
	Notes     string              `gorm:"not null" json:"notes"`
	IsActive  bool                `gorm:"not null" json:"is_active"`
	CreatedAt time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time           `gorm:"not null" json:"updated_at"`
}

func (Medication) TableName() string {
	return TableMedications
}

// NewMedication returns an active medication with the given fields.
func NewMedication(name, dosage string, frequency MedicationFrequency) Medication {
	return Medication{
		Name:      name,
		Dosage:    dosage,
		Frequency: frequency,
		IsActive:  true,
	}
}

// AllDays is the default schedule: every day, 1=Sunday through 7=Saturday.
var AllDays = []int{1, 2, 3, 4, 5, 6, 7}

type MedicationSchedule struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	MedicationID int64       `gorm:"not null;index" json:"medication_id"`
	Medication   *Medication `gorm:"foreignKey:MedicationID;constraint:OnDelete:CASCADE" json:"-"`
	Hour         int         `gorm:"not null" json:"hour"`
	Minute       int         `gorm:"not null" json:"minute"`
	DaysOfWeek   []int       `gorm:"serializer:json;type:text;not null" json:"days_of_week"`
	IsEnabled    bool        `gorm:"not null" json:"is_enabled"`
}

func (MedicationSchedule) TableName() string {
	return TableMedicationSchedules
}

// BeforeCreate fills in the every-day default for schedules created without days.
func (s *MedicationSchedule) BeforeCreate(tx *gorm.DB) error {
	if s.DaysOfWeek == nil {
		s.DaysOfWeek = append([]int(nil), AllDays...)
	}
	return nil
}

// RunsOn reports whether the schedule fires on the given weekday.
func (s MedicationSchedule) RunsOn(day time.Weekday) bool {
	want := int(day) + 1
	for _, d := range s.DaysOfWeek {
		if d == want {
			return true
		}
	}
	return false
}

// DoseTime returns the dose time on the calendar day of t, in t's location.
func (s MedicationSchedule) DoseTime(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, s.Hour, s.Minute, 0, 0, t.Location())
}

type MedicationLog struct {
	ID            int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	MedicationID  int64            `gorm:"not null;index" json:"medication_id"`
	Medication    *Medication      `gorm:"foreignKey:MedicationID;constraint:OnDelete:CASCADE" json:"-"`
	ScheduledTime time.Time        `gorm:"not null" json:"scheduled_time"`
	ActionTime    time.Time        `gorm:"not null" json:"action_time"`
	Action        MedicationAction `gorm:"not null;type:text" json:"action"`
	Notes         string           `gorm:"not null" json:"notes"`
}

func (MedicationLog) TableName() string {
	return TableMedicationLogs
}

// BeforeCreate stamps the action time when the caller left it empty.
func (l *MedicationLog) BeforeCreate(tx *gorm.DB) error {
	if l.ActionTime.IsZero() {
		l.ActionTime = tx.NowFunc()
	}
	return nil
}
