package entities

import "time"

const DefaultReminderMinutesBefore = 30

type Appointment struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title                 string    `gorm:"not null" json:"title"`
	DateTime              time.Time `gorm:"not null" json:"date_time"`
	Location              string    `gorm:"not null" json:"location"`
	Description           string    `gorm:"not null" json:"description"`
	ReminderMinutesBefore int       `gorm:"not null" json:"reminder_minutes_before"`
	IsReminderEnabled     bool      `gorm:"not null" json:"is_reminder_enabled"`
	CreatedAt             time.Time `gorm:"not null" json:"created_at"`
}

func (Appointment) TableName() string {
	return TableAppointments
}

// NewAppointment returns an appointment with the reminder enabled at the default lead time.
func NewAppointment(title string, at time.Time) Appointment {
	return Appointment{
		Title:                 title,
		DateTime:              at,
		ReminderMinutesBefore: DefaultReminderMinutesBefore,
		IsReminderEnabled:     true,
	}
}

// ReminderAt returns when the reminder should fire.
func (a Appointment) ReminderAt() time.Time {
	return a.DateTime.Add(-time.Duration(a.ReminderMinutesBefore) * time.Minute)
}

type Note struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Note) TableName() string {
	return TableNotes
}
