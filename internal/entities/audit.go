package entities

import "time"

type AuditEventType string

const (
	AuditEventGuardianCommand AuditEventType = "guardian_command"
	AuditEventPairing         AuditEventType = "pairing"
	AuditEventAlert           AuditEventType = "alert"
	AuditEventMedication      AuditEventType = "medication"
	AuditEventSettings        AuditEventType = "settings"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	GuardianID  string         `gorm:"index;size:100" json:"guardian_id,omitempty"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`      // e.g. "ADD_MEDICATION", "sos_triggered"
	Description string         `gorm:"size:500" json:"description"` // Human-readable summary
	EntityType  string         `gorm:"size:50" json:"entity_type"`  // "medication", "alert", etc.
	EntityID    *int64         `gorm:"index" json:"entity_id,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return TableAuditEvents
}
