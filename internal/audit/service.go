package audit

import (
	"encoding/json"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/eldercare/internal/database/audit"
	"github.com/mrlokans/eldercare/internal/entities"
)

const maxErrorLen = 500

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every LogAsync call has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogGuardianCommand records a command received from a paired guardian.
func (s *Service) LogGuardianCommand(guardianID, command, description, entityType string, entityID *int64, err error) {
	event := &entities.AuditEvent{
		GuardianID:  guardianID,
		EventType:   entities.AuditEventGuardianCommand,
		Action:      command,
		Description: truncate(description, maxErrorLen),
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxErrorLen)
	}

	s.LogAsync(event)
}

// LogPairing records a guardian pairing or unpairing.
func (s *Service) LogPairing(guardianID, guardianName string, paired bool) {
	action := "guardian_paired"
	description := "Paired with guardian " + guardianName
	if !paired {
		action = "guardian_unpaired"
		description = "Unpaired guardian " + guardianName
	}

	event := &entities.AuditEvent{
		GuardianID:  guardianID,
		EventType:   entities.AuditEventPairing,
		Action:      action,
		Description: description,
		EntityType:  "guardian",
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogAlert records a triggered alert and how many guardians it was sent to.
func (s *Service) LogAlert(alert *entities.Alert, guardians int) {
	id := alert.ID
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventAlert,
		Action:      string(alert.Type) + "_triggered",
		Description: alert.Notes,
		EntityType:  "alert",
		EntityID:    &id,
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"guardians_notified": guardians,
		"critical":           alert.Type.Critical(),
	}
	if alert.HasLocation() {
		metadata["latitude"] = *alert.Latitude
		metadata["longitude"] = *alert.Longitude
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	s.LogAsync(event)
}

// LogMedication records a dose event such as a missed dose.
func (s *Service) LogMedication(action, description string, medicationID int64) {
	id := medicationID
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventMedication,
		Action:      action,
		Description: description,
		EntityType:  "medication",
		EntityID:    &id,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogSettings records a settings change event.
func (s *Service) LogSettings(action, description string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventSettings,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(guardianID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(guardianID, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, guardianID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, guardianID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
