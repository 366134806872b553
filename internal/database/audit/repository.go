package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

const defaultPageSize = 50

type Repository struct {
	db      *gorm.DB
	tracker *live.Tracker
}

func NewRepository(db *gorm.DB, tracker *live.Tracker) *Repository {
	return &Repository{db: db, tracker: tracker}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := r.db.Create(event).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableAuditEvents)
	return nil
}

// GetEvents retrieves paginated audit events, most recent first.
// An empty guardianID returns events for every guardian and for the device itself.
func (r *Repository) GetEvents(guardianID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return r.page(r.db.Model(&entities.AuditEvent{}), guardianID, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (r *Repository) GetEventsByType(eventType entities.AuditEventType, guardianID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return r.page(r.db.Model(&entities.AuditEvent{}).Where("event_type = ?", eventType), guardianID, limit, offset)
}

func (r *Repository) page(query *gorm.DB, guardianID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	if guardianID != "" {
		query = query.Where("guardian_id = ?", guardianID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// GetRecentEvents retrieves audit events since a specific time.
func (r *Repository) GetRecentEvents(guardianID string, since time.Time) ([]entities.AuditEvent, error) {
	var events []entities.AuditEvent
	query := r.db.Where("created_at > ?", since.UTC()).Order("created_at DESC")
	if guardianID != "" {
		query = query.Where("guardian_id = ?", guardianID)
	}
	err := query.Find(&events).Error
	return events, err
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan.UTC()).Delete(&entities.AuditEvent{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		r.tracker.Notify(entities.TableAuditEvents)
	}
	return result.RowsAffected, nil
}

// GetEventByID retrieves a single audit event by ID.
func (r *Repository) GetEventByID(id uint) (*entities.AuditEvent, error) {
	var event entities.AuditEvent
	err := r.db.First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}
