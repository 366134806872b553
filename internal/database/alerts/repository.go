package alerts

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

const DefaultRecentAlertsLimit = 50

type Repository struct {
	db      *gorm.DB
	tracker *live.Tracker
}

func NewRepository(db *gorm.DB, tracker *live.Tracker) *Repository {
	return &Repository{db: db, tracker: tracker}
}

// GetAllAlerts returns every alert, newest first.
func (r *Repository) GetAllAlerts() ([]entities.Alert, error) {
	var alerts []entities.Alert
	err := r.newestFirst(r.db).Find(&alerts).Error
	return alerts, err
}

func (r *Repository) WatchAllAlerts(ctx context.Context) <-chan live.Result[[]entities.Alert] {
	return live.Watch(ctx, r.tracker, r.GetAllAlerts, entities.TableAlerts)
}

// GetRecentAlerts returns the latest alerts. A non-positive limit uses DefaultRecentAlertsLimit.
func (r *Repository) GetRecentAlerts(limit int) ([]entities.Alert, error) {
	if limit <= 0 {
		limit = DefaultRecentAlertsLimit
	}
	var alerts []entities.Alert
	err := r.newestFirst(r.db).Limit(limit).Find(&alerts).Error
	return alerts, err
}

func (r *Repository) WatchRecentAlerts(ctx context.Context, limit int) <-chan live.Result[[]entities.Alert] {
	return live.Watch(ctx, r.tracker, func() ([]entities.Alert, error) {
		return r.GetRecentAlerts(limit)
	}, entities.TableAlerts)
}

func (r *Repository) GetUnresolvedAlerts() ([]entities.Alert, error) {
	var alerts []entities.Alert
	err := r.newestFirst(r.db.Where("resolved = ?", false)).Find(&alerts).Error
	return alerts, err
}

func (r *Repository) WatchUnresolvedAlerts(ctx context.Context) <-chan live.Result[[]entities.Alert] {
	return live.Watch(ctx, r.tracker, r.GetUnresolvedAlerts, entities.TableAlerts)
}

func (r *Repository) GetAlertsByType(alertType entities.AlertType) ([]entities.Alert, error) {
	var alerts []entities.Alert
	err := r.newestFirst(r.db.Where("type = ?", alertType)).Find(&alerts).Error
	return alerts, err
}

func (r *Repository) WatchAlertsByType(ctx context.Context, alertType entities.AlertType) <-chan live.Result[[]entities.Alert] {
	return live.Watch(ctx, r.tracker, func() ([]entities.Alert, error) {
		return r.GetAlertsByType(alertType)
	}, entities.TableAlerts)
}

// GetAlertsBetweenDates returns alerts triggered within [start, end].
func (r *Repository) GetAlertsBetweenDates(start, end time.Time) ([]entities.Alert, error) {
	var alerts []entities.Alert
	err := r.newestFirst(r.db.Where("triggered_at BETWEEN ? AND ?", start.UTC(), end.UTC())).Find(&alerts).Error
	return alerts, err
}

func (r *Repository) WatchAlertsBetweenDates(ctx context.Context, start, end time.Time) <-chan live.Result[[]entities.Alert] {
	return live.Watch(ctx, r.tracker, func() ([]entities.Alert, error) {
		return r.GetAlertsBetweenDates(start, end)
	}, entities.TableAlerts)
}

func (r *Repository) GetAlertByID(id int64) (*entities.Alert, error) {
	var alert entities.Alert
	if err := r.db.First(&alert, id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// Insert stores the alert and returns its id. A zero TriggeredAt is set to now.
func (r *Repository) Insert(alert *entities.Alert) (int64, error) {
	if alert.TriggeredAt.IsZero() {
		alert.TriggeredAt = r.db.NowFunc()
	}
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(alert).Error; err != nil {
		return 0, err
	}
	r.tracker.Notify(entities.TableAlerts)
	return alert.ID, nil
}

func (r *Repository) Update(alert *entities.Alert) error {
	if err := r.db.Model(alert).Select("*").Updates(alert).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableAlerts)
	return nil
}

func (r *Repository) Delete(alert *entities.Alert) error {
	if err := r.db.Delete(&entities.Alert{}, alert.ID).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableAlerts)
	return nil
}

// ResolveAlert marks the alert resolved at the given time.
func (r *Repository) ResolveAlert(id int64, at time.Time) error {
	at = at.UTC()
	err := r.db.Model(&entities.Alert{}).Where("id = ?", id).Updates(map[string]any{
		"resolved":    true,
		"resolved_at": at,
	}).Error
	if err != nil {
		return err
	}
	r.tracker.Notify(entities.TableAlerts)
	return nil
}

// HasRecentAlert returns an alert of the type triggered after since, or nil.
func (r *Repository) HasRecentAlert(alertType entities.AlertType, since time.Time) (*entities.Alert, error) {
	var alerts []entities.Alert
	err := r.db.Where("type = ? AND triggered_at > ?", alertType, since.UTC()).
		Order("triggered_at DESC").
		Limit(1).
		Find(&alerts).Error
	if err != nil || len(alerts) == 0 {
		return nil, err
	}
	return &alerts[0], nil
}

// DeleteResolvedBefore removes resolved alerts triggered before cutoff.
// Returns the number of deleted alerts.
func (r *Repository) DeleteResolvedBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("resolved = ? AND triggered_at < ?", true, cutoff.UTC()).Delete(&entities.Alert{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		r.tracker.Notify(entities.TableAlerts)
	}
	return result.RowsAffected, nil
}

func (r *Repository) newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("triggered_at DESC").Order("id DESC")
}
