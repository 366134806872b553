// Package hydration tracks glasses of water per day.
//
// A day is addressed by the caller's [start, end] bounds so the service and
// the device agree on where "today" begins regardless of time zone.
package hydration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

const DefaultRecentLogsLimit = 7

// ErrNoLog is returned by DecrementGlasses when the day has no log to decrement.
var ErrNoLog = errors.New("no hydration log for the day")

type Repository struct {
	db      *gorm.DB
	tracker *live.Tracker
}

func NewRepository(db *gorm.DB, tracker *live.Tracker) *Repository {
	return &Repository{db: db, tracker: tracker}
}

// GetTodayLog returns the first log dated within [start, end], or nil.
func (r *Repository) GetTodayLog(start, end time.Time) (*entities.HydrationLog, error) {
	return todayLog(r.db, start, end)
}

func (r *Repository) WatchTodayLog(ctx context.Context, start, end time.Time) <-chan live.Result[*entities.HydrationLog] {
	return live.Watch(ctx, r.tracker, func() (*entities.HydrationLog, error) {
		return r.GetTodayLog(start, end)
	}, entities.TableHydrationLogs)
}

// GetRecentLogs returns the latest days first. A non-positive limit uses DefaultRecentLogsLimit.
func (r *Repository) GetRecentLogs(limit int) ([]entities.HydrationLog, error) {
	if limit <= 0 {
		limit = DefaultRecentLogsLimit
	}
	var logs []entities.HydrationLog
	err := r.db.Order("date DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *Repository) WatchRecentLogs(ctx context.Context, limit int) <-chan live.Result[[]entities.HydrationLog] {
	return live.Watch(ctx, r.tracker, func() ([]entities.HydrationLog, error) {
		return r.GetRecentLogs(limit)
	}, entities.TableHydrationLogs)
}

func (r *Repository) Insert(log *entities.HydrationLog) (int64, error) {
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(log).Error; err != nil {
		return 0, err
	}
	r.tracker.Notify(entities.TableHydrationLogs)
	return log.ID, nil
}

func (r *Repository) Update(log *entities.HydrationLog) error {
	if err := r.db.Model(log).Select("*").Updates(log).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableHydrationLogs)
	return nil
}

// IncrementGlasses adds a glass to the day's log, creating the log dated
// start with one glass and the default goal when the day has none.
func (r *Repository) IncrementGlasses(start, end time.Time) (*entities.HydrationLog, error) {
	var result *entities.HydrationLog
	err := r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := todayLog(tx, start, end)
		if err != nil {
			return fmt.Errorf("failed to read today's log: %w", err)
		}
		if existing == nil {
			created := &entities.HydrationLog{
				Date:         start,
				GlassesCount: 1,
				Goal:         entities.DefaultHydrationGoal,
			}
			if err := tx.Create(created).Error; err != nil {
				return fmt.Errorf("failed to create today's log: %w", err)
			}
			result = created
			return nil
		}
		existing.GlassesCount++
		if err := tx.Model(existing).Update("glasses_count", existing.GlassesCount).Error; err != nil {
			return fmt.Errorf("failed to update today's log: %w", err)
		}
		result = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.tracker.Notify(entities.TableHydrationLogs)
	return result, nil
}

// DecrementGlasses removes a glass from the day's log. The count never goes
// below zero and no log is created; ErrNoLog reports a day without a log.
func (r *Repository) DecrementGlasses(start, end time.Time) (*entities.HydrationLog, error) {
	var result *entities.HydrationLog
	changed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := todayLog(tx, start, end)
		if err != nil {
			return fmt.Errorf("failed to read today's log: %w", err)
		}
		if existing == nil {
			return ErrNoLog
		}
		result = existing
		if existing.GlassesCount <= 0 {
			return nil
		}
		existing.GlassesCount--
		if err := tx.Model(existing).Update("glasses_count", existing.GlassesCount).Error; err != nil {
			return fmt.Errorf("failed to update today's log: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		r.tracker.Notify(entities.TableHydrationLogs)
	}
	return result, nil
}

func todayLog(db *gorm.DB, start, end time.Time) (*entities.HydrationLog, error) {
	var logs []entities.HydrationLog
	err := db.Where("date BETWEEN ? AND ?", start.UTC(), end.UTC()).Order("id ASC").Limit(1).Find(&logs).Error
	if err != nil || len(logs) == 0 {
		return nil, err
	}
	return &logs[0], nil
}
