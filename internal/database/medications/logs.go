package medications

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

const DefaultRecentLogsLimit = 50

// GetLogsForMedication returns the medication's log, newest action first.
func (r *Repository) GetLogsForMedication(medicationID int64) ([]entities.MedicationLog, error) {
	var logs []entities.MedicationLog
	err := r.db.Where("medication_id = ?", medicationID).Order("action_time DESC").Find(&logs).Error
	return logs, err
}

func (r *Repository) WatchLogsForMedication(ctx context.Context, medicationID int64) <-chan live.Result[[]entities.MedicationLog] {
	return live.Watch(ctx, r.tracker, func() ([]entities.MedicationLog, error) {
		return r.GetLogsForMedication(medicationID)
	}, entities.TableMedicationLogs)
}

// GetLogsBetweenDates returns logs whose action time is within [start, end].
func (r *Repository) GetLogsBetweenDates(start, end time.Time) ([]entities.MedicationLog, error) {
	var logs []entities.MedicationLog
	err := r.db.Where("action_time BETWEEN ? AND ?", start.UTC(), end.UTC()).
		Order("action_time DESC").
		Find(&logs).Error
	return logs, err
}

func (r *Repository) WatchLogsBetweenDates(ctx context.Context, start, end time.Time) <-chan live.Result[[]entities.MedicationLog] {
	return live.Watch(ctx, r.tracker, func() ([]entities.MedicationLog, error) {
		return r.GetLogsBetweenDates(start, end)
	}, entities.TableMedicationLogs)
}

// GetRecentLogs returns the latest logs. A non-positive limit uses DefaultRecentLogsLimit.
func (r *Repository) GetRecentLogs(limit int) ([]entities.MedicationLog, error) {
	if limit <= 0 {
		limit = DefaultRecentLogsLimit
	}
	var logs []entities.MedicationLog
	err := r.db.Order("action_time DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *Repository) WatchRecentLogs(ctx context.Context, limit int) <-chan live.Result[[]entities.MedicationLog] {
	return live.Watch(ctx, r.tracker, func() ([]entities.MedicationLog, error) {
		return r.GetRecentLogs(limit)
	}, entities.TableMedicationLogs)
}

// FindLogForDose returns the log recorded for a scheduled dose, or nil.
func (r *Repository) FindLogForDose(medicationID int64, scheduledTime time.Time) (*entities.MedicationLog, error) {
	var logs []entities.MedicationLog
	err := r.db.Where("medication_id = ? AND scheduled_time = ?", medicationID, scheduledTime.UTC()).
		Limit(1).
		Find(&logs).Error
	if err != nil || len(logs) == 0 {
		return nil, err
	}
	return &logs[0], nil
}

// InsertLog stores the log entry and returns its id.
func (r *Repository) InsertLog(entry *entities.MedicationLog) (int64, error) {
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(entry).Error; err != nil {
		return 0, err
	}
	r.tracker.Notify(entities.TableMedicationLogs)
	return entry.ID, nil
}

func (r *Repository) DeleteLog(entry *entities.MedicationLog) error {
	if err := r.db.Delete(&entities.MedicationLog{}, entry.ID).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableMedicationLogs)
	return nil
}

func (r *Repository) DeleteAllLogsForMedication(medicationID int64) error {
	if err := r.db.Where("medication_id = ?", medicationID).Delete(&entities.MedicationLog{}).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableMedicationLogs)
	return nil
}
