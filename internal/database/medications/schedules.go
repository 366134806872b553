package medications

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

// GetSchedulesForMedication returns the medication's schedules by time of day.
func (r *Repository) GetSchedulesForMedication(medicationID int64) ([]entities.MedicationSchedule, error) {
	var schedules []entities.MedicationSchedule
	err := r.db.Where("medication_id = ?", medicationID).
		Order("hour ASC").Order("minute ASC").Order("id ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *Repository) WatchSchedulesForMedication(ctx context.Context, medicationID int64) <-chan live.Result[[]entities.MedicationSchedule] {
	return live.Watch(ctx, r.tracker, func() ([]entities.MedicationSchedule, error) {
		return r.GetSchedulesForMedication(medicationID)
	}, entities.TableMedicationSchedules)
}

// GetAllEnabledSchedules returns enabled schedules of every medication,
// active or not.
func (r *Repository) GetAllEnabledSchedules() ([]entities.MedicationSchedule, error) {
	var schedules []entities.MedicationSchedule
	err := r.db.Where("is_enabled = ?", true).Order("id ASC").Find(&schedules).Error
	return schedules, err
}

// GetActiveSchedules returns enabled schedules of active medications with
// the medication preloaded.
func (r *Repository) GetActiveSchedules() ([]entities.MedicationSchedule, error) {
	var schedules []entities.MedicationSchedule
	active := r.db.Model(&entities.Medication{}).Select("id").Where("is_active = ?", true)
	err := r.db.Preload("Medication").
		Where("is_enabled = ? AND medication_id IN (?)", true, active).
		Order("id ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *Repository) GetScheduleByID(id int64) (*entities.MedicationSchedule, error) {
	var schedule entities.MedicationSchedule
	if err := r.db.First(&schedule, id).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

// InsertSchedule stores the schedule and returns its id.
func (r *Repository) InsertSchedule(schedule *entities.MedicationSchedule) (int64, error) {
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(schedule).Error; err != nil {
		return 0, err
	}
	r.tracker.Notify(entities.TableMedicationSchedules)
	return schedule.ID, nil
}

// InsertSchedules stores every schedule in one transaction.
func (r *Repository) InsertSchedules(schedules []entities.MedicationSchedule) error {
	if len(schedules) == 0 {
		return nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&schedules).Error
	})
	if err != nil {
		return err
	}
	r.tracker.Notify(entities.TableMedicationSchedules)
	return nil
}

func (r *Repository) UpdateSchedule(schedule *entities.MedicationSchedule) error {
	if err := r.db.Model(schedule).Select("*").Updates(schedule).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableMedicationSchedules)
	return nil
}

func (r *Repository) DeleteSchedule(schedule *entities.MedicationSchedule) error {
	if err := r.db.Delete(&entities.MedicationSchedule{}, schedule.ID).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableMedicationSchedules)
	return nil
}

func (r *Repository) DeleteAllSchedulesForMedication(medicationID int64) error {
	err := r.db.Where("medication_id = ?", medicationID).Delete(&entities.MedicationSchedule{}).Error
	if err != nil {
		return err
	}
	r.tracker.Notify(entities.TableMedicationSchedules)
	return nil
}

// ReplaceSchedules swaps the medication's schedules for the given ones in
// one transaction.
func (r *Repository) ReplaceSchedules(medicationID int64, schedules []entities.MedicationSchedule) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return replaceSchedules(tx, medicationID, schedules)
	})
	if err != nil {
		return err
	}
	r.tracker.Notify(entities.TableMedicationSchedules)
	return nil
}

func replaceSchedules(tx *gorm.DB, medicationID int64, schedules []entities.MedicationSchedule) error {
	if err := tx.Where("medication_id = ?", medicationID).Delete(&entities.MedicationSchedule{}).Error; err != nil {
		return fmt.Errorf("failed to delete schedules: %w", err)
	}
	if len(schedules) == 0 {
		return nil
	}
	for i := range schedules {
		schedules[i].ID = 0
		schedules[i].MedicationID = medicationID
	}
	if err := tx.Create(&schedules).Error; err != nil {
		return fmt.Errorf("failed to insert schedules: %w", err)
	}
	return nil
}
