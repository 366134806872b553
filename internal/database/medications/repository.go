// Package medications provides database operations for medications, their
// dose schedules and the log of dose actions.
//
// Schedules and logs reference their medication with ON DELETE CASCADE, so
// deleting a medication removes both.
package medications

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

// Deleting a medication cascades to these tables.
var medicationTables = []string{
	entities.TableMedications,
	entities.TableMedicationSchedules,
	entities.TableMedicationLogs,
}

// Repository handles medication, schedule and log database operations.
type Repository struct {
	db      *gorm.DB
	tracker *live.Tracker
}

// NewRepository creates a new medications repository.
func NewRepository(db *gorm.DB, tracker *live.Tracker) *Repository {
	return &Repository{db: db, tracker: tracker}
}

// GetAllActiveMedications returns active medications ordered by name.
func (r *Repository) GetAllActiveMedications() ([]entities.Medication, error) {
	var meds []entities.Medication
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&meds).Error
	return meds, err
}

// WatchAllActiveMedications is the reactive form of GetAllActiveMedications.
func (r *Repository) WatchAllActiveMedications(ctx context.Context) <-chan live.Result[[]entities.Medication] {
	return live.Watch(ctx, r.tracker, r.GetAllActiveMedications, entities.TableMedications)
}

// GetAllMedications returns every medication ordered by name.
func (r *Repository) GetAllMedications() ([]entities.Medication, error) {
	var meds []entities.Medication
	err := r.db.Order("name ASC").Find(&meds).Error
	return meds, err
}

func (r *Repository) WatchAllMedications(ctx context.Context) <-chan live.Result[[]entities.Medication] {
	return live.Watch(ctx, r.tracker, r.GetAllMedications, entities.TableMedications)
}

// GetMedicationByID returns gorm.ErrRecordNotFound when no row matches.
func (r *Repository) GetMedicationByID(id int64) (*entities.Medication, error) {
	var med entities.Medication
	if err := r.db.First(&med, id).Error; err != nil {
		return nil, err
	}
	return &med, nil
}

// Insert stores the medication and returns its id. A medication whose id
// already exists is overwritten in place.
func (r *Repository) Insert(med *entities.Medication) (int64, error) {
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(med).Error; err != nil {
		return 0, err
	}
	r.tracker.Notify(entities.TableMedications)
	return med.ID, nil
}

// Update overwrites the row with med's id. A missing row is left missing.
func (r *Repository) Update(med *entities.Medication) error {
	err := r.db.Model(med).Select("*").Omit("created_at").Updates(med).Error
	if err != nil {
		return err
	}
	r.tracker.Notify(entities.TableMedications)
	return nil
}

func (r *Repository) Delete(med *entities.Medication) error {
	return r.DeleteByID(med.ID)
}

// DeleteByID removes the medication with its schedules and logs.
func (r *Repository) DeleteByID(id int64) error {
	if err := r.db.Delete(&entities.Medication{}, id).Error; err != nil {
		return err
	}
	r.tracker.Notify(medicationTables...)
	return nil
}

// UpdateMedicationWithSchedules updates the medication and, when schedules is
// not nil, replaces its schedules, all in one transaction.
func (r *Repository) UpdateMedicationWithSchedules(med *entities.Medication, schedules *[]entities.MedicationSchedule) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(med).Select("*").Omit("created_at").Updates(med).Error; err != nil {
			return fmt.Errorf("failed to update medication: %w", err)
		}
		if schedules == nil {
			return nil
		}
		return replaceSchedules(tx, med.ID, *schedules)
	})
	if err != nil {
		return err
	}
	if schedules == nil {
		r.tracker.Notify(entities.TableMedications)
	} else {
		r.tracker.Notify(entities.TableMedications, entities.TableMedicationSchedules)
	}
	return nil
}

// AddMedicationWithSchedules inserts a medication and its schedules in one
// transaction. Schedule medication ids are set from the new row.
func (r *Repository) AddMedicationWithSchedules(med *entities.Medication, schedules []entities.MedicationSchedule) (int64, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(med).Error; err != nil {
			return fmt.Errorf("failed to insert medication: %w", err)
		}
		if len(schedules) == 0 {
			return nil
		}
		for i := range schedules {
			schedules[i].ID = 0
			schedules[i].MedicationID = med.ID
		}
		if err := tx.Create(&schedules).Error; err != nil {
			return fmt.Errorf("failed to insert schedules: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.tracker.Notify(entities.TableMedications, entities.TableMedicationSchedules)
	return med.ID, nil
}
