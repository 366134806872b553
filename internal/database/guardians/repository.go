// Package guardians stores the guardians paired with this device.
package guardians

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

type Repository struct {
	db      *gorm.DB
	tracker *live.Tracker
}

func NewRepository(db *gorm.DB, tracker *live.Tracker) *Repository {
	return &Repository{db: db, tracker: tracker}
}

// GetAllGuardians returns guardians, most recently paired first.
func (r *Repository) GetAllGuardians() ([]entities.PairedGuardian, error) {
	var guardians []entities.PairedGuardian
	err := r.db.Order("paired_at DESC").Find(&guardians).Error
	return guardians, err
}

func (r *Repository) WatchAllGuardians(ctx context.Context) <-chan live.Result[[]entities.PairedGuardian] {
	return live.Watch(ctx, r.tracker, r.GetAllGuardians, entities.TablePairedGuardians)
}

func (r *Repository) GetGuardianByID(guardianID string) (*entities.PairedGuardian, error) {
	var guardian entities.PairedGuardian
	if err := r.db.Where("guardian_id = ?", guardianID).First(&guardian).Error; err != nil {
		return nil, err
	}
	return &guardian, nil
}

func (r *Repository) GetGuardianCount() (int, error) {
	var count int64
	err := r.db.Model(&entities.PairedGuardian{}).Count(&count).Error
	return int(count), err
}

func (r *Repository) WatchGuardianCount(ctx context.Context) <-chan live.Result[int] {
	return live.Watch(ctx, r.tracker, r.GetGuardianCount, entities.TablePairedGuardians)
}

// Insert pairs the guardian, replacing an existing pairing with the same id.
// A zero PairedAt is set to now.
func (r *Repository) Insert(guardian *entities.PairedGuardian) error {
	if guardian.PairedAt.IsZero() {
		guardian.PairedAt = r.db.NowFunc()
	}
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(guardian).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TablePairedGuardians)
	return nil
}

func (r *Repository) Update(guardian *entities.PairedGuardian) error {
	if err := r.db.Model(guardian).Select("*").Updates(guardian).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TablePairedGuardians)
	return nil
}

func (r *Repository) Delete(guardian *entities.PairedGuardian) error {
	return r.DeleteByID(guardian.GuardianID)
}

func (r *Repository) DeleteByID(guardianID string) error {
	if err := r.db.Where("guardian_id = ?", guardianID).Delete(&entities.PairedGuardian{}).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TablePairedGuardians)
	return nil
}

// DeleteAll unpairs every guardian.
func (r *Repository) DeleteAll() error {
	if err := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.PairedGuardian{}).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TablePairedGuardians)
	return nil
}
