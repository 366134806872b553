// Package profile stores the single medical profile row.
package profile

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

// GetProfile returns the profile, or nil when none has been saved.
func (r *Repository) GetProfile() (*entities.MedicalProfile, error) {
	var profiles []entities.MedicalProfile
	err := r.db.Where("id = ?", entities.ProfileID).Limit(1).Find(&profiles).Error
	if err != nil || len(profiles) == 0 {
		return nil, err
	}
	return &profiles[0], nil
}

func (r *Repository) WatchProfile(ctx context.Context) <-chan live.Result[*entities.MedicalProfile] {
	return live.Watch(ctx, r.tracker, r.GetProfile, entities.TableMedicalProfile)
}

// Insert writes the profile under its own id, replacing any row with that id.
// A profile without an id is the profile row.
func (r *Repository) Insert(p *entities.MedicalProfile) error {
	defaultID(p)
	if err := upsert(r.db, p); err != nil {
		return err
	}
	r.tracker.Notify(entities.TableMedicalProfile)
	return nil
}

func (r *Repository) Update(p *entities.MedicalProfile) error {
	defaultID(p)
	if err := r.db.Model(p).Select("*").Updates(p).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableMedicalProfile)
	return nil
}

// SaveProfile stores p as the profile row regardless of its id.
func (r *Repository) SaveProfile(p *entities.MedicalProfile) error {
	p.ID = entities.ProfileID
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return upsert(tx, p)
	})
	if err != nil {
		return err
	}
	r.tracker.Notify(entities.TableMedicalProfile)
	return nil
}

func defaultID(p *entities.MedicalProfile) {
	if p.ID == 0 {
		p.ID = entities.ProfileID
	}
}

func upsert(db *gorm.DB, p *entities.MedicalProfile) error {
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(p).Error
}
