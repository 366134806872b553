// Package contacts provides database operations for emergency contacts and
// the speed dial grid.
package contacts

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

// Repository handles emergency and speed dial contact operations.
type Repository struct {
	db      *gorm.DB
	tracker *live.Tracker
}

// NewRepository creates a new contacts repository.
func NewRepository(db *gorm.DB, tracker *live.Tracker) *Repository {
	return &Repository{db: db, tracker: tracker}
}

// GetAllContacts returns emergency contacts in display order.
func (r *Repository) GetAllContacts() ([]entities.EmergencyContact, error) {
	var contacts []entities.EmergencyContact
	err := r.db.Order("sort_order ASC").Order("id ASC").Find(&contacts).Error
	return contacts, err
}

func (r *Repository) WatchAllContacts(ctx context.Context) <-chan live.Result[[]entities.EmergencyContact] {
	return live.Watch(ctx, r.tracker, r.GetAllContacts, entities.TableEmergencyContacts)
}

// GetPrimaryContact returns the primary contact, or nil when none is set.
func (r *Repository) GetPrimaryContact() (*entities.EmergencyContact, error) {
	var contacts []entities.EmergencyContact
	err := r.db.Where("is_primary = ?", true).Limit(1).Find(&contacts).Error
	if err != nil || len(contacts) == 0 {
		return nil, err
	}
	return &contacts[0], nil
}

func (r *Repository) GetContactByID(id int64) (*entities.EmergencyContact, error) {
	var contact entities.EmergencyContact
	if err := r.db.First(&contact, id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// Insert stores the contact and returns its id.
func (r *Repository) Insert(contact *entities.EmergencyContact) (int64, error) {
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(contact).Error; err != nil {
		return 0, err
	}
	r.tracker.Notify(entities.TableEmergencyContacts)
	return contact.ID, nil
}

func (r *Repository) Update(contact *entities.EmergencyContact) error {
	if err := r.db.Model(contact).Select("*").Updates(contact).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableEmergencyContacts)
	return nil
}

func (r *Repository) Delete(contact *entities.EmergencyContact) error {
	return r.DeleteByID(contact.ID)
}

func (r *Repository) DeleteByID(id int64) error {
	if err := r.db.Delete(&entities.EmergencyContact{}, id).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableEmergencyContacts)
	return nil
}

// ClearAllPrimary removes the primary flag from every contact.
func (r *Repository) ClearAllPrimary() error {
	if err := clearAllPrimary(r.db); err != nil {
		return err
	}
	r.tracker.Notify(entities.TableEmergencyContacts)
	return nil
}

// SetPrimaryContact makes id the only primary contact. Both steps run in one
// transaction, so readers never see two primaries or a half-applied switch.
// An unknown id leaves every contact non-primary.
func (r *Repository) SetPrimaryContact(id int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := clearAllPrimary(tx); err != nil {
			return fmt.Errorf("failed to clear primary contacts: %w", err)
		}
		err := tx.Model(&entities.EmergencyContact{}).
			Where("id = ?", id).
			Update("is_primary", true).Error
		if err != nil {
			return fmt.Errorf("failed to set primary contact %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.tracker.Notify(entities.TableEmergencyContacts)
	return nil
}

func clearAllPrimary(db *gorm.DB) error {
	return db.Model(&entities.EmergencyContact{}).
		Where("is_primary = ?", true).
		Update("is_primary", false).Error
}
