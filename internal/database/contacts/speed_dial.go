package contacts

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

// ValidatePosition checks that position is a speed dial slot.
func ValidatePosition(position int) error {
	if position < 0 || position >= entities.MaxSpeedDialSlots {
		return fmt.Errorf("speed dial position must be between 0 and %d, got %d", entities.MaxSpeedDialSlots-1, position)
	}
	return nil
}

// GetAllSpeedDialContacts returns speed dial contacts ordered by position.
func (r *Repository) GetAllSpeedDialContacts() ([]entities.SpeedDialContact, error) {
	var contacts []entities.SpeedDialContact
	err := r.db.Order("position ASC").Order("id ASC").Find(&contacts).Error
	return contacts, err
}

func (r *Repository) WatchAllSpeedDialContacts(ctx context.Context) <-chan live.Result[[]entities.SpeedDialContact] {
	return live.Watch(ctx, r.tracker, r.GetAllSpeedDialContacts, entities.TableSpeedDialContacts)
}

// GetContactAtPosition returns the contact in the slot, or nil when empty.
func (r *Repository) GetContactAtPosition(position int) (*entities.SpeedDialContact, error) {
	var contacts []entities.SpeedDialContact
	err := r.db.Where("position = ?", position).Limit(1).Find(&contacts).Error
	if err != nil || len(contacts) == 0 {
		return nil, err
	}
	return &contacts[0], nil
}

func (r *Repository) GetSpeedDialContactByID(id int64) (*entities.SpeedDialContact, error) {
	var contact entities.SpeedDialContact
	if err := r.db.First(&contact, id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *Repository) InsertSpeedDial(contact *entities.SpeedDialContact) (int64, error) {
	if err := ValidatePosition(contact.Position); err != nil {
		return 0, err
	}
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(contact).Error; err != nil {
		return 0, err
	}
	r.tracker.Notify(entities.TableSpeedDialContacts)
	return contact.ID, nil
}

func (r *Repository) UpdateSpeedDial(contact *entities.SpeedDialContact) error {
	if err := ValidatePosition(contact.Position); err != nil {
		return err
	}
	if err := r.db.Model(contact).Select("*").Updates(contact).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableSpeedDialContacts)
	return nil
}

func (r *Repository) DeleteSpeedDial(contact *entities.SpeedDialContact) error {
	return r.DeleteSpeedDialByID(contact.ID)
}

// DeleteAtPosition empties the slot.
func (r *Repository) DeleteAtPosition(position int) error {
	if err := r.db.Where("position = ?", position).Delete(&entities.SpeedDialContact{}).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableSpeedDialContacts)
	return nil
}

func (r *Repository) DeleteSpeedDialByID(id int64) error {
	if err := r.db.Delete(&entities.SpeedDialContact{}, id).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableSpeedDialContacts)
	return nil
}
