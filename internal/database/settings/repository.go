// Package settings provides database operations for key/value settings.
//
// # Usage
//
//	repo := settings.NewRepository(db.DB, db.Tracker)
//	name, err := repo.GetValue(entities.SettingKeyElderName, "")
package settings

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db      *gorm.DB
	tracker *live.Tracker
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB, tracker *live.Tracker) *Repository {
	return &Repository{db: db, tracker: tracker}
}

// GetSetting retrieves a setting by key.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// GetValue returns the setting value, or fallback when the key is unset.
func (r *Repository) GetValue(key, fallback string) (string, error) {
	setting, err := r.GetSetting(key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// GetInt returns the setting parsed as an integer, or fallback when unset or malformed.
func (r *Repository) GetInt(key string, fallback int) (int, error) {
	value, err := r.GetValue(key, "")
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(value)
	if convErr != nil {
		return fallback, nil
	}
	return n, nil
}

// SetSetting creates or updates a setting.
func (r *Repository) SetSetting(key, value string) error {
	setting := entities.Setting{Key: key, Value: value}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return err
	}
	r.tracker.Notify(entities.TableSettings)
	return nil
}

// DeleteSetting removes a setting by key.
func (r *Repository) DeleteSetting(key string) error {
	if err := r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableSettings)
	return nil
}
