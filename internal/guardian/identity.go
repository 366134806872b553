package guardian

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mrlokans/eldercare/internal/database/settings"
	"github.com/mrlokans/eldercare/internal/entities"
)

const elderIDPrefix = "elder_"

// Identity owns the stable id this device reports to guardians. The id is
// generated once and kept in the settings table.
type Identity struct {
	settings *settings.Repository

	mu      sync.Mutex
	elderID string
}

func NewIdentity(settings *settings.Repository) *Identity {
	return &Identity{settings: settings}
}

// ElderID returns the stored id, creating it on first use.
func (i *Identity) ElderID() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.elderID != "" {
		return i.elderID, nil
	}

	id, err := i.settings.GetValue(entities.SettingKeyElderID, "")
	if err != nil {
		return "", fmt.Errorf("failed to read elder id: %w", err)
	}
	if id == "" {
		id = elderIDPrefix + uuid.NewString()
		if err := i.settings.SetSetting(entities.SettingKeyElderID, id); err != nil {
			return "", fmt.Errorf("failed to store elder id: %w", err)
		}
	}

	i.elderID = id
	return id, nil
}
