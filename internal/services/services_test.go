package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/eldercare/internal/database"
	"github.com/mrlokans/eldercare/internal/entities"
)

func setupServices(t *testing.T) *Services {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "services.db"), database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	at := time.Date(2026, 5, 1, 22, 30, 0, 0, time.UTC)
	svc := New(db, Options{Location: time.FixedZone("UTC+3", 3*60*60), Now: func() time.Time { return at }})
	t.Cleanup(svc.Close)
	return svc
}

func TestNew_WiresSharedServices(t *testing.T) {
	svc := setupServices(t)

	assert.Equal(t, 2, svc.Now().Day(), "now is reported in the configured zone")
	assert.Equal(t, "UTC+3", svc.Location().String())

	res, err := svc.Alerts.TriggerFall(nil, nil)
	require.NoError(t, err)
	stored, err := svc.Repos.Alerts.GetAlertByID(res.Alert.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.AlertFall, stored.Type)
}

func TestSeedElder(t *testing.T) {
	svc := setupServices(t)

	require.NoError(t, svc.SeedElder("Margaret", 84))
	name, err := svc.Repos.Settings.GetValue(entities.SettingKeyElderName, "")
	require.NoError(t, err)
	assert.Equal(t, "Margaret", name)

	require.NoError(t, svc.SeedElder("Someone Else", 0))
	name, err = svc.Repos.Settings.GetValue(entities.SettingKeyElderName, "")
	require.NoError(t, err)
	assert.Equal(t, "Margaret", name, "existing values are kept")

	age, err := svc.Repos.Settings.GetInt(entities.SettingKeyElderAge, 0)
	require.NoError(t, err)
	assert.Equal(t, 84, age)
}
