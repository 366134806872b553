package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/eldercare/internal/entities"
)

func openAt(t *testing.T, path string, opts Options) *Database {
	t.Helper()
	db, err := NewDatabase(path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase_CreatesAllTables(t *testing.T) {
	db := openAt(t, filepath.Join(t.TempDir(), "test.db"), Options{})

	for _, table := range entities.DataTables() {
		assert.True(t, db.DB.Migrator().HasTable(table), "table %s should exist", table)
	}
	assert.True(t, db.DB.Migrator().HasTable(entities.TableSettings))
	assert.True(t, db.DB.Migrator().HasTable(entities.TableAuditEvents))
	assert.True(t, db.DB.Migrator().HasTable("schema_master"))

	assert.NoError(t, db.ValidateSchema())
	assert.NoError(t, db.Ping())
	assert.Len(t, db.IdentityHash(), 32)
}

func TestNewDatabase_ReopenKeepsIdentityAndData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := NewDatabase(path, Options{})
	require.NoError(t, err)
	med := entities.NewMedication("Aspirin", "100mg", entities.FrequencyDaily)
	require.NoError(t, first.DB.Create(&med).Error)
	hash := first.IdentityHash()
	require.NoError(t, first.Close())

	second := openAt(t, path, Options{})
	assert.Equal(t, hash, second.IdentityHash())

	var count int64
	require.NoError(t, second.DB.Model(&entities.Medication{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNewDatabase_ForeignKeysEnforced(t *testing.T) {
	db := openAt(t, filepath.Join(t.TempDir(), "test.db"), Options{})

	orphan := entities.MedicationSchedule{MedicationID: 999, Hour: 8}
	assert.Error(t, db.DB.Create(&orphan).Error)

	med := entities.NewMedication("Metformin", "500mg", entities.FrequencyDaily)
	require.NoError(t, db.DB.Create(&med).Error)
	schedule := entities.MedicationSchedule{MedicationID: med.ID, Hour: 8, IsEnabled: true}
	require.NoError(t, db.DB.Create(&schedule).Error)
	assert.Equal(t, entities.AllDays, schedule.DaysOfWeek)

	require.NoError(t, db.DB.Delete(&entities.Medication{}, med.ID).Error)

	var count int64
	require.NoError(t, db.DB.Model(&entities.MedicationSchedule{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "schedules should cascade with their medication")
}

func tamperIdentity(t *testing.T, path string) {
	t.Helper()
	db, err := NewDatabase(path, Options{})
	require.NoError(t, err)
	med := entities.NewMedication("Aspirin", "100mg", entities.FrequencyDaily)
	require.NoError(t, db.DB.Create(&med).Error)
	require.NoError(t, db.DB.Model(&schemaMaster{}).
		Where("id = ?", schemaMasterID).
		Update("identity_hash", "stale").Error)
	require.NoError(t, db.Close())
}

func TestNewDatabase_IdentityMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tamperIdentity(t, path)

	_, err := NewDatabase(path, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIdentityMismatch))
}

func TestNewDatabase_DestructiveFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tamperIdentity(t, path)

	db := openAt(t, path, Options{DestructiveFallback: true})

	var count int64
	require.NoError(t, db.DB.Model(&entities.Medication{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	var master schemaMaster
	require.NoError(t, db.DB.First(&master, schemaMasterID).Error)
	assert.Equal(t, db.IdentityHash(), master.IdentityHash)
	assert.Equal(t, SchemaVersion, master.Version)
}

func TestNewDatabase_SchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.DB.Exec("ALTER TABLE notes ADD COLUMN legacy TEXT").Error)
	require.NoError(t, db.Close())

	_, err = NewDatabase(path, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
	assert.Contains(t, err.Error(), "legacy")
	assert.Contains(t, err.Error(), "Expected")
}

func TestExpectedSchema_DescribesForeignKeys(t *testing.T) {
	db := openAt(t, filepath.Join(t.TempDir(), "test.db"), Options{})

	expected, err := ExpectedSchema(db.DB, &entities.MedicationLog{})
	require.NoError(t, err)
	require.Len(t, expected.Tables, 1)

	table := expected.Tables[0]
	assert.Equal(t, entities.TableMedicationLogs, table.Name)
	require.Len(t, table.ForeignKeys, 1)
	assert.Equal(t, ForeignKeyInfo{
		Column:    "medication_id",
		RefTable:  entities.TableMedications,
		RefColumn: "id",
		OnDelete:  "CASCADE",
	}, table.ForeignKeys[0])

	found, err := ReadTableInfo(db.DB, entities.TableMedicationLogs)
	require.NoError(t, err)
	assert.Equal(t, table, found)
}

func TestReadTableInfo_MissingTable(t *testing.T) {
	db := openAt(t, filepath.Join(t.TempDir(), "test.db"), Options{})

	info, err := ReadTableInfo(db.DB, "does_not_exist")
	require.NoError(t, err)
	assert.Empty(t, info.Columns)
}

func TestNewDatabase_StoresTimesInUTC(t *testing.T) {
	db := openAt(t, filepath.Join(t.TempDir(), "test.db"), Options{})

	zone := time.FixedZone("UTC+5", 5*60*60)
	at := time.Date(2026, 3, 14, 15, 30, 0, 0, zone)
	appt := entities.NewAppointment("Dentist", at)
	require.NoError(t, db.DB.Create(&appt).Error)

	var got entities.Appointment
	require.NoError(t, db.DB.First(&got, appt.ID).Error)
	assert.True(t, at.Equal(got.DateTime))
	assert.Equal(t, time.UTC, got.DateTime.Location())
}

func TestDatabase_ClearAllTables(t *testing.T) {
	db := openAt(t, filepath.Join(t.TempDir(), "test.db"), Options{})

	med := entities.NewMedication("Aspirin", "100mg", entities.FrequencyDaily)
	require.NoError(t, db.DB.Create(&med).Error)
	require.NoError(t, db.DB.Create(&entities.MedicationLog{
		MedicationID:  med.ID,
		ScheduledTime: time.Now().UTC(),
		Action:        entities.ActionTaken,
	}).Error)
	require.NoError(t, db.DB.Create(&entities.Setting{Key: "k", Value: "v"}).Error)

	changed, cancel := db.Tracker.Subscribe(entities.TableMedications)
	defer cancel()

	require.NoError(t, db.ClearAllTables())

	for _, model := range []any{&entities.Medication{}, &entities.MedicationLog{}} {
		var count int64
		require.NoError(t, db.DB.Model(model).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	}

	var settings int64
	require.NoError(t, db.DB.Model(&entities.Setting{}).Count(&settings).Error)
	assert.Equal(t, int64(1), settings, "settings are not user data")

	select {
	case <-changed:
	default:
		t.Fatal("expected a change notification")
	}
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "a.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", dsn("a.db"))
	assert.Equal(t, "a.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", dsn("a.db?mode=rwc"))
	assert.Equal(t, ":memory:?_foreign_keys=on&_busy_timeout=5000", dsn(":memory:"))
}
