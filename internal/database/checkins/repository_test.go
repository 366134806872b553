package checkins

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/eldercare/internal/database"
	"github.com/mrlokans/eldercare/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "checkins.db"), database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB, db.Tracker)
}

func intPtr(v int) *int {
	return &v
}

var day = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func TestRepository_InsertAndGet(t *testing.T) {
	repo := setupTestDB(t)

	id, err := repo.Insert(&entities.HealthCheckIn{
		Date:      day.Add(9 * time.Hour),
		Mood:      intPtr(4),
		PainLevel: intPtr(2),
		Symptoms:  []string{"headache", "dizziness"},
	})
	require.NoError(t, err)

	got, err := repo.GetCheckInByID(id)
	require.NoError(t, err)
	require.NotNil(t, got.Mood)
	assert.Equal(t, 4, *got.Mood)
	assert.Nil(t, got.SleepQuality)
	assert.Equal(t, []string{"headache", "dizziness"}, got.Symptoms)

	_, err = repo.GetCheckInByID(id + 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_Insert_Validation(t *testing.T) {
	repo := setupTestDB(t)

	tests := []struct {
		name    string
		checkIn entities.HealthCheckIn
		wantErr bool
	}{
		{name: "all unset", checkIn: entities.HealthCheckIn{Date: day}},
		{name: "max values", checkIn: entities.HealthCheckIn{Date: day, Mood: intPtr(5), PainLevel: intPtr(10), SleepQuality: intPtr(5)}},
		{name: "mood too high", checkIn: entities.HealthCheckIn{Date: day, Mood: intPtr(6)}, wantErr: true},
		{name: "pain zero", checkIn: entities.HealthCheckIn{Date: day, PainLevel: intPtr(0)}, wantErr: true},
		{name: "sleep too high", checkIn: entities.HealthCheckIn{Date: day, SleepQuality: intPtr(11)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkIn := tt.checkIn
			_, err := repo.Insert(&checkIn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepository_Insert_EmptySymptoms(t *testing.T) {
	repo := setupTestDB(t)

	id, err := repo.Insert(&entities.HealthCheckIn{Date: day})
	require.NoError(t, err)

	got, err := repo.GetCheckInByID(id)
	require.NoError(t, err)
	assert.Empty(t, got.Symptoms)
}

func TestRepository_GetCheckInForDate_HalfOpen(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.Insert(&entities.HealthCheckIn{Date: day.Add(24 * time.Hour), Notes: "next day"})
	require.NoError(t, err)

	got, err := repo.GetCheckInForDate(day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, got, "end of day is exclusive")

	_, err = repo.Insert(&entities.HealthCheckIn{Date: day, Notes: "today"})
	require.NoError(t, err)

	got, err = repo.GetCheckInForDate(day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "today", got.Notes)
}

func TestRepository_Lists(t *testing.T) {
	repo := setupTestDB(t)

	for i := 0; i < 5; i++ {
		_, err := repo.Insert(&entities.HealthCheckIn{Date: day.AddDate(0, 0, -i)})
		require.NoError(t, err)
	}

	all, err := repo.GetAllCheckIns()
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.True(t, all[0].Date.Equal(day))

	recent, err := repo.GetRecentCheckIns(2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	between, err := repo.GetCheckInsBetweenDates(day.AddDate(0, 0, -2), day)
	require.NoError(t, err)
	assert.Len(t, between, 3)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	repo := setupTestDB(t)

	id, err := repo.Insert(&entities.HealthCheckIn{Date: day, Mood: intPtr(2)})
	require.NoError(t, err)
	checkIn, err := repo.GetCheckInByID(id)
	require.NoError(t, err)

	checkIn.Mood = nil
	checkIn.Notes = "skipped mood"
	require.NoError(t, repo.Update(checkIn))

	got, err := repo.GetCheckInByID(id)
	require.NoError(t, err)
	assert.Nil(t, got.Mood, "nil clears the column")
	assert.Equal(t, "skipped mood", got.Notes)

	got.PainLevel = intPtr(11)
	assert.Error(t, repo.Update(got))

	require.NoError(t, repo.DeleteByID(id))
	all, err := repo.GetAllCheckIns()
	require.NoError(t, err)
	assert.Empty(t, all)
}
