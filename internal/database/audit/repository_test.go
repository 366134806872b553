package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/eldercare/internal/database"
	"github.com/mrlokans/eldercare/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "audit.db"), database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB, db.Tracker)
}

func TestRepository_LogEvent(t *testing.T) {
	repo := setupTestDB(t)

	event := &entities.AuditEvent{
		GuardianID:  "guardian-1",
		EventType:   entities.AuditEventGuardianCommand,
		Action:      "ADD_MEDICATION",
		Description: "Added medication Aspirin",
		Status:      entities.AuditStatusSuccess,
	}

	err := repo.LogEvent(event)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	repo := setupTestDB(t)

	for i := 0; i < 15; i++ {
		event := &entities.AuditEvent{
			GuardianID:  "guardian-1",
			EventType:   entities.AuditEventGuardianCommand,
			Action:      "GET_STATE",
			Description: "Test event",
			Status:      entities.AuditStatusSuccess,
			CreatedAt:   time.Now().Add(time.Duration(-i) * time.Hour),
		}
		require.NoError(t, repo.LogEvent(event))
	}

	// Device-originated events carry no guardian
	for i := 0; i < 5; i++ {
		event := &entities.AuditEvent{
			EventType:   entities.AuditEventAlert,
			Action:      "sos_triggered",
			Description: "SOS",
			Status:      entities.AuditStatusSuccess,
		}
		require.NoError(t, repo.LogEvent(event))
	}

	t.Run("get all events", func(t *testing.T) {
		events, total, err := repo.GetEvents("", 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(20), total)
		assert.Len(t, events, 20)
	})

	t.Run("get guardian events", func(t *testing.T) {
		events, total, err := repo.GetEvents("guardian-1", 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 15)
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.GetEvents("guardian-1", 5, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 5)

		events2, _, err := repo.GetEvents("guardian-1", 5, 5)
		require.NoError(t, err)
		assert.Len(t, events2, 5)
		assert.NotEqual(t, events[0].ID, events2[0].ID)
	})

	t.Run("order by created_at desc", func(t *testing.T) {
		events, _, err := repo.GetEvents("guardian-1", 10, 0)
		require.NoError(t, err)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i-1].CreatedAt.Before(events[i].CreatedAt))
		}
	})
}

func TestRepository_GetEventsByType(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		GuardianID: "guardian-1",
		EventType:  entities.AuditEventPairing,
		Action:     "GUARDIAN_PAIRED",
		Status:     entities.AuditStatusSuccess,
	}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		GuardianID: "guardian-1",
		EventType:  entities.AuditEventGuardianCommand,
		Action:     "DELETE_MEDICATION",
		Status:     entities.AuditStatusSuccess,
	}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		GuardianID: "guardian-2",
		EventType:  entities.AuditEventPairing,
		Action:     "GUARDIAN_PAIRED",
		Status:     entities.AuditStatusSuccess,
	}))

	events, total, err := repo.GetEventsByType(entities.AuditEventPairing, "", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, entities.AuditEventPairing, e.EventType)
	}

	events, total, err = repo.GetEventsByType(entities.AuditEventPairing, "guardian-2", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "guardian-2", events[0].GuardianID)
}

func TestRepository_GetRecentEvents(t *testing.T) {
	repo := setupTestDB(t)

	now := time.Now()

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		EventType: entities.AuditEventAlert,
		Action:    "old_alert",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		EventType: entities.AuditEventAlert,
		Action:    "recent_alert",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-1 * time.Hour),
	}))

	events, err := repo.GetRecentEvents("", now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "recent_alert", events[0].Action)
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo := setupTestDB(t)

	now := time.Now()

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		EventType: entities.AuditEventMedication,
		Action:    "old_dose",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		EventType: entities.AuditEventMedication,
		Action:    "new_dose",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-1 * time.Hour),
	}))

	// Delete events older than 24 hours
	deleted, err := repo.DeleteOldEvents(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := repo.GetEvents("", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, events, 1)
	assert.Equal(t, "new_dose", events[0].Action)
}

func TestRepository_GetEventByID(t *testing.T) {
	repo := setupTestDB(t)

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventSettings,
		Action:      "elder_name_changed",
		Description: "Test event",
		Status:      entities.AuditStatusSuccess,
	}

	require.NoError(t, repo.LogEvent(event))

	t.Run("existing event", func(t *testing.T) {
		found, err := repo.GetEventByID(event.ID)
		require.NoError(t, err)
		assert.Equal(t, event.ID, found.ID)
		assert.Equal(t, "elder_name_changed", found.Action)
	})

	t.Run("non-existing event", func(t *testing.T) {
		_, err := repo.GetEventByID(999)
		assert.Error(t, err)
	})
}
