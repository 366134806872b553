package contacts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/eldercare/internal/entities"
)

func TestValidatePosition(t *testing.T) {
	tests := []struct {
		position int
		valid    bool
	}{
		{-1, false},
		{0, true},
		{4, true},
		{5, false},
	}

	for _, tt := range tests {
		err := ValidatePosition(tt.position)
		if tt.valid {
			assert.NoError(t, err, "position %d", tt.position)
		} else {
			assert.Error(t, err, "position %d", tt.position)
		}
	}
}

func TestRepository_SpeedDial(t *testing.T) {
	repo, _ := setupTestDB(t)

	for i, name := range []string{"Carl", "Anna", "Ben"} {
		_, err := repo.InsertSpeedDial(&entities.SpeedDialContact{
			Name:        name,
			PhoneNumber: "+1555",
			Position:    2 - i,
		})
		require.NoError(t, err)
	}

	all, err := repo.GetAllSpeedDialContacts()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ben", all[0].Name)
	assert.Equal(t, 0, all[0].Position)
	assert.Equal(t, "Carl", all[2].Name)

	t.Run("at position", func(t *testing.T) {
		got, err := repo.GetContactAtPosition(1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Anna", got.Name)

		empty, err := repo.GetContactAtPosition(4)
		require.NoError(t, err)
		assert.Nil(t, empty)
	})

	t.Run("update", func(t *testing.T) {
		got, err := repo.GetContactAtPosition(1)
		require.NoError(t, err)
		got.Position = 4
		require.NoError(t, repo.UpdateSpeedDial(got))

		moved, err := repo.GetSpeedDialContactByID(got.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, moved.Position)

		got.Position = 9
		assert.Error(t, repo.UpdateSpeedDial(got))
	})

	t.Run("delete at position", func(t *testing.T) {
		require.NoError(t, repo.DeleteAtPosition(4))
		empty, err := repo.GetContactAtPosition(4)
		require.NoError(t, err)
		assert.Nil(t, empty)
	})

	t.Run("delete", func(t *testing.T) {
		first, err := repo.GetContactAtPosition(0)
		require.NoError(t, err)
		require.NoError(t, repo.DeleteSpeedDial(first))

		last, err := repo.GetContactAtPosition(2)
		require.NoError(t, err)
		require.NoError(t, repo.DeleteSpeedDialByID(last.ID))

		all, err := repo.GetAllSpeedDialContacts()
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestRepository_InsertSpeedDial_InvalidPosition(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.InsertSpeedDial(&entities.SpeedDialContact{Name: "Anna", PhoneNumber: "1", Position: entities.MaxSpeedDialSlots})
	assert.Error(t, err)

	all, err := repo.GetAllSpeedDialContacts()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRepository_WatchAllSpeedDialContacts(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := repo.WatchAllSpeedDialContacts(ctx)
	first := <-ch
	require.NoError(t, first.Err)
	assert.Empty(t, first.Value)

	_, err := repo.InsertSpeedDial(&entities.SpeedDialContact{Name: "Anna", PhoneNumber: "1", Position: 0})
	require.NoError(t, err)

	second := <-ch
	require.NoError(t, second.Err)
	assert.Len(t, second.Value, 1)
}
