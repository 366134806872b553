package notes

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
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "notes.db"), database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB, db.Tracker)
}

func TestRepository_InsertAndGet(t *testing.T) {
	repo := setupTestDB(t)

	id, err := repo.Insert(&entities.Note{Title: "Groceries", Content: "Milk, bread"})
	require.NoError(t, err)

	note, err := repo.GetNoteByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", note.Title)
	assert.False(t, note.CreatedAt.IsZero())
	assert.False(t, note.UpdatedAt.IsZero())

	_, err = repo.GetNoteByID(id + 100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_GetAllNotes_RecentlyEditedFirst(t *testing.T) {
	repo := setupTestDB(t)

	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.Insert(&entities.Note{Title: "Old", CreatedAt: old, UpdatedAt: old})
	require.NoError(t, err)
	_, err = repo.Insert(&entities.Note{Title: "New"})
	require.NoError(t, err)

	notes, err := repo.GetAllNotes()
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "New", notes[0].Title)
	assert.Equal(t, "Old", notes[1].Title)
}

func TestRepository_SearchNotes(t *testing.T) {
	repo := setupTestDB(t)

	for _, n := range []entities.Note{
		{Title: "Doctor visit", Content: "Ask about PAIN in knee"},
		{Title: "Groceries", Content: "Milk"},
		{Title: "Discount", Content: "50% off at pharmacy"},
	} {
		note := n
		_, err := repo.Insert(&note)
		require.NoError(t, err)
	}

	tests := []struct {
		query    string
		expected int
	}{
		{"doctor", 1},
		{"pain", 1},
		{"MILK", 1},
		{"%", 1},
		{"o", 3},
		{"", 3},
		{"nothing", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			notes, err := repo.SearchNotes(tt.query)
			require.NoError(t, err)
			assert.Len(t, notes, tt.expected)
		})
	}
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	repo := setupTestDB(t)

	id, err := repo.Insert(&entities.Note{Title: "Draft", Content: "a"})
	require.NoError(t, err)
	note, err := repo.GetNoteByID(id)
	require.NoError(t, err)

	note.Content = "b"
	require.NoError(t, repo.Update(note))

	got, err := repo.GetNoteByID(id)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Content)
	assert.True(t, note.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, repo.Delete(got))
	notes, err := repo.GetAllNotes()
	require.NoError(t, err)
	assert.Empty(t, notes)
}
