package notes

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/eldercare/internal/database/live"
	"github.com/mrlokans/eldercare/internal/entities"
)

type Repository struct {
	db      *gorm.DB
	tracker *live.Tracker
}

func NewRepository(db *gorm.DB, tracker *live.Tracker) *Repository {
	return &Repository{db: db, tracker: tracker}
}

// GetAllNotes returns notes, most recently edited first.
func (r *Repository) GetAllNotes() ([]entities.Note, error) {
	var notes []entities.Note
	err := r.db.Order("updated_at DESC").Order("id DESC").Find(&notes).Error
	return notes, err
}

func (r *Repository) WatchAllNotes(ctx context.Context) <-chan live.Result[[]entities.Note] {
	return live.Watch(ctx, r.tracker, r.GetAllNotes, entities.TableNotes)
}

func (r *Repository) GetNoteByID(id int64) (*entities.Note, error) {
	var note entities.Note
	if err := r.db.First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// SearchNotes matches query against title and content, ignoring case.
// An empty query returns every note.
func (r *Repository) SearchNotes(query string) ([]entities.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.GetAllNotes()
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	var notes []entities.Note
	err := r.db.
		Where("LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(content) LIKE ? ESCAPE '\\'", pattern, pattern).
		Order("updated_at DESC").Order("id DESC").
		Find(&notes).Error
	return notes, err
}

func (r *Repository) Insert(note *entities.Note) (int64, error) {
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(note).Error; err != nil {
		return 0, err
	}
	r.tracker.Notify(entities.TableNotes)
	return note.ID, nil
}

func (r *Repository) Update(note *entities.Note) error {
	if err := r.db.Model(note).Select("*").Omit("created_at").Updates(note).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableNotes)
	return nil
}

func (r *Repository) Delete(note *entities.Note) error {
	return r.DeleteByID(note.ID)
}

func (r *Repository) DeleteByID(id int64) error {
	if err := r.db.Delete(&entities.Note{}, id).Error; err != nil {
		return err
	}
	r.tracker.Notify(entities.TableNotes)
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
