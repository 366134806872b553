package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/database/notes"
	"github.com/mrlokans/eldercare/internal/entities"
)

type NotesController struct {
	repo *notes.Repository
}

func NewNotesController(repo *notes.Repository) *NotesController {
	return &NotesController{repo: repo}
}

// List returns notes, most recently edited first. ?q= filters by title
// and content.
// GET /api/notes
func (nc *NotesController) List(c *gin.Context) {
	found, err := nc.repo.SearchNotes(c.Query("q"))
	if err != nil {
		respondInternalError(c, err, "list notes")
		return
	}
	c.JSON(http.StatusOK, found)
}

// GET /api/notes/:id
func (nc *NotesController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	note, err := nc.repo.GetNoteByID(id)
	if err != nil {
		respondLookupError(c, err, "note")
		return
	}
	c.JSON(http.StatusOK, note)
}

// POST /api/notes
func (nc *NotesController) Create(c *gin.Context) {
	var note entities.Note
	if !bindJSON(c, &note) {
		return
	}
	if strings.TrimSpace(note.Title) == "" && strings.TrimSpace(note.Content) == "" {
		respondBadRequest(c, "title or content is required")
		return
	}
	note.ID = 0
	if _, err := nc.repo.Insert(&note); err != nil {
		respondInternalError(c, err, "create note")
		return
	}
	respondCreated(c, note)
}

// PUT /api/notes/:id
func (nc *NotesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	note, err := nc.repo.GetNoteByID(id)
	if err != nil {
		respondLookupError(c, err, "note")
		return
	}
	if !bindJSON(c, note) {
		return
	}
	note.ID = id
	if err := nc.repo.Update(note); err != nil {
		respondInternalError(c, err, "update note")
		return
	}
	c.JSON(http.StatusOK, note)
}

// DELETE /api/notes/:id
func (nc *NotesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := nc.repo.DeleteByID(id); err != nil {
		respondInternalError(c, err, "delete note")
		return
	}
	respondSuccess(c, "note deleted")
}

// GET /api/watch/notes
func (nc *NotesController) Watch(c *gin.Context) {
	streamResults(c, "notes", nc.repo.WatchAllNotes(c.Request.Context()))
}
