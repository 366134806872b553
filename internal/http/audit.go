package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/entities"
	"github.com/mrlokans/eldercare/internal/services"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

type AuditController struct {
	svc *services.Services
}

func NewAuditController(svc *services.Services) *AuditController {
	return &AuditController{svc: svc}
}

// List pages through audit events, newest first.
// GET /api/audit?limit=&offset=&type=&guardian_id=
func (ac *AuditController) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", defaultAuditLimit)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	if offset < 0 {
		offset = 0
	}
	guardianID := c.Query("guardian_id")

	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)
	if eventType := c.Query("type"); eventType != "" {
		events, total, err = ac.svc.Audit.GetEventsByType(entities.AuditEventType(eventType), guardianID, limit, offset)
	} else {
		events, total, err = ac.svc.Audit.GetEvents(guardianID, limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}
