package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/database"
	"github.com/mrlokans/eldercare/internal/services"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

type HealthController struct {
	db      *database.Database
	svc     *services.Services
	version string
}

func NewHealthController(db *database.Database, svc *services.Services, version string) *HealthController {
	return &HealthController{db: db, svc: svc, version: version}
}

// Status reports store connectivity, whether the tables still match the
// declared schema, and what the care side looks like right now: open alerts,
// paired guardians and connected guardian streams. An unreachable store is
// unhealthy (503); a schema drift is degraded.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := statusHealthy

	var pingErr error
	if h.db != nil {
		pingErr = h.db.Ping()
	}

	switch {
	case h.db == nil:
		checks["database"] = "not configured"
	case pingErr != nil:
		checks["database"] = "error: " + pingErr.Error()
		status = statusUnhealthy
	default:
		checks["database"] = "ok"
		checks["schema_identity"] = h.db.IdentityHash()
		if err := h.db.ValidateSchema(); err != nil {
			checks["schema"] = "mismatch: " + err.Error()
			status = statusDegraded
		} else {
			checks["schema"] = "ok"
		}
	}

	if h.svc != nil && status != statusUnhealthy {
		if open, err := h.svc.Repos.Alerts.GetUnresolvedAlerts(); err == nil {
			checks["unresolved_alerts"] = strconv.Itoa(len(open))
		}
		if paired, err := h.svc.Repos.Guardians.GetGuardianCount(); err == nil {
			checks["paired_guardians"] = strconv.Itoa(paired)
		}
		checks["guardian_streams"] = strconv.Itoa(h.svc.Hub.Subscribers())
	}

	statusCode := http.StatusOK
	if status == statusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}
