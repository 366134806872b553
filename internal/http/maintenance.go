package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/scheduler"
)

type MaintenanceController struct {
	scheduler *scheduler.MaintenanceScheduler
}

func NewMaintenanceController(s *scheduler.MaintenanceScheduler) *MaintenanceController {
	return &MaintenanceController{scheduler: s}
}

type jobStatus struct {
	Job     string     `json:"job"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

// Status lists the maintenance jobs and when each fires next.
// GET /api/maintenance
func (mc *MaintenanceController) Status(c *gin.Context) {
	if mc.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "maintenance scheduler is not configured"})
		return
	}
	jobs := []string{scheduler.JobMissedDoses, scheduler.JobInactivity, scheduler.JobResolvedAlert, scheduler.JobAuditEvents}
	statuses := make([]jobStatus, 0, len(jobs))
	for _, job := range jobs {
		statuses = append(statuses, jobStatus{Job: job, NextRun: mc.scheduler.NextRun(job)})
	}
	c.JSON(http.StatusOK, gin.H{
		"running": mc.scheduler.IsRunning(),
		"jobs":    statuses,
	})
}

// Run enqueues a maintenance job immediately.
// POST /api/maintenance/:job/run
func (mc *MaintenanceController) Run(c *gin.Context) {
	if mc.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "maintenance scheduler is not configured"})
		return
	}
	job := c.Param("job")
	err := mc.scheduler.RunNow(job)
	switch {
	case errors.Is(err, scheduler.ErrUnknownJob):
		respondNotFound(c, "job "+job)
	case err != nil:
		respondInternalError(c, err, "run "+job)
	default:
		respondAccepted(c, "job enqueued", gin.H{"job": job})
	}
}
