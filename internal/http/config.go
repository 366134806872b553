package http

import (
	"github.com/mrlokans/eldercare/internal/database"
	"github.com/mrlokans/eldercare/internal/scheduler"
	"github.com/mrlokans/eldercare/internal/services"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Database *database.Database
	Services *services.Services

	// Scheduler is optional; without it the maintenance endpoints answer 503.
	Scheduler *scheduler.MaintenanceScheduler

	Version string
}
