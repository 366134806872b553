package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates the HTTP router with all endpoints. Streams under
// /api/watch re-send their query result as server-sent events whenever the
// underlying tables change.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(securityHeaders())

	svc := cfg.Services
	repos := svc.Repos

	health := NewHealthController(cfg.Database, cfg.Services, cfg.Version)
	medications := NewMedicationsController(svc)
	contacts := NewContactsController(repos.Contacts)
	appointments := NewAppointmentsController(svc)
	notes := NewNotesController(repos.Notes)
	profile := NewProfileController(repos.Profile)
	hydration := NewHydrationController(svc)
	checkIns := NewCheckInsController(svc)
	alerts := NewAlertsController(svc)
	device := NewDeviceController(svc)
	guardians := NewGuardiansController(svc)
	settings := NewSettingsController(svc)
	audit := NewAuditController(svc)
	maintenance := NewMaintenanceController(cfg.Scheduler)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Medications
	api.GET("/medications", medications.List)
	api.POST("/medications", medications.Create)
	api.GET("/medications/today", medications.Today)
	api.GET("/medications/:id", medications.Get)
	api.PUT("/medications/:id", medications.Update)
	api.DELETE("/medications/:id", medications.Delete)
	api.PUT("/medications/:id/schedules", medications.ReplaceSchedules)
	api.GET("/medications/:id/logs", medications.Logs)
	api.POST("/medications/:id/logs", medications.RecordDose)
	api.DELETE("/schedules/:id", medications.DeleteSchedule)
	api.GET("/medication-logs", medications.LogsBetween)

	// Contacts and speed dial
	api.GET("/contacts", contacts.List)
	api.POST("/contacts", contacts.Create)
	api.GET("/contacts/primary", contacts.Primary)
	api.DELETE("/contacts/primary", contacts.ClearPrimary)
	api.GET("/contacts/:id", contacts.Get)
	api.PUT("/contacts/:id", contacts.Update)
	api.DELETE("/contacts/:id", contacts.Delete)
	api.POST("/contacts/:id/primary", contacts.SetPrimary)
	api.GET("/speed-dial", contacts.ListSpeedDial)
	api.PUT("/speed-dial/:position", contacts.PutSpeedDial)
	api.DELETE("/speed-dial/:position", contacts.DeleteSpeedDial)

	// Appointments
	api.GET("/appointments", appointments.List)
	api.POST("/appointments", appointments.Create)
	api.GET("/appointments/:id", appointments.Get)
	api.PUT("/appointments/:id", appointments.Update)
	api.DELETE("/appointments/:id", appointments.Delete)

	// Notes
	api.GET("/notes", notes.List)
	api.POST("/notes", notes.Create)
	api.GET("/notes/:id", notes.Get)
	api.PUT("/notes/:id", notes.Update)
	api.DELETE("/notes/:id", notes.Delete)

	// Profile
	api.GET("/profile", profile.Get)
	api.PUT("/profile", profile.Save)

	// Hydration
	api.GET("/hydration", hydration.Recent)
	api.GET("/hydration/today", hydration.Today)
	api.POST("/hydration/increment", hydration.Increment)
	api.POST("/hydration/decrement", hydration.Decrement)

	// Health check-ins
	api.GET("/checkins", checkIns.List)
	api.POST("/checkins", checkIns.Create)
	api.GET("/checkins/recent", checkIns.Recent)
	api.GET("/checkins/today", checkIns.Today)
	api.GET("/checkins/:id", checkIns.Get)
	api.PUT("/checkins/:id", checkIns.Update)
	api.DELETE("/checkins/:id", checkIns.Delete)

	// Alerts and device state
	api.GET("/alerts", alerts.List)
	api.POST("/alerts/sos", alerts.SOS)
	api.POST("/alerts/fall", alerts.Fall)
	api.POST("/alerts/missed-medication", alerts.MissedMedication)
	api.POST("/alerts/low-battery", alerts.LowBattery)
	api.POST("/alerts/inactivity", alerts.Inactivity)
	api.GET("/alerts/:id", alerts.Get)
	api.DELETE("/alerts/:id", alerts.Delete)
	api.POST("/alerts/:id/resolve", alerts.Resolve)
	api.POST("/device/battery", device.Battery)
	api.POST("/device/activity", device.Activity)

	// Guardians
	api.GET("/guardians", guardians.List)
	api.DELETE("/guardians/:guardian_id", guardians.Unpair)
	api.POST("/guardian/messages", guardians.Message)
	api.GET("/guardian/stream", guardians.Stream)

	// Settings and audit trail
	api.GET("/settings/:key", settings.Get)
	api.PUT("/settings/:key", settings.Put)
	api.DELETE("/settings/:key", settings.Delete)
	api.GET("/audit", audit.List)

	// Maintenance jobs
	api.GET("/maintenance", maintenance.Status)
	api.POST("/maintenance/:job/run", maintenance.Run)

	// Reactive streams
	watch := api.Group("/watch")
	watch.GET("/medications", medications.WatchActive)
	watch.GET("/contacts", contacts.Watch)
	watch.GET("/speed-dial", contacts.WatchSpeedDial)
	watch.GET("/appointments", appointments.WatchUpcoming)
	watch.GET("/notes", notes.Watch)
	watch.GET("/profile", profile.Watch)
	watch.GET("/hydration", hydration.WatchToday)
	watch.GET("/checkins", checkIns.WatchRecent)
	watch.GET("/alerts", alerts.WatchUnresolved)
	watch.GET("/guardians/count", guardians.WatchCount)

	return router
}
