package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/alerting"
	"github.com/mrlokans/eldercare/internal/entities"
	"github.com/mrlokans/eldercare/internal/services"
)

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type missedMedicationRequest struct {
	MedicationName string `json:"medication_name" binding:"required"`
	ScheduledTime  string `json:"scheduled_time" binding:"required"`
}

type lowBatteryRequest struct {
	Level *int `json:"level" binding:"required"`
}

type inactivityRequest struct {
	Hours int `json:"hours" binding:"required,min=1"`
}

type AlertsController struct {
	svc *services.Services
}

func NewAlertsController(svc *services.Services) *AlertsController {
	return &AlertsController{svc: svc}
}

// List returns alerts newest first. Filters: ?unresolved=true, ?type=FALL,
// ?limit=N, or a ?start/?end date range.
// GET /api/alerts
func (ac *AlertsController) List(c *gin.Context) {
	repo := ac.svc.Repos.Alerts
	var (
		found []entities.Alert
		err   error
	)
	switch {
	case c.Query("unresolved") == "true":
		found, err = repo.GetUnresolvedAlerts()
	case c.Query("type") != "":
		alertType := entities.AlertType(c.Query("type"))
		if !alertType.Valid() {
			respondBadRequest(c, "unknown alert type "+string(alertType))
			return
		}
		found, err = repo.GetAlertsByType(alertType)
	case c.Query("start") != "" || c.Query("end") != "":
		start, end, ok := queryDateRange(c, ac.svc.Location())
		if !ok {
			return
		}
		found, err = repo.GetAlertsBetweenDates(start, end)
	case c.Query("limit") != "":
		limit, ok := queryInt(c, "limit", 0)
		if !ok {
			return
		}
		found, err = repo.GetRecentAlerts(limit)
	default:
		found, err = repo.GetAllAlerts()
	}
	if err != nil {
		respondInternalError(c, err, "list alerts")
		return
	}
	c.JSON(http.StatusOK, found)
}

// GET /api/alerts/:id
func (ac *AlertsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	alert, err := ac.svc.Repos.Alerts.GetAlertByID(id)
	if err != nil {
		respondLookupError(c, err, "alert")
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (ac *AlertsController) respondTriggered(c *gin.Context, res alerting.Result, err error) {
	if err != nil {
		respondInternalError(c, err, "trigger alert")
		return
	}
	respondCreated(c, res)
}

// POST /api/alerts/sos
func (ac *AlertsController) SOS(c *gin.Context) {
	var req locationRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	res, err := ac.svc.Alerts.TriggerSOS(req.Latitude, req.Longitude)
	ac.respondTriggered(c, res, err)
}

// POST /api/alerts/fall
func (ac *AlertsController) Fall(c *gin.Context) {
	var req locationRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	res, err := ac.svc.Alerts.TriggerFall(req.Latitude, req.Longitude)
	ac.respondTriggered(c, res, err)
}

// POST /api/alerts/missed-medication
func (ac *AlertsController) MissedMedication(c *gin.Context) {
	var req missedMedicationRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := ac.svc.Alerts.TriggerMissedMedication(req.MedicationName, req.ScheduledTime)
	ac.respondTriggered(c, res, err)
}

// POST /api/alerts/low-battery
func (ac *AlertsController) LowBattery(c *gin.Context) {
	var req lowBatteryRequest
	if !bindJSON(c, &req) {
		return
	}
	if *req.Level < 0 || *req.Level > 100 {
		respondBadRequest(c, "level must be between 0 and 100")
		return
	}
	res, err := ac.svc.Alerts.TriggerLowBattery(*req.Level)
	ac.respondTriggered(c, res, err)
}

// POST /api/alerts/inactivity
func (ac *AlertsController) Inactivity(c *gin.Context) {
	var req inactivityRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := ac.svc.Alerts.TriggerInactivity(req.Hours)
	ac.respondTriggered(c, res, err)
}

// POST /api/alerts/:id/resolve
func (ac *AlertsController) Resolve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	alert, err := ac.svc.Alerts.Resolve(id)
	if err != nil {
		respondLookupError(c, err, "alert")
		return
	}
	c.JSON(http.StatusOK, alert)
}

// DELETE /api/alerts/:id
func (ac *AlertsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	alert, err := ac.svc.Repos.Alerts.GetAlertByID(id)
	if err != nil {
		respondLookupError(c, err, "alert")
		return
	}
	if err := ac.svc.Repos.Alerts.Delete(alert); err != nil {
		respondInternalError(c, err, "delete alert")
		return
	}
	respondSuccess(c, "alert deleted")
}

// WatchUnresolved streams the unresolved alerts on every change.
// GET /api/watch/alerts
func (ac *AlertsController) WatchUnresolved(c *gin.Context) {
	streamResults(c, "alerts", ac.svc.Repos.Alerts.WatchUnresolvedAlerts(c.Request.Context()))
}
