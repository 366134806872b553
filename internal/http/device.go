package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/services"
)

type batteryRequest struct {
	Level *int `json:"level" binding:"required"`
}

type activityRequest struct {
	At *time.Time `json:"at"`
}

// BatteryResponse reports the stored level and the alert it raised, if any.
type BatteryResponse struct {
	Level int `json:"level"`
	Alert any `json:"alert,omitempty"`
}

// DeviceController receives state reported by the launcher.
type DeviceController struct {
	svc *services.Services
}

func NewDeviceController(svc *services.Services) *DeviceController {
	return &DeviceController{svc: svc}
}

// Battery stores the battery level. A low level raises one alert per dedup window.
// POST /api/device/battery
func (dc *DeviceController) Battery(c *gin.Context) {
	var req batteryRequest
	if !bindJSON(c, &req) {
		return
	}
	if *req.Level < 0 || *req.Level > 100 {
		respondBadRequest(c, "level must be between 0 and 100")
		return
	}
	res, err := dc.svc.Alerts.ReportBattery(*req.Level)
	if err != nil {
		respondInternalError(c, err, "report battery")
		return
	}
	resp := BatteryResponse{Level: *req.Level}
	if res != nil {
		resp.Alert = res
	}
	c.JSON(http.StatusOK, resp)
}

// Activity records that the elder used the device, now unless "at" is given.
// POST /api/device/activity
func (dc *DeviceController) Activity(c *gin.Context) {
	var req activityRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	at := dc.svc.Now()
	if req.At != nil {
		at = *req.At
	}
	if err := dc.svc.Alerts.RecordActivity(at); err != nil {
		respondInternalError(c, err, "record activity")
		return
	}
	respondSuccess(c, "activity recorded")
}
