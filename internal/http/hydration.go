package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/database/hydration"
	"github.com/mrlokans/eldercare/internal/entities"
	"github.com/mrlokans/eldercare/internal/services"
	"github.com/mrlokans/eldercare/internal/utils"
)

// HydrationResponse is a day's log with the derived goal flag.
type HydrationResponse struct {
	entities.HydrationLog
	GoalReached bool `json:"goal_reached"`
}

func newHydrationResponse(l *entities.HydrationLog) *HydrationResponse {
	if l == nil {
		return nil
	}
	return &HydrationResponse{HydrationLog: *l, GoalReached: l.GoalReached()}
}

type HydrationController struct {
	svc *services.Services
}

func NewHydrationController(svc *services.Services) *HydrationController {
	return &HydrationController{svc: svc}
}

// Today returns today's log, or a zero count when nothing was logged yet.
// GET /api/hydration/today
func (hc *HydrationController) Today(c *gin.Context) {
	start, end := utils.DayBounds(hc.svc.Now())
	today, err := hc.svc.Repos.Hydration.GetTodayLog(start, end)
	if err != nil {
		respondInternalError(c, err, "get hydration")
		return
	}
	if today == nil {
		today = &entities.HydrationLog{Date: start, Goal: entities.DefaultHydrationGoal}
	}
	c.JSON(http.StatusOK, newHydrationResponse(today))
}

// GET /api/hydration?limit=7
func (hc *HydrationController) Recent(c *gin.Context) {
	limit, ok := queryInt(c, "limit", hydration.DefaultRecentLogsLimit)
	if !ok {
		return
	}
	logs, err := hc.svc.Repos.Hydration.GetRecentLogs(limit)
	if err != nil {
		respondInternalError(c, err, "list hydration")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// Increment adds a glass to today, creating today's log when needed.
// POST /api/hydration/increment
func (hc *HydrationController) Increment(c *gin.Context) {
	now := hc.svc.Now()
	start, end := utils.DayBounds(now)
	today, err := hc.svc.Repos.Hydration.IncrementGlasses(start, end)
	if err != nil {
		respondInternalError(c, err, "increment hydration")
		return
	}
	if err := hc.svc.Alerts.RecordActivity(now); err != nil {
		respondInternalError(c, err, "record activity")
		return
	}
	c.JSON(http.StatusOK, newHydrationResponse(today))
}

// Decrement removes a glass from today. A day without a log is 404.
// POST /api/hydration/decrement
func (hc *HydrationController) Decrement(c *gin.Context) {
	start, end := utils.DayBounds(hc.svc.Now())
	today, err := hc.svc.Repos.Hydration.DecrementGlasses(start, end)
	if errors.Is(err, hydration.ErrNoLog) {
		respondNotFound(c, "hydration log for today")
		return
	}
	if err != nil {
		respondInternalError(c, err, "decrement hydration")
		return
	}
	c.JSON(http.StatusOK, newHydrationResponse(today))
}

// WatchToday streams today's log. The day is fixed when the stream opens.
// GET /api/watch/hydration
func (hc *HydrationController) WatchToday(c *gin.Context) {
	start, end := utils.DayBounds(hc.svc.Now())
	results := hc.svc.Repos.Hydration.WatchTodayLog(c.Request.Context(), start, end)
	streamResults(c, "hydration", results)
}
