package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/entities"
	"github.com/mrlokans/eldercare/internal/services"
	"github.com/mrlokans/eldercare/internal/utils"
)

const defaultRecentCheckIns = 7

type CheckInsController struct {
	svc *services.Services
}

func NewCheckInsController(svc *services.Services) *CheckInsController {
	return &CheckInsController{svc: svc}
}

// List returns check-ins newest first, optionally within ?start/?end.
// GET /api/checkins
func (cc *CheckInsController) List(c *gin.Context) {
	repo := cc.svc.Repos.CheckIns
	var (
		found []entities.HealthCheckIn
		err   error
	)
	if c.Query("start") != "" || c.Query("end") != "" {
		start, end, ok := queryDateRange(c, cc.svc.Location())
		if !ok {
			return
		}
		found, err = repo.GetCheckInsBetweenDates(start, end)
	} else {
		found, err = repo.GetAllCheckIns()
	}
	if err != nil {
		respondInternalError(c, err, "list check-ins")
		return
	}
	c.JSON(http.StatusOK, found)
}

// GET /api/checkins/recent?limit=N
func (cc *CheckInsController) Recent(c *gin.Context) {
	limit, ok := queryInt(c, "limit", defaultRecentCheckIns)
	if !ok {
		return
	}
	found, err := cc.svc.Repos.CheckIns.GetRecentCheckIns(limit)
	if err != nil {
		respondInternalError(c, err, "recent check-ins")
		return
	}
	c.JSON(http.StatusOK, found)
}

// Today returns today's check-in, 404 when the elder has not checked in.
// GET /api/checkins/today
func (cc *CheckInsController) Today(c *gin.Context) {
	start := utils.StartOfDay(cc.svc.Now())
	checkIn, err := cc.svc.Repos.CheckIns.GetCheckInForDate(start, start.AddDate(0, 0, 1))
	if err != nil {
		respondInternalError(c, err, "today's check-in")
		return
	}
	if checkIn == nil {
		respondNotFound(c, "check-in")
		return
	}
	c.JSON(http.StatusOK, checkIn)
}

// GET /api/checkins/:id
func (cc *CheckInsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	checkIn, err := cc.svc.Repos.CheckIns.GetCheckInByID(id)
	if err != nil {
		respondLookupError(c, err, "check-in")
		return
	}
	c.JSON(http.StatusOK, checkIn)
}

// Create stores a check-in dated now unless the body carries a date.
// POST /api/checkins
func (cc *CheckInsController) Create(c *gin.Context) {
	var checkIn entities.HealthCheckIn
	if !bindJSON(c, &checkIn) {
		return
	}
	if err := checkIn.Validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	now := cc.svc.Now()
	checkIn.ID = 0
	checkIn.CreatedAt = now
	if checkIn.Date.IsZero() {
		checkIn.Date = now
	}
	if _, err := cc.svc.Repos.CheckIns.Insert(&checkIn); err != nil {
		respondInternalError(c, err, "create check-in")
		return
	}
	respondCreated(c, checkIn)
}

// PUT /api/checkins/:id
func (cc *CheckInsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	checkIn, err := cc.svc.Repos.CheckIns.GetCheckInByID(id)
	if err != nil {
		respondLookupError(c, err, "check-in")
		return
	}
	if !bindJSON(c, checkIn) {
		return
	}
	checkIn.ID = id
	if err := checkIn.Validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := cc.svc.Repos.CheckIns.Update(checkIn); err != nil {
		respondInternalError(c, err, "update check-in")
		return
	}
	c.JSON(http.StatusOK, checkIn)
}

// DELETE /api/checkins/:id
func (cc *CheckInsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := cc.svc.Repos.CheckIns.DeleteByID(id); err != nil {
		respondInternalError(c, err, "delete check-in")
		return
	}
	respondSuccess(c, "check-in deleted")
}

// GET /api/watch/checkins?limit=N
func (cc *CheckInsController) WatchRecent(c *gin.Context) {
	limit, ok := queryInt(c, "limit", defaultRecentCheckIns)
	if !ok {
		return
	}
	streamResults(c, "checkins", cc.svc.Repos.CheckIns.WatchRecentCheckIns(c.Request.Context(), limit))
}
