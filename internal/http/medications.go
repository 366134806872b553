package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/entities"
	"github.com/mrlokans/eldercare/internal/services"
)

type scheduleRequest struct {
	Hour       int   `json:"hour"`
	Minute     int   `json:"minute"`
	DaysOfWeek []int `json:"days_of_week"`
	IsEnabled  *bool `json:"is_enabled"`
}

type medicationRequest struct {
	Name      string                       `json:"name"`
	Dosage    string                       `json:"dosage"`
	Frequency entities.MedicationFrequency `json:"frequency"`
	Notes     string                       `json:"notes"`
	IsActive  *bool                        `json:"is_active"`
	Schedules []scheduleRequest            `json:"schedules"`
}

type medicationLogRequest struct {
	Action        entities.MedicationAction `json:"action"`
	ScheduledTime time.Time                 `json:"scheduled_time"`
	Notes         string                    `json:"notes"`
}

// MedicationResponse is a medication with its schedules.
type MedicationResponse struct {
	entities.Medication
	Schedules []entities.MedicationSchedule `json:"schedules"`
}

type MedicationsController struct {
	svc *services.Services
}

func NewMedicationsController(svc *services.Services) *MedicationsController {
	return &MedicationsController{svc: svc}
}

func (r medicationRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if r.Frequency != "" && !r.Frequency.Valid() {
		return fmt.Errorf("unknown frequency %q", r.Frequency)
	}
	for _, s := range r.Schedules {
		if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
			return fmt.Errorf("schedule time %02d:%02d is out of range", s.Hour, s.Minute)
		}
		for _, d := range s.DaysOfWeek {
			if d < 1 || d > 7 {
				return fmt.Errorf("day of week %d is out of range 1..7", d)
			}
		}
	}
	return nil
}

func (r medicationRequest) apply(med *entities.Medication) {
	med.Name = strings.TrimSpace(r.Name)
	med.Dosage = r.Dosage
	med.Notes = r.Notes
	if r.Frequency != "" {
		med.Frequency = r.Frequency
	}
	if r.IsActive != nil {
		med.IsActive = *r.IsActive
	}
}

func toSchedules(reqs []scheduleRequest) []entities.MedicationSchedule {
	schedules := make([]entities.MedicationSchedule, 0, len(reqs))
	for _, s := range reqs {
		enabled := true
		if s.IsEnabled != nil {
			enabled = *s.IsEnabled
		}
		schedules = append(schedules, entities.MedicationSchedule{
			Hour:       s.Hour,
			Minute:     s.Minute,
			DaysOfWeek: s.DaysOfWeek,
			IsEnabled:  enabled,
		})
	}
	return schedules
}

// List returns active medications, or every medication with ?all=true.
// GET /api/medications
func (mc *MedicationsController) List(c *gin.Context) {
	get := mc.svc.Repos.Medications.GetAllActiveMedications
	if c.Query("all") == "true" {
		get = mc.svc.Repos.Medications.GetAllMedications
	}
	meds, err := get()
	if err != nil {
		respondInternalError(c, err, "list medications")
		return
	}
	c.JSON(http.StatusOK, meds)
}

// Get returns a medication with its schedules.
// GET /api/medications/:id
func (mc *MedicationsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	med, err := mc.svc.Repos.Medications.GetMedicationByID(id)
	if err != nil {
		respondLookupError(c, err, "medication")
		return
	}
	schedules, err := mc.svc.Repos.Medications.GetSchedulesForMedication(id)
	if err != nil {
		respondInternalError(c, err, "get schedules")
		return
	}
	c.JSON(http.StatusOK, MedicationResponse{Medication: *med, Schedules: schedules})
}

// Create adds a medication together with its schedules.
// POST /api/medications
func (mc *MedicationsController) Create(c *gin.Context) {
	var req medicationRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	med := entities.NewMedication("", "", entities.FrequencyDaily)
	req.apply(&med)
	schedules := toSchedules(req.Schedules)
	if _, err := mc.svc.Repos.Medications.AddMedicationWithSchedules(&med, schedules); err != nil {
		respondInternalError(c, err, "create medication")
		return
	}
	mc.svc.Audit.LogMedication("medication_added", "Added "+med.Name, med.ID)
	respondCreated(c, MedicationResponse{Medication: med, Schedules: schedules})
}

// Update overwrites a medication's fields. Schedules are replaced only when
// the request carries them.
// PUT /api/medications/:id
func (mc *MedicationsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req medicationRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	med, err := mc.svc.Repos.Medications.GetMedicationByID(id)
	if err != nil {
		respondLookupError(c, err, "medication")
		return
	}
	req.apply(med)
	if err := mc.svc.Repos.Medications.Update(med); err != nil {
		respondInternalError(c, err, "update medication")
		return
	}
	if req.Schedules != nil {
		if err := mc.svc.Repos.Medications.ReplaceSchedules(id, toSchedules(req.Schedules)); err != nil {
			respondInternalError(c, err, "replace schedules")
			return
		}
	}
	mc.svc.Audit.LogMedication("medication_updated", "Updated "+med.Name, id)
	mc.Get(c)
}

// Delete removes a medication with its schedules and logs.
// DELETE /api/medications/:id
func (mc *MedicationsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := mc.svc.Repos.Medications.DeleteByID(id); err != nil {
		respondInternalError(c, err, "delete medication")
		return
	}
	mc.svc.Audit.LogMedication("medication_deleted", fmt.Sprintf("Deleted medication %d", id), id)
	respondSuccess(c, "medication deleted")
}

// ReplaceSchedules swaps all schedules of a medication.
// PUT /api/medications/:id/schedules
func (mc *MedicationsController) ReplaceSchedules(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var reqs []scheduleRequest
	if !bindJSON(c, &reqs) {
		return
	}
	if err := (medicationRequest{Name: "-", Schedules: reqs}).validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if _, err := mc.svc.Repos.Medications.GetMedicationByID(id); err != nil {
		respondLookupError(c, err, "medication")
		return
	}
	if err := mc.svc.Repos.Medications.ReplaceSchedules(id, toSchedules(reqs)); err != nil {
		respondInternalError(c, err, "replace schedules")
		return
	}
	schedules, err := mc.svc.Repos.Medications.GetSchedulesForMedication(id)
	if err != nil {
		respondInternalError(c, err, "get schedules")
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// DeleteSchedule removes one schedule.
// DELETE /api/schedules/:id
func (mc *MedicationsController) DeleteSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	schedule, err := mc.svc.Repos.Medications.GetScheduleByID(id)
	if err != nil {
		respondLookupError(c, err, "schedule")
		return
	}
	if err := mc.svc.Repos.Medications.DeleteSchedule(schedule); err != nil {
		respondInternalError(c, err, "delete schedule")
		return
	}
	respondSuccess(c, "schedule deleted")
}

// Logs returns the dose history of one medication.
// GET /api/medications/:id/logs
func (mc *MedicationsController) Logs(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	logs, err := mc.svc.Repos.Medications.GetLogsForMedication(id)
	if err != nil {
		respondInternalError(c, err, "list medication logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// RecordDose logs that a dose was taken, skipped, snoozed or missed.
// POST /api/medications/:id/logs
func (mc *MedicationsController) RecordDose(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req medicationLogRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.Action.Valid() {
		respondBadRequest(c, fmt.Sprintf("unknown action %q", req.Action))
		return
	}
	med, err := mc.svc.Repos.Medications.GetMedicationByID(id)
	if err != nil {
		respondLookupError(c, err, "medication")
		return
	}

	now := mc.svc.Now()
	if req.ScheduledTime.IsZero() {
		req.ScheduledTime = now
	}
	entry := entities.MedicationLog{
		MedicationID:  id,
		ScheduledTime: req.ScheduledTime,
		ActionTime:    now,
		Action:        req.Action,
		Notes:         req.Notes,
	}
	if _, err := mc.svc.Repos.Medications.InsertLog(&entry); err != nil {
		respondInternalError(c, err, "record dose")
		return
	}
	if err := mc.svc.Alerts.RecordActivity(now); err != nil {
		respondInternalError(c, err, "record activity")
		return
	}
	mc.svc.Audit.LogMedication("dose_"+strings.ToLower(string(req.Action)), fmt.Sprintf("%s %s", req.Action, med.Name), id)
	respondCreated(c, entry)
}

// LogsBetween returns dose logs between two dates, inclusive.
// GET /api/medication-logs?start=2026-05-01&end=2026-05-07
func (mc *MedicationsController) LogsBetween(c *gin.Context) {
	start, end, ok := queryDateRange(c, mc.svc.Location())
	if !ok {
		return
	}
	logs, err := mc.svc.Repos.Medications.GetLogsBetweenDates(start, end)
	if err != nil {
		respondInternalError(c, err, "list medication logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// Today counts today's scheduled, taken and missed doses.
// GET /api/medications/today
func (mc *MedicationsController) Today(c *gin.Context) {
	summary, err := mc.svc.Repos.Medications.TodaySummary(mc.svc.Now())
	if err != nil {
		respondInternalError(c, err, "medication summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// WatchActive streams the active medication list on every change.
// GET /api/watch/medications
func (mc *MedicationsController) WatchActive(c *gin.Context) {
	streamResults(c, "medications", mc.svc.Repos.Medications.WatchAllActiveMedications(c.Request.Context()))
}
