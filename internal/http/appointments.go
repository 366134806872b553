package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/entities"
	"github.com/mrlokans/eldercare/internal/services"
)

type AppointmentsController struct {
	svc *services.Services
}

func NewAppointmentsController(svc *services.Services) *AppointmentsController {
	return &AppointmentsController{svc: svc}
}

func validateAppointment(a *entities.Appointment) string {
	if strings.TrimSpace(a.Title) == "" {
		return "title is required"
	}
	if a.DateTime.IsZero() {
		return "date_time is required"
	}
	if a.ReminderMinutesBefore < 0 {
		return "reminder_minutes_before must not be negative"
	}
	return ""
}

// List returns all appointments, only upcoming ones with ?upcoming=true, or
// those between ?start and ?end.
// GET /api/appointments
func (ac *AppointmentsController) List(c *gin.Context) {
	repo := ac.svc.Repos.Appointments
	var (
		appts []entities.Appointment
		err   error
	)
	switch {
	case c.Query("upcoming") == "true":
		appts, err = repo.GetUpcomingAppointments(ac.svc.Now())
	case c.Query("start") != "" || c.Query("end") != "":
		start, end, ok := queryDateRange(c, ac.svc.Location())
		if !ok {
			return
		}
		appts, err = repo.GetAppointmentsBetweenDates(start, end)
	default:
		appts, err = repo.GetAllAppointments()
	}
	if err != nil {
		respondInternalError(c, err, "list appointments")
		return
	}
	c.JSON(http.StatusOK, appts)
}

// GET /api/appointments/:id
func (ac *AppointmentsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	appt, err := ac.svc.Repos.Appointments.GetAppointmentByID(id)
	if err != nil {
		respondLookupError(c, err, "appointment")
		return
	}
	c.JSON(http.StatusOK, appt)
}

// Create stores an appointment. The reminder defaults to enabled, 30
// minutes ahead.
// POST /api/appointments
func (ac *AppointmentsController) Create(c *gin.Context) {
	appt := entities.NewAppointment("", time.Time{})
	if !bindJSON(c, &appt) {
		return
	}
	appt.ID = 0
	if msg := validateAppointment(&appt); msg != "" {
		respondBadRequest(c, msg)
		return
	}
	if _, err := ac.svc.Repos.Appointments.Insert(&appt); err != nil {
		respondInternalError(c, err, "create appointment")
		return
	}
	respondCreated(c, appt)
}

// PUT /api/appointments/:id
func (ac *AppointmentsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	appt, err := ac.svc.Repos.Appointments.GetAppointmentByID(id)
	if err != nil {
		respondLookupError(c, err, "appointment")
		return
	}
	if !bindJSON(c, appt) {
		return
	}
	appt.ID = id
	if msg := validateAppointment(appt); msg != "" {
		respondBadRequest(c, msg)
		return
	}
	if err := ac.svc.Repos.Appointments.Update(appt); err != nil {
		respondInternalError(c, err, "update appointment")
		return
	}
	c.JSON(http.StatusOK, appt)
}

// DELETE /api/appointments/:id
func (ac *AppointmentsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ac.svc.Repos.Appointments.DeleteByID(id); err != nil {
		respondInternalError(c, err, "delete appointment")
		return
	}
	respondSuccess(c, "appointment deleted")
}

// WatchUpcoming streams appointments from the moment the stream opened.
// GET /api/watch/appointments
func (ac *AppointmentsController) WatchUpcoming(c *gin.Context) {
	streamResults(c, "appointments", ac.svc.Repos.Appointments.WatchUpcomingAppointments(c.Request.Context(), ac.svc.Now()))
}
