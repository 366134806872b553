package guardian

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/eldercare/internal/entities"
)

const dateLayout = "2006-01-02"

// NewAlertInfo describes a stored alert for guardians.
func NewAlertInfo(alert entities.Alert, elderID string) AlertInfo {
	info := AlertInfo{
		ID:           strconv.FormatInt(alert.ID, 10),
		ElderID:      elderID,
		Type:         string(alert.Type),
		TriggeredAt:  Timestamp(alert.TriggeredAt),
		BatteryLevel: alert.BatteryLevel,
		Resolved:     alert.Resolved,
		Notes:        alert.Notes,
	}
	if alert.HasLocation() {
		info.Location = &LocationInfo{Latitude: *alert.Latitude, Longitude: *alert.Longitude}
	}
	return info
}

func newMedicationInfo(med entities.Medication) MedicationInfo {
	return MedicationInfo{
		ID:           strconv.FormatInt(med.ID, 10),
		Name:         med.Name,
		Dosage:       med.Dosage,
		Instructions: med.Notes,
	}
}

func newScheduleInfo(s entities.MedicationSchedule) ScheduleInfo {
	return ScheduleInfo{
		ID:           strconv.FormatInt(s.ID, 10),
		MedicationID: strconv.FormatInt(s.MedicationID, 10),
		Time:         fmt.Sprintf("%02d:%02d", s.Hour, s.Minute),
		DaysOfWeek:   protocolDays(s.DaysOfWeek),
		Enabled:      s.IsEnabled,
	}
}

func newScheduleInfos(schedules []entities.MedicationSchedule) []ScheduleInfo {
	infos := make([]ScheduleInfo, 0, len(schedules))
	for _, s := range schedules {
		infos = append(infos, newScheduleInfo(s))
	}
	return infos
}

// Logs do not record which schedule produced them, so the schedule id is
// derived from the medication.
func newMedicationLogInfo(l entities.MedicationLog) MedicationLogInfo {
	info := MedicationLogInfo{
		ID:            strconv.FormatInt(l.ID, 10),
		MedicationID:  strconv.FormatInt(l.MedicationID, 10),
		ScheduleID:    fmt.Sprintf("sched-%d", l.MedicationID),
		ScheduledTime: Timestamp(l.ScheduledTime),
		Status:        strings.ToLower(string(l.Action)),
	}
	if l.Action == entities.ActionTaken {
		takenAt := Timestamp(l.ActionTime)
		info.TakenAt = &takenAt
	}
	return info
}

// The check-in date is reported as a calendar day in loc.
func newHealthCheckInInfo(c entities.HealthCheckIn, elderID string, loc *time.Location) HealthCheckInInfo {
	symptoms := c.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}
	return HealthCheckInInfo{
		ID:           strconv.FormatInt(c.ID, 10),
		ElderID:      elderID,
		Date:         c.Date.In(loc).Format(dateLayout),
		Mood:         c.Mood,
		PainLevel:    c.PainLevel,
		SleepQuality: c.SleepQuality,
		Symptoms:     symptoms,
		Notes:        c.Notes,
	}
}

// protocolDays maps stored weekdays (1=Sunday..7) to 0=Sunday..6.
func protocolDays(days []int) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		out = append(out, clamp(d-1, 0, 6))
	}
	return out
}

// storedDays maps 0=Sunday..6 to the stored 1..7 numbering. An empty list
// means every day.
func storedDays(days []int) []int {
	if len(days) == 0 {
		return append([]int(nil), entities.AllDays...)
	}
	out := make([]int, 0, len(days))
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		v := clamp(d, 0, 6) + 1
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// parseScheduleTime reads "HH:mm". Unparseable parts read as zero.
func parseScheduleTime(s string) (hour, minute int) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	hour, _ = strconv.Atoi(parts[0])
	if len(parts) > 1 {
		minute, _ = strconv.Atoi(parts[1])
	}
	return clamp(hour, 0, 23), clamp(minute, 0, 59)
}

func schedulesFromPayload(payloads []MedicationSchedulePayload) []entities.MedicationSchedule {
	schedules := make([]entities.MedicationSchedule, 0, len(payloads))
	for _, p := range payloads {
		hour, minute := parseScheduleTime(p.Time)
		enabled := true
		if p.Enabled != nil {
			enabled = *p.Enabled
		}
		schedules = append(schedules, entities.MedicationSchedule{
			Hour:       hour,
			Minute:     minute,
			DaysOfWeek: storedDays(p.DaysOfWeek),
			IsEnabled:  enabled,
		})
	}
	return schedules
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
