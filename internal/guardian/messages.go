package guardian

import (
	"encoding/json"
	"time"
)

// Incoming message types, sent by a guardian.
const (
	TypeGetState               = "GET_STATE"
	TypeGetMedications         = "GET_MEDICATIONS"
	TypeGetAlertHistory        = "GET_ALERT_HISTORY"
	TypeGetHealthHistory       = "GET_HEALTH_HISTORY"
	TypeGuardianPaired         = "GUARDIAN_PAIRED"
	TypeGuardianUnpaired       = "GUARDIAN_UNPAIRED"
	TypeAddMedication          = "ADD_MEDICATION"
	TypeUpdateMedication       = "UPDATE_MEDICATION"
	TypeDeleteMedication       = "DELETE_MEDICATION"
	TypeSendReminder           = "SEND_REMINDER"
	TypeSendMessage            = "SEND_MESSAGE"
	TypeUpdateEmergencyContact = "UPDATE_EMERGENCY_CONTACT"
	TypeDeleteEmergencyContact = "DELETE_EMERGENCY_CONTACT"
)

// Outgoing message types, sent by the elder device.
const (
	TypeStateResponse         = "STATE_RESPONSE"
	TypeMedicationsResponse   = "MEDICATIONS_RESPONSE"
	TypeAlertHistoryResponse  = "ALERT_HISTORY_RESPONSE"
	TypeHealthHistoryResponse = "HEALTH_HISTORY_RESPONSE"
	TypeAlertEvent            = "ALERT_EVENT"
	TypeMedicationUpdated     = "MEDICATION_UPDATED"
	TypeCommandSuccess        = "COMMAND_SUCCESS"
	TypeCommandError          = "COMMAND_ERROR"
	TypeError                 = "ERROR"
)

// Error codes carried by ERROR messages.
const (
	CodeUnknownType    = "UNKNOWN_TYPE"
	CodeInvalidPayload = "INVALID_PAYLOAD"
)

// Message is the envelope of every guardian protocol message.
type Message struct {
	Type      string          `json:"type"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	RequestID string          `json:"requestId"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// Decode unmarshals the payload into v. A missing payload decodes as {}.
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 || string(m.Payload) == "null" {
		return json.Unmarshal([]byte("{}"), v)
	}
	return json.Unmarshal(m.Payload, v)
}

// Timestamp formats t the way message timestamps are written.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

type StateResponsePayload struct {
	Elder             ElderInfo         `json:"elder"`
	RecentAlerts      []AlertInfo       `json:"recentAlerts"`
	MedicationSummary MedicationSummary `json:"medicationSummary"`
}

type ElderInfo struct {
	Name          string `json:"name"`
	Age           *int   `json:"age"`
	BatteryLevel  int    `json:"batteryLevel"`
	LastHeartbeat string `json:"lastHeartbeat"`
}

// AlertInfo describes a stored alert. ALERT_EVENT messages carry the same shape.
type AlertInfo struct {
	ID           string        `json:"id"`
	ElderID      string        `json:"elderId"`
	Type         string        `json:"type"`
	TriggeredAt  string        `json:"triggeredAt"`
	Location     *LocationInfo `json:"location"`
	BatteryLevel *int          `json:"batteryLevel"`
	Resolved     bool          `json:"resolved"`
	Notes        string        `json:"notes"`
}

type AlertEventPayload = AlertInfo

type LocationInfo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type MedicationSummary struct {
	TodayTotal  int `json:"todayTotal"`
	TakenToday  int `json:"takenToday"`
	MissedToday int `json:"missedToday"`
}

type MedicationsResponsePayload struct {
	Medications []MedicationInfo    `json:"medications"`
	Schedules   []ScheduleInfo      `json:"schedules"`
	Logs        []MedicationLogInfo `json:"logs"`
}

type MedicationInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
}

// ScheduleInfo uses "HH:mm" times and 0-6 weekdays with Sunday as 0.
type ScheduleInfo struct {
	ID           string `json:"id"`
	MedicationID string `json:"medicationId"`
	Time         string `json:"time"`
	DaysOfWeek   []int  `json:"daysOfWeek"`
	Enabled      bool   `json:"enabled"`
}

type MedicationLogInfo struct {
	ID            string  `json:"id"`
	MedicationID  string  `json:"medicationId"`
	ScheduleID    string  `json:"scheduleId"`
	ScheduledTime string  `json:"scheduledTime"`
	TakenAt       *string `json:"takenAt"`
	Status        string  `json:"status"`
}

type AlertHistoryResponsePayload struct {
	Alerts []AlertInfo `json:"alerts"`
}

type HealthHistoryResponsePayload struct {
	CheckIns []HealthCheckInInfo `json:"checkIns"`
}

type HealthCheckInInfo struct {
	ID           string   `json:"id"`
	ElderID      string   `json:"elderId"`
	Date         string   `json:"date"`
	Mood         *int     `json:"mood"`
	PainLevel    *int     `json:"painLevel"`
	SleepQuality *int     `json:"sleepQuality"`
	Symptoms     []string `json:"symptoms"`
	Notes        string   `json:"notes"`
}

// MedicationUpdatedPayload.Action is one of "added", "updated" or "deleted".
type MedicationUpdatedPayload struct {
	ElderID    string         `json:"elderId"`
	Action     string         `json:"action"`
	Medication MedicationInfo `json:"medication"`
	Schedules  []ScheduleInfo `json:"schedules"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GuardianPairedPayload struct {
	GuardianID   string `json:"guardianId"`
	GuardianName string `json:"guardianName"`
}

type GuardianUnpairedPayload struct {
	GuardianID string `json:"guardianId"`
}

type AddMedicationPayload struct {
	Name         string                      `json:"name"`
	Dosage       string                      `json:"dosage"`
	Instructions string                      `json:"instructions"`
	Schedules    []MedicationSchedulePayload `json:"schedules"`
}

type MedicationSchedulePayload struct {
	Time       string `json:"time"`
	DaysOfWeek []int  `json:"daysOfWeek"`
	Enabled    *bool  `json:"enabled,omitempty"` // defaults to true
}

// UpdateMedicationPayload changes only the fields that are present.
// Schedules, when present, replace every existing schedule.
type UpdateMedicationPayload struct {
	MedicationID string                       `json:"medicationId"`
	Name         *string                      `json:"name,omitempty"`
	Dosage       *string                      `json:"dosage,omitempty"`
	Instructions *string                      `json:"instructions,omitempty"`
	Schedules    *[]MedicationSchedulePayload `json:"schedules,omitempty"`
}

type DeleteMedicationPayload struct {
	MedicationID string `json:"medicationId"`
}

type SendReminderPayload struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority,omitempty"` // low, normal, high, urgent
}

type SendMessagePayload struct {
	GuardianName           string `json:"guardianName"`
	Message                string `json:"message"`
	RequiresAcknowledgment bool   `json:"requiresAcknowledgment,omitempty"`
}

// UpdateEmergencyContactPayload adds a contact when ContactID is empty.
type UpdateEmergencyContactPayload struct {
	ContactID    *string `json:"contactId,omitempty"`
	Name         string  `json:"name"`
	PhoneNumber  string  `json:"phoneNumber"`
	Relationship string  `json:"relationship"`
}

type DeleteEmergencyContactPayload struct {
	ContactID string `json:"contactId"`
}

type CommandSuccessPayload struct {
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
}

type CommandErrorPayload struct {
	Error   string  `json:"error"`
	Details *string `json:"details,omitempty"`
}
