// Package alerting raises alerts for the elder and tells paired guardians
// about them.
package alerting

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mrlokans/eldercare/internal/audit"
	"github.com/mrlokans/eldercare/internal/database/alerts"
	"github.com/mrlokans/eldercare/internal/database/guardians"
	"github.com/mrlokans/eldercare/internal/database/medications"
	"github.com/mrlokans/eldercare/internal/database/settings"
	"github.com/mrlokans/eldercare/internal/entities"
	"github.com/mrlokans/eldercare/internal/guardian"
)

const (
	DefaultDedupWindow = 60 * time.Minute
	DefaultGrace       = 30 * time.Minute

	// LowBatteryThreshold is the reported level at or below which a
	// low battery alert is raised.
	LowBatteryThreshold = 20

	unknownBatteryLevel = -1
)

// Dependencies are the stores and services the manager works with.
type Dependencies struct {
	Alerts      *alerts.Repository
	Guardians   *guardians.Repository
	Medications *medications.Repository
	Settings    *settings.Repository
	Audit       *audit.Service
	Hub         *guardian.Hub
	Identity    *guardian.Identity
}

type Config struct {
	// DedupWindow suppresses repeated automatic alerts of one type.
	DedupWindow time.Duration
	// Location is the zone dose times are scheduled in.
	Location *time.Location
	Now      func() time.Time
}

// Result describes a triggered alert.
type Result struct {
	Alert             entities.Alert `json:"alert"`
	GuardiansNotified int            `json:"guardians_notified"`
}

type Manager struct {
	deps        Dependencies
	dedupWindow time.Duration
	loc         *time.Location
	now         func() time.Time
}

func NewManager(deps Dependencies, cfg Config) *Manager {
	m := &Manager{
		deps:        deps,
		dedupWindow: cfg.DedupWindow,
		loc:         cfg.Location,
		now:         cfg.Now,
	}
	if m.dedupWindow <= 0 {
		m.dedupWindow = DefaultDedupWindow
	}
	if m.loc == nil {
		m.loc = time.Local
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

func (m *Manager) TriggerSOS(latitude, longitude *float64) (Result, error) {
	return m.trigger(entities.Alert{
		Type:      entities.AlertSOS,
		Notes:     "SOS emergency button activated",
		Latitude:  latitude,
		Longitude: longitude,
	})
}

func (m *Manager) TriggerFall(latitude, longitude *float64) (Result, error) {
	return m.trigger(entities.Alert{
		Type:      entities.AlertFall,
		Notes:     "Potential fall detected",
		Latitude:  latitude,
		Longitude: longitude,
	})
}

func (m *Manager) TriggerMissedMedication(medicationName, scheduledTime string) (Result, error) {
	return m.trigger(entities.Alert{
		Type:  entities.AlertMissedMed,
		Notes: fmt.Sprintf("Missed %s scheduled at %s", medicationName, scheduledTime),
	})
}

func (m *Manager) TriggerLowBattery(level int) (Result, error) {
	return m.trigger(entities.Alert{
		Type:         entities.AlertLowBattery,
		Notes:        fmt.Sprintf("Device battery is low: %d%%", level),
		BatteryLevel: &level,
	})
}

func (m *Manager) TriggerInactivity(hoursSinceActivity int) (Result, error) {
	return m.trigger(entities.Alert{
		Type:  entities.AlertInactivity,
		Notes: fmt.Sprintf("No activity detected for %d hours", hoursSinceActivity),
	})
}

// trigger stores the alert, audits it and sends ALERT_EVENT to every paired
// guardian. A failed broadcast is logged; the alert stays stored.
func (m *Manager) trigger(alert entities.Alert) (Result, error) {
	alert.TriggeredAt = m.now()
	if alert.BatteryLevel == nil {
		level, err := m.deps.Settings.GetInt(entities.SettingKeyBatteryLevel, unknownBatteryLevel)
		if err != nil {
			return Result{}, fmt.Errorf("failed to read battery level: %w", err)
		}
		if level != unknownBatteryLevel {
			alert.BatteryLevel = &level
		}
	}

	if _, err := m.deps.Alerts.Insert(&alert); err != nil {
		return Result{}, fmt.Errorf("failed to store %s alert: %w", alert.Type, err)
	}

	paired, err := m.deps.Guardians.GetAllGuardians()
	if err != nil {
		return Result{Alert: alert}, fmt.Errorf("failed to list guardians: %w", err)
	}
	m.deps.Audit.LogAlert(&alert, len(paired))
	log.Printf("Alert %d (%s) triggered: %s; notifying %d guardian(s)", alert.ID, alert.Type, alert.Notes, len(paired))

	if len(paired) > 0 {
		m.broadcast(alert, paired)
	}
	return Result{Alert: alert, GuardiansNotified: len(paired)}, nil
}

func (m *Manager) broadcast(alert entities.Alert, paired []entities.PairedGuardian) {
	elderID, err := m.deps.Identity.ElderID()
	if err != nil {
		log.Printf("Failed to broadcast alert %d: %v", alert.ID, err)
		return
	}
	ids := make([]string, 0, len(paired))
	for _, g := range paired {
		ids = append(ids, g.GuardianID)
	}
	if err := m.deps.Hub.Broadcast(elderID, guardian.TypeAlertEvent, guardian.NewAlertInfo(alert, elderID), ids); err != nil {
		log.Printf("Failed to broadcast alert %d: %v", alert.ID, err)
	}
}

// HasRecentAlert reports whether an alert of the type was triggered within
// window. A non-positive window uses the configured dedup window.
func (m *Manager) HasRecentAlert(alertType entities.AlertType, window time.Duration) (bool, error) {
	if window <= 0 {
		window = m.dedupWindow
	}
	recent, err := m.deps.Alerts.HasRecentAlert(alertType, m.now().Add(-window))
	if err != nil {
		return false, err
	}
	return recent != nil, nil
}

// Resolve marks the alert resolved now. Unknown ids return gorm.ErrRecordNotFound.
func (m *Manager) Resolve(id int64) (*entities.Alert, error) {
	if _, err := m.deps.Alerts.GetAlertByID(id); err != nil {
		return nil, err
	}
	if err := m.deps.Alerts.ResolveAlert(id, m.now()); err != nil {
		return nil, err
	}
	return m.deps.Alerts.GetAlertByID(id)
}

// CleanupResolved deletes resolved alerts older than retention.
func (m *Manager) CleanupResolved(retention time.Duration) (int64, error) {
	return m.deps.Alerts.DeleteResolvedBefore(m.now().Add(-retention))
}

// ReportBattery records the device battery level and raises a low battery
// alert when the level is at or below LowBatteryThreshold, unless one was
// raised within the dedup window. The returned result is nil when no alert
// was raised.
func (m *Manager) ReportBattery(level int) (*Result, error) {
	if level < 0 || level > 100 {
		return nil, fmt.Errorf("battery level must be between 0 and 100, got %d", level)
	}
	if err := m.deps.Settings.SetSetting(entities.SettingKeyBatteryLevel, strconv.Itoa(level)); err != nil {
		return nil, fmt.Errorf("failed to store battery level: %w", err)
	}
	if level > LowBatteryThreshold {
		return nil, nil
	}
	return m.triggerOnce(entities.AlertLowBattery, func() (Result, error) {
		return m.TriggerLowBattery(level)
	})
}

// RecordActivity stores the time the elder last used the device.
func (m *Manager) RecordActivity(at time.Time) error {
	return m.deps.Settings.SetSetting(entities.SettingKeyLastActivity, at.UTC().Format(time.RFC3339))
}

// CheckInactivity raises an inactivity alert when no activity was recorded
// for at least threshold. Devices that never reported activity are skipped.
func (m *Manager) CheckInactivity(threshold time.Duration) (*Result, error) {
	value, err := m.deps.Settings.GetValue(entities.SettingKeyLastActivity, "")
	if err != nil {
		return nil, fmt.Errorf("failed to read last activity: %w", err)
	}
	if value == "" {
		return nil, nil
	}
	last, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("malformed last activity %q: %w", value, err)
	}

	idle := m.now().Sub(last)
	if idle < threshold {
		return nil, nil
	}
	return m.triggerOnce(entities.AlertInactivity, func() (Result, error) {
		return m.TriggerInactivity(int(idle / time.Hour))
	})
}

func (m *Manager) triggerOnce(alertType entities.AlertType, fire func() (Result, error)) (*Result, error) {
	recent, err := m.HasRecentAlert(alertType, m.dedupWindow)
	if err != nil {
		return nil, err
	}
	if recent {
		return nil, nil
	}
	res, err := fire()
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CheckMissedDoses marks today's overdue doses as missed. A dose is overdue
// once grace has passed since its scheduled time and nothing was logged for
// it. Each marked dose raises a missed-medication alert unless one was
// raised within the dedup window. Returns the number of doses marked.
func (m *Manager) CheckMissedDoses(now time.Time, grace time.Duration) (int, error) {
	schedules, err := m.deps.Medications.GetActiveSchedules()
	if err != nil {
		return 0, fmt.Errorf("failed to load schedules: %w", err)
	}

	local := now.In(m.loc)
	marked := 0
	for _, s := range schedules {
		if !s.RunsOn(local.Weekday()) {
			continue
		}
		dose := s.DoseTime(local)
		if now.Before(dose.Add(grace)) {
			continue
		}

		existing, err := m.deps.Medications.FindLogForDose(s.MedicationID, dose)
		if err != nil {
			return marked, fmt.Errorf("failed to look up dose of medication %d: %w", s.MedicationID, err)
		}
		if existing != nil {
			continue
		}

		name := "medication"
		if s.Medication != nil {
			name = s.Medication.Name
		}
		scheduledAt := dose.Format("15:04")
		_, err = m.deps.Medications.InsertLog(&entities.MedicationLog{
			MedicationID:  s.MedicationID,
			ScheduledTime: dose,
			ActionTime:    now,
			Action:        entities.ActionMissed,
			Notes:         "No action recorded within the grace period",
		})
		if err != nil {
			return marked, fmt.Errorf("failed to log missed dose of medication %d: %w", s.MedicationID, err)
		}
		marked++
		m.deps.Audit.LogMedication("dose_missed", fmt.Sprintf("Missed %s scheduled at %s", name, scheduledAt), s.MedicationID)

		_, err = m.triggerOnce(entities.AlertMissedMed, func() (Result, error) {
			return m.TriggerMissedMedication(name, scheduledAt)
		})
		if err != nil {
			return marked, err
		}
	}

	return marked, nil
}
