package guardian

import (
	"fmt"

	"github.com/mrlokans/eldercare/internal/entities"
)

func (d *Dispatcher) handleGetState(msg Message) (Message, error) {
	elderID, err := d.identity.ElderID()
	if err != nil {
		return Message{}, err
	}
	elder, err := d.elderInfo()
	if err != nil {
		return Message{}, err
	}

	recent, err := d.repos.Alerts.GetRecentAlerts(recentStateAlerts)
	if err != nil {
		return Message{}, fmt.Errorf("failed to load recent alerts: %w", err)
	}
	alertInfos := make([]AlertInfo, 0, len(recent))
	for _, a := range recent {
		alertInfos = append(alertInfos, NewAlertInfo(a, elderID))
	}

	summary, err := d.repos.Medications.TodaySummary(d.now().In(d.loc))
	if err != nil {
		return Message{}, err
	}

	return d.reply(msg, TypeStateResponse, StateResponsePayload{
		Elder:        elder,
		RecentAlerts: alertInfos,
		MedicationSummary: MedicationSummary{
			TodayTotal:  summary.Total,
			TakenToday:  summary.Taken,
			MissedToday: summary.Missed,
		},
	})
}

func (d *Dispatcher) elderInfo() (ElderInfo, error) {
	name, err := d.repos.Settings.GetValue(entities.SettingKeyElderName, "")
	if err != nil {
		return ElderInfo{}, fmt.Errorf("failed to read elder name: %w", err)
	}
	age, err := d.repos.Settings.GetInt(entities.SettingKeyElderAge, 0)
	if err != nil {
		return ElderInfo{}, fmt.Errorf("failed to read elder age: %w", err)
	}
	battery, err := d.repos.Settings.GetInt(entities.SettingKeyBatteryLevel, unknownBatteryLevel)
	if err != nil {
		return ElderInfo{}, fmt.Errorf("failed to read battery level: %w", err)
	}

	info := ElderInfo{
		Name:          name,
		BatteryLevel:  battery,
		LastHeartbeat: Timestamp(d.now()),
	}
	if age > 0 {
		info.Age = &age
	}
	return info, nil
}

func (d *Dispatcher) handleGetMedications(msg Message) (Message, error) {
	meds, err := d.repos.Medications.GetAllActiveMedications()
	if err != nil {
		return Message{}, fmt.Errorf("failed to load medications: %w", err)
	}

	payload := MedicationsResponsePayload{
		Medications: make([]MedicationInfo, 0, len(meds)),
		Schedules:   []ScheduleInfo{},
	}
	for _, med := range meds {
		payload.Medications = append(payload.Medications, newMedicationInfo(med))
		schedules, err := d.repos.Medications.GetSchedulesForMedication(med.ID)
		if err != nil {
			return Message{}, fmt.Errorf("failed to load schedules of medication %d: %w", med.ID, err)
		}
		payload.Schedules = append(payload.Schedules, newScheduleInfos(schedules)...)
	}

	now := d.now()
	logs, err := d.repos.Medications.GetLogsBetweenDates(now.AddDate(0, 0, -medicationLogDays), now)
	if err != nil {
		return Message{}, fmt.Errorf("failed to load medication logs: %w", err)
	}
	payload.Logs = make([]MedicationLogInfo, 0, len(logs))
	for _, l := range logs {
		payload.Logs = append(payload.Logs, newMedicationLogInfo(l))
	}

	return d.reply(msg, TypeMedicationsResponse, payload)
}

func (d *Dispatcher) handleGetAlertHistory(msg Message) (Message, error) {
	elderID, err := d.identity.ElderID()
	if err != nil {
		return Message{}, err
	}
	all, err := d.repos.Alerts.GetAllAlerts()
	if err != nil {
		return Message{}, fmt.Errorf("failed to load alerts: %w", err)
	}

	payload := AlertHistoryResponsePayload{Alerts: make([]AlertInfo, 0, len(all))}
	for _, a := range all {
		payload.Alerts = append(payload.Alerts, NewAlertInfo(a, elderID))
	}
	return d.reply(msg, TypeAlertHistoryResponse, payload)
}

func (d *Dispatcher) handleGetHealthHistory(msg Message) (Message, error) {
	elderID, err := d.identity.ElderID()
	if err != nil {
		return Message{}, err
	}
	all, err := d.repos.CheckIns.GetAllCheckIns()
	if err != nil {
		return Message{}, fmt.Errorf("failed to load check-ins: %w", err)
	}

	payload := HealthHistoryResponsePayload{CheckIns: make([]HealthCheckInInfo, 0, len(all))}
	for _, c := range all {
		payload.CheckIns = append(payload.CheckIns, newHealthCheckInInfo(c, elderID, d.loc))
	}
	return d.reply(msg, TypeHealthHistoryResponse, payload)
}
