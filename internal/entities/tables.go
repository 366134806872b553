package entities

// Table names. Change notification is keyed on these.
const (
	TableMedications         = "medications"
	TableMedicationSchedules = "medication_schedules"
	TableMedicationLogs      = "medication_logs"
	TableEmergencyContacts   = "emergency_contacts"
	TableAppointments        = "appointments"
	TableNotes               = "notes"
	TableSpeedDialContacts   = "speed_dial_contacts"
	TableMedicalProfile      = "medical_profile"
	TableHydrationLogs       = "hydration_logs"
	TableAlerts              = "alerts"
	TableHealthCheckIns      = "health_checkins"
	TablePairedGuardians     = "paired_guardians"
	TableSettings            = "settings"
	TableAuditEvents         = "audit_events"
)

// DataModels returns one value per user-data table, parents before children.
func DataModels() []any {
	return []any{
		&Medication{},
		&MedicationSchedule{},
		&MedicationLog{},
		&EmergencyContact{},
		&Appointment{},
		&Note{},
		&SpeedDialContact{},
		&MedicalProfile{},
		&HydrationLog{},
		&Alert{},
		&HealthCheckIn{},
		&PairedGuardian{},
	}
}

// SupportModels returns the bookkeeping tables kept alongside user data.
func SupportModels() []any {
	return []any{
		&Setting{},
		&AuditEvent{},
	}
}

// DataTables lists the user-data table names in DataModels order.
func DataTables() []string {
	return []string{
		TableMedications,
		TableMedicationSchedules,
		TableMedicationLogs,
		TableEmergencyContacts,
		TableAppointments,
		TableNotes,
		TableSpeedDialContacts,
		TableMedicalProfile,
		TableHydrationLogs,
		TableAlerts,
		TableHealthCheckIns,
		TablePairedGuardians,
	}
}
