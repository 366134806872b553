// Package database opens the local SQLite store and owns its schema.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, identity check, migrations
//	├── schema.go        # Declared vs. actual table validation
//	├── callbacks.go     # UTC normalization of time columns
//	├── live/            # Table invalidation tracker and reactive queries
//	├── medications/     # Medications, schedules and dose logs
//	├── contacts/        # Emergency and speed dial contacts
//	├── appointments/    # Appointments
//	├── notes/           # Free-form notes
//	├── profile/         # Single-row medical profile
//	├── hydration/       # Daily glass counters
//	├── alerts/          # Safety alerts
//	├── checkins/        # Daily health check-ins
//	├── guardians/       # Paired guardians
//	├── settings/        # Key/value settings
//	└── audit/           # Audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository built from the shared connection
// and the change tracker:
//
//	db, err := database.NewDatabase("./eldercare.db", database.Options{})
//
//	meds := medications.NewRepository(db.DB, db.Tracker)
//	contactsRepo := contacts.NewRepository(db.DB, db.Tracker)
//
//	id, err := meds.Insert(entities.NewMedication("Aspirin", "100mg", entities.FrequencyDaily))
//	err = contactsRepo.SetPrimaryContact(3)
//
// Writes notify the tracker after they commit. Watch methods re-run their
// query whenever one of the tables they read changes.
//
// # Schema identity
//
// The declared schema is hashed together with SchemaVersion and stored in
// schema_master. Opening a file written by another schema either drops and
// recreates the data tables (Options.DestructiveFallback) or fails with
// ErrIdentityMismatch. After migration every table is compared column by
// column with its entity; a difference fails with ErrSchemaMismatch.
package database
