// Package services assembles the repositories and domain services on top
// of one opened database, so the server and the CLI share one wiring.
package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mrlokans/eldercare/internal/alerting"
	"github.com/mrlokans/eldercare/internal/audit"
	"github.com/mrlokans/eldercare/internal/database"
	"github.com/mrlokans/eldercare/internal/database/alerts"
	"github.com/mrlokans/eldercare/internal/database/appointments"
	auditRepo "github.com/mrlokans/eldercare/internal/database/audit"
	"github.com/mrlokans/eldercare/internal/database/checkins"
	"github.com/mrlokans/eldercare/internal/database/contacts"
	"github.com/mrlokans/eldercare/internal/database/guardians"
	"github.com/mrlokans/eldercare/internal/database/hydration"
	"github.com/mrlokans/eldercare/internal/database/medications"
	"github.com/mrlokans/eldercare/internal/database/notes"
	"github.com/mrlokans/eldercare/internal/database/profile"
	"github.com/mrlokans/eldercare/internal/database/settings"
	"github.com/mrlokans/eldercare/internal/entities"
	"github.com/mrlokans/eldercare/internal/guardian"
)

// Repositories holds one access object per table group.
type Repositories struct {
	Alerts       *alerts.Repository
	Appointments *appointments.Repository
	Audit        *auditRepo.Repository
	CheckIns     *checkins.Repository
	Contacts     *contacts.Repository
	Guardians    *guardians.Repository
	Hydration    *hydration.Repository
	Medications  *medications.Repository
	Notes        *notes.Repository
	Profile      *profile.Repository
	Settings     *settings.Repository
}

func NewRepositories(db *database.Database) *Repositories {
	return &Repositories{
		Alerts:       alerts.NewRepository(db.DB, db.Tracker),
		Appointments: appointments.NewRepository(db.DB, db.Tracker),
		Audit:        auditRepo.NewRepository(db.DB, db.Tracker),
		CheckIns:     checkins.NewRepository(db.DB, db.Tracker),
		Contacts:     contacts.NewRepository(db.DB, db.Tracker),
		Guardians:    guardians.NewRepository(db.DB, db.Tracker),
		Hydration:    hydration.NewRepository(db.DB, db.Tracker),
		Medications:  medications.NewRepository(db.DB, db.Tracker),
		Notes:        notes.NewRepository(db.DB, db.Tracker),
		Profile:      profile.NewRepository(db.DB, db.Tracker),
		Settings:     settings.NewRepository(db.DB, db.Tracker),
	}
}

type Options struct {
	DedupWindow time.Duration
	// Location is the zone calendar days and dose times are computed in.
	Location *time.Location
	Now      func() time.Time
}

type Services struct {
	Repos      *Repositories
	Audit      *audit.Service
	Hub        *guardian.Hub
	Identity   *guardian.Identity
	Alerts     *alerting.Manager
	Dispatcher *guardian.Dispatcher

	loc *time.Location
	now func() time.Time
}

func New(db *database.Database, opts Options) *Services {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	repos := NewRepositories(db)
	auditService := audit.NewService(repos.Audit)
	hub := guardian.NewHub()
	identity := guardian.NewIdentity(repos.Settings)

	manager := alerting.NewManager(alerting.Dependencies{
		Alerts:      repos.Alerts,
		Guardians:   repos.Guardians,
		Medications: repos.Medications,
		Settings:    repos.Settings,
		Audit:       auditService,
		Hub:         hub,
		Identity:    identity,
	}, alerting.Config{
		DedupWindow: opts.DedupWindow,
		Location:    opts.Location,
		Now:         opts.Now,
	})

	dispatcher := guardian.NewDispatcher(guardian.Repositories{
		Alerts:      repos.Alerts,
		CheckIns:    repos.CheckIns,
		Contacts:    repos.Contacts,
		Guardians:   repos.Guardians,
		Medications: repos.Medications,
		Notes:       repos.Notes,
		Settings:    repos.Settings,
	}, auditService, identity, hub, guardian.WithClock(opts.Now), guardian.WithLocation(opts.Location))

	return &Services{
		Repos:      repos,
		Audit:      auditService,
		Hub:        hub,
		Identity:   identity,
		Alerts:     manager,
		Dispatcher: dispatcher,
		loc:        opts.Location,
		now:        opts.Now,
	}
}

// Now returns the current time in the configured location.
func (s *Services) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *Services) Location() *time.Location {
	return s.loc
}

// SeedElder stores the elder's name and age unless they are already set.
// Empty values are skipped.
func (s *Services) SeedElder(name string, age int) error {
	seeds := map[string]string{}
	if name != "" {
		seeds[entities.SettingKeyElderName] = name
	}
	if age > 0 {
		seeds[entities.SettingKeyElderAge] = strconv.Itoa(age)
	}
	for key, value := range seeds {
		existing, err := s.Repos.Settings.GetValue(key, "")
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if existing != "" {
			continue
		}
		if err := s.Repos.Settings.SetSetting(key, value); err != nil {
			return fmt.Errorf("failed to seed %s: %w", key, err)
		}
	}
	return nil
}

// Close waits for pending audit writes.
func (s *Services) Close() {
	s.Audit.Wait()
}
