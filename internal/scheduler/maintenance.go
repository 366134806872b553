// Package scheduler enqueues the service's periodic maintenance jobs on
// cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/eldercare/internal/tasks"
)

const (
	JobMissedDoses   = "check_missed_doses"
	JobInactivity    = "check_inactivity"
	JobResolvedAlert = "cleanup_resolved_alerts"
	JobAuditEvents   = "cleanup_audit_events"

	DefaultMissedDoseSchedule = "*/5 * * * *"
	DefaultInactivitySchedule = "0 * * * *"
	DefaultCleanupSchedule    = "30 3 * * *"
)

var ErrUnknownJob = errors.New("unknown maintenance job")

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer accepts tasks for execution. Both tasks.Client and tasks.Inline
// satisfy it.
type Enqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

type Config struct {
	MissedDoseEnabled  bool
	MissedDoseSchedule string
	MissedDoseGrace    time.Duration

	InactivityEnabled   bool
	InactivitySchedule  string
	InactivityThreshold time.Duration

	// CleanupSchedule runs both retention cleanups.
	CleanupSchedule    string
	AlertRetentionDays int
	AuditRetentionDays int
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", spec, err)
	}
	return nil
}

// MaintenanceScheduler enqueues the missed-dose scan and the retention
// cleanups.
type MaintenanceScheduler struct {
	queue Enqueuer
	cfg   Config

	cron      *cron.Cron
	mu        sync.RWMutex
	entries   map[string]cron.EntryID
	isRunning bool
}

func NewMaintenanceScheduler(queue Enqueuer, cfg Config) *MaintenanceScheduler {
	if cfg.MissedDoseSchedule == "" {
		cfg.MissedDoseSchedule = DefaultMissedDoseSchedule
	}
	if cfg.InactivitySchedule == "" {
		cfg.InactivitySchedule = DefaultInactivitySchedule
	}
	if cfg.CleanupSchedule == "" {
		cfg.CleanupSchedule = DefaultCleanupSchedule
	}
	return &MaintenanceScheduler{
		queue:   queue,
		cfg:     cfg,
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
	}
}

// Start registers the jobs and starts the cron loop. The scheduler stops by
// itself when ctx is done.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	jobs := map[string]string{
		JobResolvedAlert: s.cfg.CleanupSchedule,
		JobAuditEvents:   s.cfg.CleanupSchedule,
	}
	if s.cfg.MissedDoseEnabled {
		jobs[JobMissedDoses] = s.cfg.MissedDoseSchedule
	} else {
		log.Printf("Maintenance scheduler: missed dose check disabled")
	}
	if s.cfg.InactivityEnabled {
		jobs[JobInactivity] = s.cfg.InactivitySchedule
	}

	for job, spec := range jobs {
		if err := ValidateSchedule(spec); err != nil {
			return fmt.Errorf("%s: %w", job, err)
		}
	}
	for job, spec := range jobs {
		job := job
		id, err := s.cron.AddFunc(spec, func() {
			if err := s.RunNow(job); err != nil {
				log.Printf("Maintenance scheduler: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %s: %w", job, err)
		}
		s.entries[job] = id
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Maintenance scheduler: started with %d job(s)", len(jobs))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to finish and removes every job.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	for job, id := range s.entries {
		s.cron.Remove(id)
		delete(s.entries, job)
	}
	s.isRunning = false

	log.Printf("Maintenance scheduler: stopped")
}

// RunNow enqueues one job immediately.
func (s *MaintenanceScheduler) RunNow(job string) error {
	task, err := s.task(job)
	if err != nil {
		return err
	}
	id, err := s.queue.Enqueue(task)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", job, err)
	}
	log.Printf("Maintenance scheduler: enqueued %s (%s)", job, id)
	return nil
}

func (s *MaintenanceScheduler) task(job string) (backlite.Task, error) {
	switch job {
	case JobMissedDoses:
		return tasks.CheckMissedDosesTask{GraceMinutes: int(s.cfg.MissedDoseGrace / time.Minute)}, nil
	case JobInactivity:
		return tasks.CheckInactivityTask{ThresholdHours: int(s.cfg.InactivityThreshold / time.Hour)}, nil
	case JobResolvedAlert:
		return tasks.CleanupResolvedAlertsTask{RetentionDays: s.cfg.AlertRetentionDays}, nil
	case JobAuditEvents:
		return tasks.CleanupAuditEventsTask{RetentionDays: s.cfg.AuditRetentionDays}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownJob, job)
}

func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when job fires next, or nil when it is not scheduled.
func (s *MaintenanceScheduler) NextRun(job string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.entries[job]
	if !ok || !s.isRunning {
		return nil
	}
	next := s.cron.Entry(id).Next
	return &next
}
