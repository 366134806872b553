package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

const defaultAlertRetentionDays = 90

// ResolvedAlertCleaner deletes resolved alerts older than retention.
type ResolvedAlertCleaner interface {
	CleanupResolved(retention time.Duration) (int64, error)
}

// CleanupResolvedAlertsTask deletes alerts that were resolved more than
// RetentionDays ago. Unresolved alerts are never removed.
type CleanupResolvedAlertsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupResolvedAlertsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_resolved_alerts",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func CleanupResolvedAlertsProcessor(cleaner ResolvedAlertCleaner) backlite.QueueProcessor[CleanupResolvedAlertsTask] {
	return func(ctx context.Context, task CleanupResolvedAlertsTask) error {
		if cleaner == nil {
			return fmt.Errorf("resolved alert cleaner not configured")
		}

		days := task.RetentionDays
		if days <= 0 {
			days = defaultAlertRetentionDays
		}
		deleted, err := cleaner.CleanupResolved(days2duration(days))
		if err != nil {
			return fmt.Errorf("cleanup resolved alerts: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d resolved alerts older than %d days", deleted, days)
		return nil
	}
}

func NewCleanupResolvedAlertsQueue(cleaner ResolvedAlertCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupResolvedAlertsProcessor(cleaner))
}
