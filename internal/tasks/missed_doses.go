package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

const defaultGraceMinutes = 30

type MissedDoseChecker interface {
	CheckMissedDoses(now time.Time, grace time.Duration) (int, error)
}

// CheckMissedDosesTask marks today's overdue doses as missed.
// GraceMinutes is how long after its scheduled time a dose may still be
// taken before it counts as missed.
type CheckMissedDosesTask struct {
	GraceMinutes int `json:"grace_minutes"`
}

func (t CheckMissedDosesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "check_missed_doses",
		MaxAttempts: 2,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   6 * time.Hour,
			OnlyFailed: true,
		},
	}
}

func CheckMissedDosesProcessor(checker MissedDoseChecker, now func() time.Time) backlite.QueueProcessor[CheckMissedDosesTask] {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, task CheckMissedDosesTask) error {
		if checker == nil {
			return fmt.Errorf("missed dose checker not configured")
		}

		grace := task.GraceMinutes
		if grace < 0 {
			grace = defaultGraceMinutes
		}
		marked, err := checker.CheckMissedDoses(now(), time.Duration(grace)*time.Minute)
		if err != nil {
			return fmt.Errorf("check missed doses: %w", err)
		}

		if marked > 0 {
			log.Printf("[TASK] Marked %d dose(s) as missed", marked)
		}
		return nil
	}
}

func NewCheckMissedDosesQueue(checker MissedDoseChecker) backlite.Queue {
	return backlite.NewQueue(CheckMissedDosesProcessor(checker, nil))
}
