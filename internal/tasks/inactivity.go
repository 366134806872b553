package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/eldercare/internal/alerting"
)

const defaultInactivityHours = 12

type InactivityChecker interface {
	CheckInactivity(threshold time.Duration) (*alerting.Result, error)
}

// CheckInactivityTask raises an inactivity alert when the device reported no
// activity for ThresholdHours.
type CheckInactivityTask struct {
	ThresholdHours int `json:"threshold_hours"`
}

func (t CheckInactivityTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "check_inactivity",
		MaxAttempts: 2,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   6 * time.Hour,
			OnlyFailed: true,
		},
	}
}

func CheckInactivityProcessor(checker InactivityChecker) backlite.QueueProcessor[CheckInactivityTask] {
	return func(ctx context.Context, task CheckInactivityTask) error {
		if checker == nil {
			return fmt.Errorf("inactivity checker not configured")
		}

		hours := task.ThresholdHours
		if hours <= 0 {
			hours = defaultInactivityHours
		}
		res, err := checker.CheckInactivity(time.Duration(hours) * time.Hour)
		if err != nil {
			return fmt.Errorf("check inactivity: %w", err)
		}

		if res != nil {
			log.Printf("[TASK] Raised inactivity alert %d", res.Alert.ID)
		}
		return nil
	}
}

func NewCheckInactivityQueue(checker InactivityChecker) backlite.Queue {
	return backlite.NewQueue(CheckInactivityProcessor(checker))
}
