package medications

import (
	"fmt"
	"time"

	"github.com/mrlokans/eldercare/internal/entities"
	"github.com/mrlokans/eldercare/internal/utils"
)

// DaySummary counts the doses of one calendar day.
type DaySummary struct {
	Total  int `json:"total"`
	Taken  int `json:"taken"`
	Missed int `json:"missed"`
}

// TodaySummary counts doses for the day containing t. Total is the number
// of enabled schedules of active medications that run on that weekday.
// Skipped doses count as missed.
func (r *Repository) TodaySummary(t time.Time) (DaySummary, error) {
	var summary DaySummary

	schedules, err := r.GetActiveSchedules()
	if err != nil {
		return summary, fmt.Errorf("failed to load schedules: %w", err)
	}
	for _, s := range schedules {
		if s.RunsOn(t.Weekday()) {
			summary.Total++
		}
	}

	start, end := utils.DayBounds(t)
	logs, err := r.GetLogsBetweenDates(start, end)
	if err != nil {
		return summary, fmt.Errorf("failed to load logs: %w", err)
	}
	for _, l := range logs {
		switch l.Action {
		case entities.ActionTaken:
			summary.Taken++
		case entities.ActionSkipped, entities.ActionMissed:
			summary.Missed++
		}
	}

	return summary, nil
}
