package tasks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mikestefanello/backlite"
)

// Inline runs maintenance tasks synchronously in the caller. It stands in
// for Client when the queue is disabled.
type Inline struct {
	missedDoses backlite.QueueProcessor[CheckMissedDosesTask]
	inactivity  backlite.QueueProcessor[CheckInactivityTask]
	alerts      backlite.QueueProcessor[CleanupResolvedAlertsTask]
	audit       backlite.QueueProcessor[CleanupAuditEventsTask]
}

// Maintainer is everything the maintenance tasks act on.
type Maintainer interface {
	MissedDoseChecker
	InactivityChecker
	ResolvedAlertCleaner
}

func NewInline(alerts Maintainer, audit AuditEventCleaner) *Inline {
	return &Inline{
		missedDoses: CheckMissedDosesProcessor(alerts, nil),
		inactivity:  CheckInactivityProcessor(alerts),
		alerts:      CleanupResolvedAlertsProcessor(alerts),
		audit:       CleanupAuditEventsProcessor(audit),
	}
}

// Enqueue runs the task at once. The returned id is only for log
// correlation; nothing is stored.
func (i *Inline) Enqueue(task backlite.Task) (string, error) {
	ctx := context.Background()
	var err error
	switch t := task.(type) {
	case CheckMissedDosesTask:
		err = i.missedDoses(ctx, t)
	case CheckInactivityTask:
		err = i.inactivity(ctx, t)
	case CleanupResolvedAlertsTask:
		err = i.alerts(ctx, t)
	case CleanupAuditEventsTask:
		err = i.audit(ctx, t)
	default:
		return "", fmt.Errorf("no inline processor for %s", task.Config().Name)
	}
	if err != nil {
		return "", err
	}
	return uuid.NewString(), nil
}
