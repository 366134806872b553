package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/eldercare/internal/tasks"
)

type recordingQueue struct {
	mu    sync.Mutex
	tasks []backlite.Task
	err   error
}

func (q *recordingQueue) Enqueue(task backlite.Task) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return "", q.err
	}
	q.tasks = append(q.tasks, task)
	return "task-1", nil
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("*/5 * * * *"))
	assert.NoError(t, ValidateSchedule("30 3 * * *"))
	assert.Error(t, ValidateSchedule("* * * * * *"), "seconds field is not accepted")
	assert.Error(t, ValidateSchedule("every minute"))
}

func TestMaintenanceScheduler_StartStop(t *testing.T) {
	s := NewMaintenanceScheduler(&recordingQueue{}, Config{MissedDoseEnabled: true, InactivityEnabled: true})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx), "second start is a no-op")
	assert.True(t, s.IsRunning())

	for _, job := range []string{JobMissedDoses, JobInactivity, JobResolvedAlert, JobAuditEvents} {
		next := s.NextRun(job)
		require.NotNil(t, next, job)
		assert.True(t, next.After(time.Now().Add(-time.Second)), job)
	}

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
	assert.Nil(t, s.NextRun(JobMissedDoses))
}

func TestMaintenanceScheduler_MissedDoseDisabled(t *testing.T) {
	s := NewMaintenanceScheduler(&recordingQueue{}, Config{})
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Nil(t, s.NextRun(JobMissedDoses))
	assert.Nil(t, s.NextRun(JobInactivity))
	assert.NotNil(t, s.NextRun(JobAuditEvents))
}

func TestMaintenanceScheduler_InvalidSchedule(t *testing.T) {
	s := NewMaintenanceScheduler(&recordingQueue{}, Config{MissedDoseEnabled: true, MissedDoseSchedule: "bogus"})
	err := s.Start(context.Background())
	assert.ErrorContains(t, err, JobMissedDoses)
	assert.False(t, s.IsRunning())
}

func TestMaintenanceScheduler_RunNow(t *testing.T) {
	queue := &recordingQueue{}
	s := NewMaintenanceScheduler(queue, Config{
		MissedDoseGrace:     45 * time.Minute,
		InactivityThreshold: 8 * time.Hour,
		AlertRetentionDays:  90,
		AuditRetentionDays:  30,
	})

	require.NoError(t, s.RunNow(JobMissedDoses))
	require.NoError(t, s.RunNow(JobInactivity))
	require.NoError(t, s.RunNow(JobResolvedAlert))
	require.NoError(t, s.RunNow(JobAuditEvents))
	assert.Equal(t, []backlite.Task{
		tasks.CheckMissedDosesTask{GraceMinutes: 45},
		tasks.CheckInactivityTask{ThresholdHours: 8},
		tasks.CleanupResolvedAlertsTask{RetentionDays: 90},
		tasks.CleanupAuditEventsTask{RetentionDays: 30},
	}, queue.tasks)

	assert.ErrorIs(t, s.RunNow("reindex"), ErrUnknownJob)

	queue.err = errors.New("queue closed")
	assert.ErrorContains(t, s.RunNow(JobAuditEvents), "queue closed")
}
