package http

import (
	"sync"
	"time"
)

// failureLimiter locks a client out after repeated rejected messages. Clients
// are keyed by IP alone since the sender id in a message is caller supplied.
// Failures expire with the window; accepted messages do not clear them.
type failureLimiter struct {
	mu          sync.Mutex
	records     map[string]*failureRecord
	maxFailures int
	window      time.Duration
	lockout     time.Duration
	now         func() time.Time
}

type failureRecord struct {
	count        int
	firstFailure time.Time
	lockedUntil  time.Time
}

type limiterConfig struct {
	MaxFailures int           // Rejected messages before lockout (default: 10)
	Window      time.Duration // Time window for counting failures (default: 5m)
	Lockout     time.Duration // How long a locked sender is refused (default: 15m)
}

func newFailureLimiter(cfg limiterConfig) *failureLimiter {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = 5 * time.Minute
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = 15 * time.Minute
	}
	return &failureLimiter{
		records:     make(map[string]*failureRecord),
		maxFailures: cfg.MaxFailures,
		window:      cfg.Window,
		lockout:     cfg.Lockout,
		now:         time.Now,
	}
}

// Allow reports whether the client may send, and if not, for how long it
// stays locked out.
func (l *failureLimiter) Allow(ip string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.records[ip]
	if !ok {
		return true, 0
	}
	if now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a rejected message and reports whether the client
// is now locked out.
func (l *failureLimiter) RecordFailure(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)

	record, ok := l.records[ip]
	if !ok || now.Sub(record.firstFailure) > l.window {
		record = &failureRecord{firstFailure: now}
		l.records[ip] = record
	}

	record.count++
	if record.count >= l.maxFailures {
		record.lockedUntil = now.Add(l.lockout)
		return true
	}
	return false
}

// pruneLocked drops records whose window and lockout have both passed.
func (l *failureLimiter) pruneLocked(now time.Time) {
	for key, record := range l.records {
		if now.Sub(record.firstFailure) > l.window && !now.Before(record.lockedUntil) {
			delete(l.records, key)
		}
	}
}
