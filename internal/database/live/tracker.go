// Package live implements table-level change notification and the reactive
// queries built on it.
//
// Repositories call Notify with the tables they wrote once the write has
// committed. Watch re-runs a query every time one of its tables is notified
// and emits the fresh result:
//
//	ch := live.Watch(ctx, tracker, repo.GetUnresolvedAlerts, entities.TableAlerts)
//	for res := range ch {
//		if res.Err != nil {
//			return res.Err
//		}
//		render(res.Value)
//	}
package live

import (
	"sync"
)

// Tracker fans out table invalidations to subscribers.
// The zero value is not usable; a nil *Tracker ignores every call.
type Tracker struct {
	mu   sync.Mutex
	subs map[string]map[*subscription]struct{}
}

type subscription struct {
	ch     chan struct{}
	tables []string
}

func NewTracker() *Tracker {
	return &Tracker{subs: make(map[string]map[*subscription]struct{})}
}

// Subscribe returns a channel that receives a signal after any of the given
// tables changes. Signals coalesce: a subscriber that has not drained the
// previous signal sees one pending signal, not many. The returned cancel
// function unsubscribes; it is safe to call more than once.
func (t *Tracker) Subscribe(tables ...string) (<-chan struct{}, func()) {
	sub := &subscription{ch: make(chan struct{}, 1), tables: dedupe(tables)}
	if t == nil {
		return sub.ch, func() {}
	}

	t.mu.Lock()
	for _, table := range sub.tables {
		set, ok := t.subs[table]
		if !ok {
			set = make(map[*subscription]struct{})
			t.subs[table] = set
		}
		set[sub] = struct{}{}
	}
	t.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() { t.remove(sub) })
	}
}

// Notify signals every subscriber of the given tables.
func (t *Tracker) Notify(tables ...string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	notified := make(map[*subscription]struct{})
	for _, table := range tables {
		for sub := range t.subs[table] {
			if _, done := notified[sub]; done {
				continue
			}
			notified[sub] = struct{}{}
			select {
			case sub.ch <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribers returns the number of live subscriptions on a table.
func (t *Tracker) Subscribers(table string) int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs[table])
}

func (t *Tracker) remove(sub *subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, table := range sub.tables {
		set := t.subs[table]
		delete(set, sub)
		if len(set) == 0 {
			delete(t.subs, table)
		}
	}
}

func dedupe(tables []string) []string {
	seen := make(map[string]struct{}, len(tables))
	out := make([]string, 0, len(tables))
	for _, table := range tables {
		if _, ok := seen[table]; ok {
			continue
		}
		seen[table] = struct{}{}
		out = append(out, table)
	}
	return out
}
