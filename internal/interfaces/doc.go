// Package interfaces documents the abstractions that connect the layers of
// the service.
//
// # Interface Categories
//
// ## Maintenance Jobs
//
//   - MissedDoseChecker: marks overdue doses (internal/tasks/missed_doses.go)
//   - InactivityChecker: raises inactivity alerts (internal/tasks/inactivity.go)
//   - ResolvedAlertCleaner: prunes resolved alerts (internal/tasks/cleanup_alerts.go)
//   - AuditEventCleaner: prunes the audit trail (internal/tasks/cleanup_audit.go)
//   - Enqueuer: accepts maintenance tasks (internal/scheduler/maintenance.go)
//
// All four job interfaces are implemented by alerting.Manager and
// audit.Service. Enqueuer is implemented by tasks.Client (backlite queue)
// and tasks.Inline (synchronous, used when the queue is disabled).
//
// ## Data Access
//
// Repositories under internal/database/<domain> are concrete types taking
// *gorm.DB and the change tracker. Every write notifies the tracker with the
// tables it touched after the statement or transaction commits, and every
// Watch method is live.Watch over the matching query.
//
// # Compile-Time Checks
//
// checks.go holds var _ Interface = (*Impl)(nil) assertions so a missing
// method fails the build.
package interfaces
