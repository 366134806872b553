package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/eldercare/internal/alerting"
	"github.com/mrlokans/eldercare/internal/audit"
	"github.com/mrlokans/eldercare/internal/scheduler"
	"github.com/mrlokans/eldercare/internal/tasks"
)

// =============================================================================
// Maintenance Jobs
// =============================================================================

// Task processors act on the alert manager and the audit service
var _ tasks.MissedDoseChecker = (*alerting.Manager)(nil)
var _ tasks.InactivityChecker = (*alerting.Manager)(nil)
var _ tasks.ResolvedAlertCleaner = (*alerting.Manager)(nil)
var _ tasks.Maintainer = (*alerting.Manager)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// Enqueuer implementations
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Inline)(nil)
