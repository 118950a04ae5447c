package auditevents

import (
	"context"
	"time"

	"github.com/companylock/agent/internal/store/models"
)

// Repository describes persistence operations for the append-only audit log.
// The Delete* methods count matching rows before deleting and return that
// count; callers wanting the count to be exact must run them inside a
// transaction (dbx.WithTx) so no writer can slip rows in between.
type Repository interface {
	// Insert appends one audit event.
	Insert(ctx context.Context, ev *models.AuditEvent) error

	// Count returns the total number of audit events.
	Count(ctx context.Context) (int64, error)

	// DeleteAll removes every audit event and returns the count removed.
	DeleteAll(ctx context.Context) (int64, error)

	// DeleteByRange removes events with from <= timestamp <= to (inclusive).
	DeleteByRange(ctx context.Context, from, to time.Time) (int64, error)

	// DeleteByType removes events of the given event type.
	DeleteByType(ctx context.Context, eventType string) (int64, error)

	// DeleteByEmployee removes events referencing the given employee id.
	DeleteByEmployee(ctx context.Context, employeeID int64) (int64, error)

	// DeleteOlderThan removes events with timestamp strictly before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
