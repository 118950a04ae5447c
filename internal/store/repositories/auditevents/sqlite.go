package auditevents

import (
	"context"
	"fmt"
	"time"

	"github.com/companylock/agent/internal/dbx"
	"github.com/companylock/agent/internal/store/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, ev *models.AuditEvent) error {
	query := `INSERT INTO audit_events (event_type, employee_id, device_id, description, timestamp, session_id)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		ev.EventType, ev.EmployeeID, ev.DeviceID, ev.Description, ev.Timestamp, ev.SessionID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// countThenDelete counts the rows matching where, deletes them, and returns
// the count. Consistency between the two statements is the caller's concern
// (transaction or single-writer store).
func (r *SQLiteRepository) countThenDelete(ctx context.Context, where string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_events WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return 0, nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM audit_events WHERE `+where, args...); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.countThenDelete(ctx, `1 = 1`)
}

func (r *SQLiteRepository) DeleteByRange(ctx context.Context, from, to time.Time) (int64, error) {
	return r.countThenDelete(ctx, `timestamp >= ? AND timestamp <= ?`, from, to)
}

func (r *SQLiteRepository) DeleteByType(ctx context.Context, eventType string) (int64, error) {
	return r.countThenDelete(ctx, `event_type = ?`, eventType)
}

func (r *SQLiteRepository) DeleteByEmployee(ctx context.Context, employeeID int64) (int64, error) {
	return r.countThenDelete(ctx, `employee_id = ?`, employeeID)
}

func (r *SQLiteRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.countThenDelete(ctx, `timestamp < ?`, cutoff)
}
