package auditevents

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/companylock/agent/internal/store/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE audit_events (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  event_type  TEXT NOT NULL,
  employee_id INTEGER,
  device_id   INTEGER NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  timestamp   TIMESTAMP NOT NULL,
  session_id  TEXT NOT NULL DEFAULT ''
);`)
	require.NoError(t, err)
	return db
}

func insertAt(t *testing.T, r *SQLiteRepository, eventType string, ts time.Time) {
	t.Helper()
	require.NoError(t, r.Insert(context.Background(), &models.AuditEvent{
		EventType: eventType,
		DeviceID:  1,
		Timestamp: ts,
	}))
}

func TestInsertAndCount(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	insertAt(t, r, "lock_triggered", time.Now())

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDeleteOlderThan(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	insertAt(t, r, "a", base.AddDate(0, 0, -40))
	insertAt(t, r, "a", base.AddDate(0, 0, -31))
	insertAt(t, r, "a", base.AddDate(0, 0, -5))

	n, err := r.DeleteOlderThan(ctx, base.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), left)
}

func TestDeleteByRange_InclusiveBounds(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	insertAt(t, r, "a", base)
	insertAt(t, r, "a", base.AddDate(0, 0, 1))
	insertAt(t, r, "a", base.AddDate(0, 0, 2))

	n, err := r.DeleteByRange(ctx, base, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "both range endpoints are inclusive")
}

func TestDeleteByType_NoMatchesReturnsZero(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	n, err := r.DeleteByType(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteByEmployee(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id := int64(7)
	require.NoError(t, r.Insert(ctx, &models.AuditEvent{EventType: "login_failed", EmployeeID: &id, DeviceID: 1, Timestamp: time.Now()}))
	insertAt(t, r, "login_failed", time.Now()) // no employee ref

	n, err := r.DeleteByEmployee(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCount_DBError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+audit_events`).
		WillReturnError(errors.New("db down"))

	r := NewSQLiteRepository(db)
	_, err = r.Count(context.Background())
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestDeleteAll_DeleteStatementError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"count"}).AddRow(int64(3))
	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+audit_events\s+WHERE`).WillReturnRows(rows)
	mock.ExpectExec(`DELETE\s+FROM\s+audit_events\s+WHERE`).WillReturnError(errors.New("locked"))

	r := NewSQLiteRepository(db)
	_, err = r.DeleteAll(context.Background())
	require.Error(t, err)
}
