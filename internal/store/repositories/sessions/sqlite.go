package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/companylock/agent/internal/common"
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

func (r *SQLiteRepository) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	query := `INSERT INTO sessions (session_uuid, employee_id, device_id, created_at, is_active)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		s.SessionUUID, s.EmployeeID, s.DeviceID, s.CreatedAt, s.IsActive).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) GetByUUID(ctx context.Context, sessionUUID string) (*models.Session, error) {
	query := `SELECT id, session_uuid, employee_id, device_id, created_at, expired_at, is_active
		FROM sessions
		WHERE session_uuid = ?`

	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, sessionUUID).Scan(
		&s.ID, &s.SessionUUID, &s.EmployeeID, &s.DeviceID, &s.CreatedAt, &s.ExpiredAt, &s.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) Deactivate(ctx context.Context, sessionUUID string, expiredAt time.Time) error {
	query := `UPDATE sessions SET is_active = 0, expired_at = ?
		WHERE session_uuid = ? AND is_active = 1`

	if _, err := r.db.ExecContext(ctx, query, expiredAt, sessionUUID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
