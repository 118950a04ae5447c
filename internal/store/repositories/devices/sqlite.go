package devices

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

func (r *SQLiteRepository) GetByUUID(ctx context.Context, deviceUUID string) (*models.Device, error) {
	query := `SELECT id, device_uuid, hostname, computer_name, os_version, registered_at, last_seen_at
		FROM devices
		WHERE device_uuid = ?`

	d := &models.Device{}
	err := r.db.QueryRowContext(ctx, query, deviceUUID).Scan(
		&d.ID, &d.DeviceUUID, &d.Hostname, &d.ComputerName, &d.OSVersion, &d.RegisteredAt, &d.LastSeenAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, d *models.Device) (*models.Device, error) {
	query := `INSERT INTO devices (device_uuid, hostname, computer_name, os_version, registered_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		d.DeviceUUID, d.Hostname, d.ComputerName, d.OSVersion, d.RegisteredAt, d.LastSeenAt).Scan(&d.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) TouchLastSeen(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE devices SET last_seen_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}
