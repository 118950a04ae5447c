package employees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *SQLiteRepository) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	query := `INSERT INTO employees (username, password_hash, salt, full_name, department, role, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		e.Username, e.PasswordHash, e.Salt, e.FullName, e.Department, e.Role, e.IsActive, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.Employee, error) {
	query := `SELECT id, username, password_hash, salt, full_name, department, role, is_active, created_at, last_sync_at
		FROM employees
		WHERE username = ?`

	e := &models.Employee{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&e.ID, &e.Username, &e.PasswordHash, &e.Salt, &e.FullName, &e.Department, &e.Role, &e.IsActive, &e.CreatedAt, &e.LastSyncAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Employee, error) {
	query := `SELECT id, username, full_name, department, role, is_active, created_at
		FROM employees
		ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.Username, &e.FullName, &e.Department, &e.Role, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE employees SET is_active = ? WHERE id = ?`, active, id)
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

func (r *SQLiteRepository) UpdatePassword(ctx context.Context, id int64, hash, salt string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE employees SET password_hash = ?, salt = ? WHERE id = ?`, hash, salt, id)
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

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
