package employees

import (
	"context"

	"github.com/companylock/agent/internal/store/models"
)

// Repository describes persistence operations for Employee rows.
type Repository interface {
	// Create inserts a new employee and returns it with the assigned id.
	Create(ctx context.Context, e *models.Employee) (*models.Employee, error)

	// GetByUsername returns the employee with the given username
	// (case-sensitive), active or not. common.ErrorNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*models.Employee, error)

	// List returns all employees ordered by username.
	List(ctx context.Context) ([]models.Employee, error)

	// SetActive flips the active flag for an employee.
	SetActive(ctx context.Context, id int64, active bool) error

	// UpdatePassword replaces the stored hash and salt.
	UpdatePassword(ctx context.Context, id int64, hash, salt string) error

	// Count returns the total number of employee rows.
	Count(ctx context.Context) (int64, error)
}
