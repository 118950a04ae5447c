package sessions

import (
	"context"
	"time"

	"github.com/companylock/agent/internal/store/models"
)

// Repository describes persistence operations for Session rows.
type Repository interface {
	// Create inserts a new session and returns it with the assigned id.
	Create(ctx context.Context, s *models.Session) (*models.Session, error)

	// GetByUUID returns the session with the given uuid, or common.ErrorNotFound.
	GetByUUID(ctx context.Context, sessionUUID string) (*models.Session, error)

	// Deactivate clears the active flag and stamps expired_at. Deactivation
	// is monotonic: an already-inactive session keeps its original expiry.
	// Missing rows are a no-op.
	Deactivate(ctx context.Context, sessionUUID string, expiredAt time.Time) error
}
