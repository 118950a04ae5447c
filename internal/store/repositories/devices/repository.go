package devices

import (
	"context"
	"time"

	"github.com/companylock/agent/internal/store/models"
)

// Repository describes persistence operations for Device rows. The upsert
// semantics (create on first contact, bump last-seen afterwards) live in the
// store service; the repository only provides the primitives.
type Repository interface {
	// GetByUUID returns the device with the given uuid, or common.ErrorNotFound.
	GetByUUID(ctx context.Context, deviceUUID string) (*models.Device, error)

	// Insert creates a new device row and returns it with the assigned id.
	Insert(ctx context.Context, d *models.Device) (*models.Device, error)

	// TouchLastSeen updates the last-seen timestamp of an existing device.
	TouchLastSeen(ctx context.Context, id int64, at time.Time) error
}
