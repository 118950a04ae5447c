package deviceid

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/companylock/agent/internal/logging"
)

// Manager resolves the device uuid from its sidecar file, generating and
// persisting a new one when the file is missing or unreadable.
type Manager struct {
	path      string
	protector Protector
	logger    logging.Logger
}

func NewManager(path string, protector Protector, logger logging.Logger) *Manager {
	return &Manager{
		path:      path,
		protector: protector,
		logger:    logger.With("module", "deviceid"),
	}
}

// Resolve returns the machine's device uuid, minting one on first run. A
// sidecar that fails to unprotect (tampered, or copied from another
// machine) is replaced with a fresh identity rather than trusted.
func (m *Manager) Resolve(ctx context.Context) (string, error) {
	blob, err := os.ReadFile(m.path)
	if err == nil {
		plain, uerr := m.protector.Unprotect(blob)
		if uerr == nil {
			if id, perr := uuid.Parse(string(plain)); perr == nil {
				return id.String(), nil
			}
		}
		m.logger.Warn(ctx, "device identity file unreadable, generating a new one", "path", m.path, "error", uerr)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read device identity: %w", err)
	}

	id := uuid.NewString()
	protected, err := m.protector.Protect([]byte(id))
	if err != nil {
		return "", fmt.Errorf("protect device identity: %w", err)
	}
	if err := os.WriteFile(m.path, protected, 0o600); err != nil {
		return "", fmt.Errorf("write device identity: %w", err)
	}
	m.logger.Info(ctx, "device identity generated", "device_uuid", id)
	return id, nil
}
