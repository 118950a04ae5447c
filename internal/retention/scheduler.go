// Package retention periodically prunes old audit events so the database
// file stays bounded on hosts that run for months.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/companylock/agent/internal/logging"
	"github.com/companylock/agent/internal/store"
)

// System cleanup events carry this device reference instead of a real
// machine uuid.
const systemDeviceUUID = "SYSTEM"

// LogStore is the slice of the store the scheduler needs. *store.Store
// satisfies it.
type LogStore interface {
	CleanupOldLogs(ctx context.Context, retentionDays int) (int64, error)
	DatabaseSize() int64
	LogEvent(ctx context.Context, e store.Event)
}

// Config carries the retention policy.
type Config struct {
	RetentionDays int
	Interval      time.Duration
	ErrorBackoff  time.Duration
}

// Scheduler runs the cleanup immediately on start and then once per
// interval. A failed run retries sooner, after the error backoff.
type Scheduler struct {
	store  LogStore
	cfg    Config
	logger logging.Logger
	kick   chan struct{}
}

func NewScheduler(store LogStore, cfg Config, logger logging.Logger) *Scheduler {
	return &Scheduler{
		store:  store,
		cfg:    cfg,
		logger: logger.With("module", "retention"),
		kick:   make(chan struct{}, 1),
	}
}

// TriggerCleanup requests an out-of-band cleanup run. It never blocks; a
// request arriving while one is already pending is folded into it.
func (s *Scheduler) TriggerCleanup() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run loops until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	next := s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.kick:
			next = s.runOnce(ctx)
		case <-time.After(next):
			next = s.runOnce(ctx)
		}
	}
}

// runOnce performs one cleanup and returns how long to wait before the
// next scheduled one.
func (s *Scheduler) runOnce(ctx context.Context) time.Duration {
	sizeBefore := s.store.DatabaseSize()

	n, err := s.store.CleanupOldLogs(ctx, s.cfg.RetentionDays)
	if err != nil {
		s.logger.Error(ctx, "log cleanup failed", "error", err)
		// best effort; a store that cannot delete may still append
		s.store.LogEvent(ctx, store.Event{
			Type:        "LOG_CLEANUP_ERROR",
			DeviceUUID:  systemDeviceUUID,
			Description: fmt.Sprintf("Log cleanup failed: %v", err),
		})
		return s.cfg.ErrorBackoff
	}

	saved := sizeBefore - s.store.DatabaseSize()
	if saved < 0 {
		saved = 0
	}

	if n > 0 {
		s.store.LogEvent(ctx, store.Event{
			Type:        "LOG_CLEANUP",
			DeviceUUID:  systemDeviceUUID,
			Description: fmt.Sprintf("Deleted %d old log entries (%d bytes saved)", n, saved),
		})
	}
	s.logger.Info(ctx, "log cleanup completed", "deleted", n, "bytes_saved", saved, "retention_days", s.cfg.RetentionDays)
	return s.cfg.Interval
}
