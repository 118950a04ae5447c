// Package lockscreen owns the decision to show the lock screen and the
// lifecycle of the lock-screen process. All triggers funnel through one
// coordinator so that at most one lock screen exists at a time.
package lockscreen

import (
	"context"
	"sync"
	"time"

	"github.com/companylock/agent/internal/logging"
	"github.com/companylock/agent/internal/store"
)

// Process is a running lock-screen instance.
type Process interface {
	Wait() error
}

// Launcher starts the lock-screen executable.
type Launcher interface {
	// AlreadyRunning reports whether a lock-screen process already exists
	// outside the coordinator's control.
	AlreadyRunning() (bool, error)
	Start(ctx context.Context) (Process, error)
}

// EventRecorder is the audit sink. *store.Store satisfies it.
type EventRecorder interface {
	LogEvent(ctx context.Context, e store.Event)
}

// Coordinator serializes lock requests. A trigger that arrives while a
// lock screen is active is dropped, not queued.
type Coordinator struct {
	launcher   Launcher
	events     EventRecorder
	logger     logging.Logger
	deviceUUID string

	mu     sync.Mutex
	active bool
}

func NewCoordinator(launcher Launcher, events EventRecorder, deviceUUID string, logger logging.Logger) *Coordinator {
	return &Coordinator{
		launcher:   launcher,
		events:     events,
		logger:     logger.With("module", "lock_coordinator"),
		deviceUUID: deviceUUID,
	}
}

// TryEnter claims the single lock slot. It returns false when a lock
// screen is already active.
func (c *Coordinator) TryEnter() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return false
	}
	c.active = true
	return true
}

// Reset releases the lock slot.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

// Active reports whether a lock screen currently holds the slot.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Trigger requests a lock. The reason names the trigger source and goes
// into the audit trail.
func (c *Coordinator) Trigger(ctx context.Context, reason string) {
	if !c.TryEnter() {
		c.logger.Debug(ctx, "lock request dropped, lock screen already active", "reason", reason)
		return
	}

	c.events.LogEvent(ctx, store.Event{
		Type:        "lock_triggered",
		DeviceUUID:  c.deviceUUID,
		Description: reason,
	})

	running, err := c.launcher.AlreadyRunning()
	if err != nil {
		c.logger.Warn(ctx, "lock screen process check failed", "error", err)
	}
	if running {
		c.logger.Info(ctx, "lock screen process already running, not spawning another")
		c.Reset()
		return
	}

	proc, err := c.launcher.Start(ctx)
	if err != nil {
		c.logger.Error(ctx, "failed to start lock screen", "error", err)
		c.Reset()
		return
	}

	c.logger.Info(ctx, "lock screen started", "reason", reason)

	// the slot is released exactly once, when the process exits
	var once sync.Once
	go func() {
		if err := proc.Wait(); err != nil {
			c.logger.Warn(context.Background(), "lock screen exited with error", "error", err)
		}
		once.Do(c.Reset)
		c.logger.Info(context.Background(), "lock screen exited")
	}()
}

// StartupLockIfRecentBoot locks the screen shortly after a fresh boot so
// an unattended machine never comes up unlocked. Nothing happens when the
// host has been up longer than threshold.
func (c *Coordinator) StartupLockIfRecentBoot(ctx context.Context, threshold, settle time.Duration) {
	up, err := systemUptime()
	if err != nil {
		c.logger.Warn(ctx, "could not read system uptime", "error", err)
		return
	}
	if up >= threshold {
		c.logger.Debug(ctx, "not a fresh boot, skipping startup lock", "uptime", up)
		return
	}

	c.logger.Info(ctx, "fresh boot detected, locking after settle delay", "uptime", up, "settle", settle)
	select {
	case <-ctx.Done():
		return
	case <-time.After(settle):
	}
	c.Trigger(ctx, "startup_lock")
}
