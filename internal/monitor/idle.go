package monitor

import (
	"context"
	"time"

	"github.com/companylock/agent/internal/logging"
)

// IdleMonitor locks the screen after a period without user input. It is
// edge-triggered: one idle stretch produces at most one trigger, and the
// monitor re-arms when the user comes back or after a long quiet period.
type IdleMonitor struct {
	probe    InputProbe
	trigger  TriggerFunc
	logger   logging.Logger
	interval time.Duration
	timeout  time.Duration
	minGap   time.Duration
	reArm    time.Duration
	now      func() time.Time
}

// IdleConfig carries the debounce policy of the idle monitor.
type IdleConfig struct {
	CheckInterval time.Duration
	IdleTimeout   time.Duration
	MinGap        time.Duration
	ReArmAfter    time.Duration
}

func NewIdleMonitor(cfg IdleConfig, probe InputProbe, trigger TriggerFunc, logger logging.Logger) *IdleMonitor {
	return &IdleMonitor{
		probe:    probe,
		trigger:  trigger,
		logger:   logger.With("module", "idle_monitor"),
		interval: cfg.CheckInterval,
		timeout:  cfg.IdleTimeout,
		minGap:   cfg.MinGap,
		reArm:    cfg.ReArmAfter,
		now:      time.Now,
	}
}

// Run polls until ctx is cancelled.
func (m *IdleMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	armed := true
	var lastTrigger time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		idle, err := m.probe.IdleDuration()
		if err != nil {
			m.logger.Warn(ctx, "idle probe failed", "error", err)
			continue
		}

		if idle < m.timeout {
			// user is active again; the next idle stretch may trigger
			armed = true
			continue
		}

		if !armed {
			// a long quiet stretch after a trigger re-arms on its own,
			// covering the case where the lock screen was dismissed
			// without any input reaching the probe
			if !lastTrigger.IsZero() && m.now().Sub(lastTrigger) >= m.reArm {
				armed = true
			}
			continue
		}

		if !lastTrigger.IsZero() && m.now().Sub(lastTrigger) < m.minGap {
			continue
		}

		armed = false
		lastTrigger = m.now()
		m.logger.Info(ctx, "idle timeout reached", "idle", idle)
		m.trigger("idle_timeout")
	}
}
