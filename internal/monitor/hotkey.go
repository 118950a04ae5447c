package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/companylock/agent/internal/logging"
)

// Chord is a modifier set plus one key, e.g. Ctrl+Alt+L.
type Chord struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Win   bool
	Key   rune
}

// ParseChord parses a "Ctrl+Alt+L" style description. The final token must
// be a single letter or digit; modifier tokens are case-insensitive.
func ParseChord(s string) (Chord, error) {
	var c Chord
	parts := strings.Split(s, "+")
	if len(parts) < 2 {
		return c, fmt.Errorf("hotkey %q: need at least one modifier and a key", s)
	}
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			c.Ctrl = true
		case "alt":
			c.Alt = true
		case "shift":
			c.Shift = true
		case "win", "super", "meta":
			c.Win = true
		default:
			return c, fmt.Errorf("hotkey %q: unknown modifier %q", s, p)
		}
	}
	key := strings.TrimSpace(parts[len(parts)-1])
	if len(key) != 1 {
		return c, fmt.Errorf("hotkey %q: key must be a single character", s)
	}
	r := rune(strings.ToUpper(key)[0])
	if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
		return c, fmt.Errorf("hotkey %q: key must be a letter or digit", s)
	}
	c.Key = r
	return c, nil
}

func (c Chord) String() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if c.Alt {
		parts = append(parts, "Alt")
	}
	if c.Shift {
		parts = append(parts, "Shift")
	}
	if c.Win {
		parts = append(parts, "Win")
	}
	parts = append(parts, string(c.Key))
	return strings.Join(parts, "+")
}

// HotkeyMonitor polls the keyboard for the lock chord. A short cooldown
// keeps one physical press from firing on consecutive polls.
type HotkeyMonitor struct {
	chord    Chord
	probe    KeyProbe
	trigger  TriggerFunc
	logger   logging.Logger
	interval time.Duration
	cooldown time.Duration
	now      func() time.Time
}

// HotkeyConfig carries the polling policy of the hotkey monitor.
type HotkeyConfig struct {
	Chord        Chord
	PollInterval time.Duration
	Cooldown     time.Duration
}

func NewHotkeyMonitor(cfg HotkeyConfig, probe KeyProbe, trigger TriggerFunc, logger logging.Logger) *HotkeyMonitor {
	return &HotkeyMonitor{
		chord:    cfg.Chord,
		probe:    probe,
		trigger:  trigger,
		logger:   logger.With("module", "hotkey_monitor"),
		interval: cfg.PollInterval,
		cooldown: cfg.Cooldown,
		now:      time.Now,
	}
}

// Run polls until ctx is cancelled.
func (m *HotkeyMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	var lastFired time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !m.probe.ChordPressed(m.chord) {
			continue
		}
		if !lastFired.IsZero() && m.now().Sub(lastFired) < m.cooldown {
			continue
		}
		lastFired = m.now()
		m.logger.Info(ctx, "lock hotkey pressed", "chord", m.chord.String())
		m.trigger("hotkey")
	}
}
