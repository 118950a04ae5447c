package monitor

import (
	"context"

	"github.com/companylock/agent/internal/logging"
)

// SessionEventType is a host session state change.
type SessionEventType int

const (
	SessionLogon SessionEventType = iota
	SessionLogoff
	SessionUnlock
)

// SessionEvent is delivered by a SessionEventSource.
type SessionEvent struct {
	Type SessionEventType
	User string
}

// SessionEventSource delivers host session events. The channel is closed
// when the source shuts down.
type SessionEventSource interface {
	Events() <-chan SessionEvent
}

// SessionMonitor locks the screen on session logon. Unlike the idle and
// hotkey monitors it is not debounced: a fresh logon always locks.
type SessionMonitor struct {
	source  SessionEventSource
	onLogon func()
	logger  logging.Logger
}

func NewSessionMonitor(source SessionEventSource, onLogon func(), logger logging.Logger) *SessionMonitor {
	return &SessionMonitor{
		source:  source,
		onLogon: onLogon,
		logger:  logger.With("module", "session_monitor"),
	}
}

// Run consumes events until ctx is cancelled or the source closes.
func (m *SessionMonitor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-m.source.Events():
			if !ok {
				return
			}
			if ev.Type == SessionLogon {
				m.logger.Info(ctx, "session logon detected", "user", ev.User)
				m.onLogon()
			}
		}
	}
}
