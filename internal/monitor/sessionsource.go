package monitor

import (
	"context"
	"time"
)

// ConsoleSessionSource approximates session-switch notifications by
// polling the active console session. A change to a new valid session id
// is reported as a logon.
type ConsoleSessionSource struct {
	ch       chan SessionEvent
	interval time.Duration
}

func NewConsoleSessionSource(interval time.Duration) *ConsoleSessionSource {
	return &ConsoleSessionSource{
		ch:       make(chan SessionEvent, 1),
		interval: interval,
	}
}

func (s *ConsoleSessionSource) Events() <-chan SessionEvent {
	return s.ch
}

// Run polls until ctx is cancelled, then closes the event channel.
func (s *ConsoleSessionSource) Run(ctx context.Context) {
	defer close(s.ch)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last, known := consoleSessionID()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		id, ok := consoleSessionID()
		if !ok {
			continue
		}
		if known && id != last {
			select {
			case s.ch <- SessionEvent{Type: SessionLogon}:
			default:
			}
		}
		last, known = id, true
	}
}
