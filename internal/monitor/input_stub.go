//go:build !windows

package monitor

import (
	"errors"
	"time"
)

var errNoInputSource = errors.New("monitor: no input source on this platform")

// SystemInputProbe is a placeholder on platforms without a last-input
// counter. The idle monitor logs the error and keeps polling.
type SystemInputProbe struct{}

func (SystemInputProbe) IdleDuration() (time.Duration, error) {
	return 0, errNoInputSource
}

// SystemKeyProbe never reports the chord on platforms without global
// keyboard state.
type SystemKeyProbe struct{}

func (SystemKeyProbe) ChordPressed(Chord) bool {
	return false
}
