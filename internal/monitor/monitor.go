// Package monitor watches the host for the three lock triggers: user
// inactivity, the configured hotkey chord and session logon events. Each
// monitor runs its own polling loop and calls back into the lock
// coordinator; none of them blocks on the lock screen itself.
package monitor

import "time"

// InputProbe reports how long the host has been without user input.
type InputProbe interface {
	IdleDuration() (time.Duration, error)
}

// KeyProbe reports the instantaneous state of the configured hotkey chord.
type KeyProbe interface {
	ChordPressed(c Chord) bool
}

// TriggerFunc is invoked when a monitor decides the screen should lock.
// The string names the trigger source for the audit trail.
type TriggerFunc func(reason string)
