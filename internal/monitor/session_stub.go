//go:build !windows

package monitor

// consoleSessionID is unavailable on this platform; the session source
// never emits events.
func consoleSessionID() (uint32, bool) {
	return 0, false
}
