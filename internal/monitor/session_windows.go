//go:build windows

package monitor

const invalidSessionID = 0xFFFFFFFF

var procActiveConsoleSession = kernel32.NewProc("WTSGetActiveConsoleSessionId")

func consoleSessionID() (uint32, bool) {
	r, _, _ := procActiveConsoleSession.Call()
	id := uint32(r)
	if id == invalidSessionID {
		return 0, false
	}
	return id, true
}
