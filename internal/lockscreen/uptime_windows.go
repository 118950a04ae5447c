//go:build windows

package lockscreen

import (
	"time"

	"golang.org/x/sys/windows"
)

var (
	kernel32           = windows.NewLazySystemDLL("kernel32.dll")
	procGetTickCount64 = kernel32.NewProc("GetTickCount64")
)

func systemUptime() (time.Duration, error) {
	ticks, _, _ := procGetTickCount64.Call()
	return time.Duration(ticks) * time.Millisecond, nil
}
