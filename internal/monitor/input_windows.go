//go:build windows

package monitor

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	kernel32           = windows.NewLazySystemDLL("kernel32.dll")
	procGetLastInput   = user32.NewProc("GetLastInputInfo")
	procGetAsyncKey    = user32.NewProc("GetAsyncKeyState")
	procGetTickCount64 = kernel32.NewProc("GetTickCount64")
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

// SystemInputProbe reads host idle time from the last-input counter.
type SystemInputProbe struct{}

func (SystemInputProbe) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	r, _, err := procGetLastInput.Call(uintptr(unsafe.Pointer(&info)))
	if r == 0 {
		return 0, fmt.Errorf("GetLastInputInfo: %w", err)
	}
	ticks, _, _ := procGetTickCount64.Call()
	// dwTime is a 32-bit tick value; compare in the same width
	elapsed := uint32(ticks) - info.dwTime
	return time.Duration(elapsed) * time.Millisecond, nil
}

const (
	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12
	vkLWin    = 0x5B
	vkRWin    = 0x5C
)

// SystemKeyProbe reads the instantaneous keyboard state.
type SystemKeyProbe struct{}

func (SystemKeyProbe) ChordPressed(c Chord) bool {
	if c.Ctrl && !keyDown(vkControl) {
		return false
	}
	if c.Alt && !keyDown(vkMenu) {
		return false
	}
	if c.Shift && !keyDown(vkShift) {
		return false
	}
	if c.Win && !keyDown(vkLWin) && !keyDown(vkRWin) {
		return false
	}
	return keyDown(int(c.Key))
}

func keyDown(vk int) bool {
	r, _, _ := procGetAsyncKey.Call(uintptr(vk))
	return r&0x8000 != 0
}
