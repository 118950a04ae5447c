//go:build !windows

package lockscreen

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func systemUptime() (time.Duration, error) {
	raw, err := os.ReadFile("/proc/uptime")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(raw))
	if len(fields) == 0 {
		return 0, fmt.Errorf("malformed /proc/uptime: %q", raw)
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed /proc/uptime: %w", err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
