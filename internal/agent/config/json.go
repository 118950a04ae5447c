package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/companylock/agent/internal/flagx"
	"github.com/companylock/agent/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "60s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into
// the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	DatabasePath          string         `json:"database_path"`
	PipeName              string         `json:"pipe_name"`
	IdleTimeout           timex.Duration `json:"idle_timeout"`
	IdleCheckInterval     timex.Duration `json:"idle_check_interval"`
	IdleMinGap            timex.Duration `json:"idle_min_gap"`
	IdleReArmAfter        timex.Duration `json:"idle_re_arm_after"`
	HotkeyChord           string         `json:"hotkey_chord"`
	HotkeyPollInterval    timex.Duration `json:"hotkey_poll_interval"`
	HotkeyCooldown        timex.Duration `json:"hotkey_cooldown"`
	LockScreenPaths       []string       `json:"lock_screen_paths"`
	LockScreenProcessName string         `json:"lock_screen_process_name"`
	StartupLockUptime     timex.Duration `json:"startup_lock_uptime"`
	StartupSettleDelay    timex.Duration `json:"startup_settle_delay"`
	RetentionDays         int            `json:"retention_days"`
	CleanupInterval       timex.Duration `json:"cleanup_interval"`
	CleanupErrorBackoff   timex.Duration `json:"cleanup_error_backoff"`
	AdminUsername         string         `json:"admin_username"`
	AdminPassword         string         `json:"admin_password"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	If it is not set, no JSON file is loaded.
//
// If the file cannot be read or contains invalid JSON, the function
// panics. The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.DatabasePath = c.DatabasePath
	config.PipeName = c.PipeName
	config.IdleTimeout = time.Duration(c.IdleTimeout.Duration)
	config.IdleCheckInterval = time.Duration(c.IdleCheckInterval.Duration)
	config.IdleMinGap = time.Duration(c.IdleMinGap.Duration)
	config.IdleReArmAfter = time.Duration(c.IdleReArmAfter.Duration)
	config.HotkeyChord = c.HotkeyChord
	config.HotkeyPollInterval = time.Duration(c.HotkeyPollInterval.Duration)
	config.HotkeyCooldown = time.Duration(c.HotkeyCooldown.Duration)
	config.LockScreenPaths = c.LockScreenPaths
	config.LockScreenProcessName = c.LockScreenProcessName
	config.StartupLockUptime = time.Duration(c.StartupLockUptime.Duration)
	config.StartupSettleDelay = time.Duration(c.StartupSettleDelay.Duration)
	config.RetentionDays = c.RetentionDays
	config.CleanupInterval = time.Duration(c.CleanupInterval.Duration)
	config.CleanupErrorBackoff = time.Duration(c.CleanupErrorBackoff.Duration)
	config.AdminUsername = c.AdminUsername
	config.AdminPassword = c.AdminPassword
}
