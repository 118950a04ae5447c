// Package config handles configuration for the agent,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"path/filepath"
	"runtime"
	"time"
)

// Config holds runtime settings for the agent.
//
// Fields:
//   - DatabasePath: SQLite database file (the machine key and device
//     identity sidecars live next to it).
//   - PipeName: name of the local auth pipe.
//   - IdleTimeout / IdleCheckInterval / IdleMinGap / IdleReArmAfter:
//     inactivity lock policy.
//   - HotkeyChord / HotkeyPollInterval / HotkeyCooldown: manual lock policy.
//   - LockScreenPaths / LockScreenProcessName: where the lock-screen
//     executable lives and what it is called in the process table.
//   - StartupLockUptime / StartupSettleDelay: fresh-boot lock policy.
//   - RetentionDays / CleanupInterval / CleanupErrorBackoff: audit-log
//     retention policy.
//   - AdminUsername / AdminPassword: bootstrap credentials for a fresh
//     database. Do not keep the defaults in prod.
type Config struct {
	DatabasePath          string
	PipeName              string
	IdleTimeout           time.Duration
	IdleCheckInterval     time.Duration
	IdleMinGap            time.Duration
	IdleReArmAfter        time.Duration
	HotkeyChord           string
	HotkeyPollInterval    time.Duration
	HotkeyCooldown        time.Duration
	LockScreenPaths       []string
	LockScreenProcessName string
	StartupLockUptime     time.Duration
	StartupSettleDelay    time.Duration
	RetentionDays         int
	CleanupInterval       time.Duration
	CleanupErrorBackoff   time.Duration
	AdminUsername         string
	AdminPassword         string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: The admin credentials are insecure and should be overridden.
func (c *Config) LoadDefaults() {
	dataDir := "/var/lib/companylock"
	lockScreen := "companylock-lockscreen"
	if runtime.GOOS == "windows" {
		dataDir = `C:\ProgramData\CompanyLock`
		lockScreen = "companylock-lockscreen.exe"
	}

	c.DatabasePath = filepath.Join(dataDir, "companylock.db")
	c.PipeName = "CompanyLockPipe"
	c.IdleTimeout = 60 * time.Second
	c.IdleCheckInterval = 5 * time.Second
	c.IdleMinGap = 2 * time.Minute
	c.IdleReArmAfter = 5 * time.Minute
	c.HotkeyChord = "Ctrl+Alt+L"
	c.HotkeyPollInterval = 100 * time.Millisecond
	c.HotkeyCooldown = 1 * time.Second
	c.LockScreenPaths = []string{
		filepath.Join(dataDir, lockScreen),
		lockScreen,
	}
	c.LockScreenProcessName = lockScreen
	c.StartupLockUptime = 5 * time.Minute
	c.StartupSettleDelay = 2 * time.Second
	c.RetentionDays = 30
	c.CleanupInterval = 24 * time.Hour
	c.CleanupErrorBackoff = 1 * time.Hour
	c.AdminUsername = "admin"
	c.AdminPassword = "admin123"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
