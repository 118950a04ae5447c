package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"database_path":            "agent.db",
		"pipe_name":                "TestPipe",
		"idle_timeout":             "90s",
		"idle_check_interval":      "1s",
		"idle_min_gap":             "3m",
		"idle_re_arm_after":        "10m",
		"hotkey_chord":             "Ctrl+Shift+Q",
		"hotkey_poll_interval":     "50ms",
		"hotkey_cooldown":          "2s",
		"lock_screen_paths":        []string{"/opt/lockscreen"},
		"lock_screen_process_name": "lockscreen",
		"startup_lock_uptime":      "10m",
		"startup_settle_delay":     "5s",
		"retention_days":           14,
		"cleanup_interval":         "12h",
		"cleanup_error_backoff":    "30m",
		"admin_username":           "root",
		"admin_password":           "rootpw",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "agent.db", cfg.DatabasePath)
		assert.Equal(t, "TestPipe", cfg.PipeName)
		assert.Equal(t, 90*time.Second, cfg.IdleTimeout)
		assert.Equal(t, 1*time.Second, cfg.IdleCheckInterval)
		assert.Equal(t, 3*time.Minute, cfg.IdleMinGap)
		assert.Equal(t, 10*time.Minute, cfg.IdleReArmAfter)
		assert.Equal(t, "Ctrl+Shift+Q", cfg.HotkeyChord)
		assert.Equal(t, 50*time.Millisecond, cfg.HotkeyPollInterval)
		assert.Equal(t, 2*time.Second, cfg.HotkeyCooldown)
		assert.Equal(t, []string{"/opt/lockscreen"}, cfg.LockScreenPaths)
		assert.Equal(t, "lockscreen", cfg.LockScreenProcessName)
		assert.Equal(t, 10*time.Minute, cfg.StartupLockUptime)
		assert.Equal(t, 5*time.Second, cfg.StartupSettleDelay)
		assert.Equal(t, 14, cfg.RetentionDays)
		assert.Equal(t, 12*time.Hour, cfg.CleanupInterval)
		assert.Equal(t, 30*time.Minute, cfg.CleanupErrorBackoff)
		assert.Equal(t, "root", cfg.AdminUsername)
		assert.Equal(t, "rootpw", cfg.AdminPassword)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			DatabasePath: "keep.db",
			PipeName:     "KeepPipe",
			IdleTimeout:  42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "keep.db", cfg.DatabasePath)
		assert.Equal(t, "KeepPipe", cfg.PipeName)
		assert.Equal(t, 42*time.Second, cfg.IdleTimeout)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
