package config

import (
	"flag"
	"os"
	"time"

	"github.com/companylock/agent/internal/flagx"
)

// parseFlags populates selected agent Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   SQLite database path
//	-p string   auth pipe name
//	-i int      idle timeout, seconds
//	-k string   lock hotkey chord (e.g., "Ctrl+Alt+L")
//	-r int      audit-log retention, days
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - The idle timeout is accepted as an integer in seconds and then
//     converted to a time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-p", "-i", "-k", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabasePath, "d", config.DatabasePath, "database path")
	fs.StringVar(&config.PipeName, "p", config.PipeName, "auth pipe name")
	fs.StringVar(&config.HotkeyChord, "k", config.HotkeyChord, "lock hotkey chord")
	fs.IntVar(&config.RetentionDays, "r", config.RetentionDays, "audit log retention (in days)")

	idleTimeout := fs.Int("i", int(config.IdleTimeout.Seconds()), "idle timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.IdleTimeout = time.Duration(*idleTimeout) * time.Second
}
