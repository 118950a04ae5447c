// Package lockctl implements the operator CLI: audit-log management and
// employee account administration against the agent's database file.
package lockctl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/companylock/agent/internal/agent/config"
	"github.com/companylock/agent/internal/logging"
	"github.com/companylock/agent/internal/store"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  *store.Store
	out    io.Writer
}

// NewApp opens the store named by the configuration. The CLI writes
// structured logs to stderr so stdout stays clean for command output.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logger := logging.NewSlogLogger(slogger)

	st, err := store.Open(ctx, cfg.DatabasePath, logger, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	return &App{config: cfg, logger: logger, store: st, out: os.Stdout}, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

// Run dispatches one subcommand. Args excludes the program name.
// Configuration flags ahead of the subcommand were already consumed by
// config.LoadConfig and are skipped here.
func (a *App) Run(ctx context.Context, args []string) error {
	for len(args) > 0 && strings.HasPrefix(args[0], "-") {
		if len(args) > 1 && !strings.HasPrefix(args[1], "-") && !strings.Contains(args[0], "=") {
			args = args[2:]
		} else {
			args = args[1:]
		}
	}
	if len(args) == 0 {
		a.usage()
		return fmt.Errorf("no command given")
	}

	switch args[0] {
	case "logs":
		return a.runLogs(ctx, args[1:])
	case "employee":
		return a.runEmployee(ctx, args[1:])
	case "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, `Usage: lockctl <command> [options]

Commands:
  logs stats                      show audit log statistics
  logs cleanup [-days <n>]        delete entries older than the retention window
  logs clear                      delete all entries
  logs delete -type <event_type>  delete entries by event type
  logs delete -user <username>    delete entries referencing a user
  logs delete -from <date> -to <date>
                                  delete entries in a date range (YYYY-MM-DD)
  employee add -u <username> [-n <full name>] [-dept <department>] [-role <role>]
  employee list
  employee activate -u <username>
  employee deactivate -u <username>
  employee passwd -u <username>`)
}
