package lockctl

import (
	"context"
	"flag"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

func (a *App) runLogs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("logs: missing subcommand")
	}

	switch args[0] {
	case "stats":
		return a.logStats(ctx)
	case "cleanup":
		return a.logCleanup(ctx, args[1:])
	case "clear":
		return a.logClear(ctx)
	case "delete":
		return a.logDelete(ctx, args[1:])
	default:
		return fmt.Errorf("logs: unknown subcommand %q", args[0])
	}
}

func (a *App) logStats(ctx context.Context) error {
	stats, err := a.store.LogStats(ctx, a.config.RetentionDays)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total log entries: %d\n", stats.TotalLogs)
	fmt.Fprintf(a.out, "Database size:     %d bytes\n", stats.DatabaseSize)
	fmt.Fprintf(a.out, "Retention:         %d days\n", stats.RetentionDays)
	fmt.Fprintf(a.out, "Cutoff date:       %s\n", stats.CutoffDate.Format(dateLayout))
	return nil
}

func (a *App) logCleanup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("logs cleanup", flag.ContinueOnError)
	days := fs.Int("days", a.config.RetentionDays, "retention window in days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	n, err := a.store.CleanupOldLogs(ctx, *days)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %d entries older than %d days\n", n, *days)
	return nil
}

func (a *App) logClear(ctx context.Context) error {
	n, err := a.store.ClearAllLogs(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %d entries\n", n)
	return nil
}

func (a *App) logDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("logs delete", flag.ContinueOnError)
	eventType := fs.String("type", "", "event type to delete")
	user := fs.String("user", "", "username whose entries to delete")
	from := fs.String("from", "", "range start (YYYY-MM-DD)")
	to := fs.String("to", "", "range end (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *eventType != "":
		n, err := a.store.DeleteLogsByEventType(ctx, *eventType)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted %d entries of type %q\n", n, *eventType)
		return nil

	case *user != "":
		n, err := a.store.DeleteLogsByUsername(ctx, *user)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted %d entries for user %q\n", n, *user)
		return nil

	case *from != "" && *to != "":
		fromT, err := time.Parse(dateLayout, *from)
		if err != nil {
			return fmt.Errorf("invalid -from date: %w", err)
		}
		toT, err := time.Parse(dateLayout, *to)
		if err != nil {
			return fmt.Errorf("invalid -to date: %w", err)
		}
		// make the end of the range cover the whole day
		toT = toT.Add(24*time.Hour - time.Nanosecond)
		n, err := a.store.DeleteLogsByDateRange(ctx, fromT, toT)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted %d entries between %s and %s\n", n, *from, *to)
		return nil

	default:
		return fmt.Errorf("logs delete: need -type, -user, or -from/-to")
	}
}
