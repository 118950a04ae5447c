// Package agent initializes and runs the endpoint agent. It opens the
// local auth store, resolves the device identity, and supervises the lock
// triggers, the auth pipe server and the retention scheduler until the
// process is told to stop.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/companylock/agent/internal/agent/config"
	"github.com/companylock/agent/internal/deviceid"
	"github.com/companylock/agent/internal/ipc"
	"github.com/companylock/agent/internal/lockscreen"
	"github.com/companylock/agent/internal/logging"
	"github.com/companylock/agent/internal/monitor"
	"github.com/companylock/agent/internal/retention"
	"github.com/companylock/agent/internal/store"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	store      *store.Store
	deviceUUID string
}

// NewApp opens the store and resolves the device identity. A store that
// cannot be opened is fatal: the agent has no degraded mode without it.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	st, err := store.Open(ctx, cfg.DatabasePath, logger, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	dataDir := filepath.Dir(cfg.DatabasePath)
	protector, err := deviceid.NewAESGCMProtector(filepath.Join(dataDir, "machine.key"))
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("device identity error: %w", err)
	}
	uuid, err := deviceid.NewManager(filepath.Join(dataDir, "device.uuid"), protector, logger).Resolve(ctx)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("device identity error: %w", err)
	}

	return &App{config: cfg, logger: logger, store: st, deviceUUID: uuid}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run wires the monitors, the pipe server and the retention scheduler
// together and blocks until the context is cancelled or a signal arrives.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting agent...", "device_uuid", app.deviceUUID)
	app.initSignalHandler(cancelFunc)

	app.store.LogEvent(ctx, store.Event{
		Type: "service_start", DeviceUUID: app.deviceUUID, Description: "Agent started",
	})

	launcher := lockscreen.NewExecLauncher(app.config.LockScreenPaths, app.config.LockScreenProcessName, app.logger)
	coordinator := lockscreen.NewCoordinator(launcher, app.store, app.deviceUUID, app.logger)

	chord, err := monitor.ParseChord(app.config.HotkeyChord)
	if err != nil {
		return fmt.Errorf("hotkey config error: %w", err)
	}

	idleMon := monitor.NewIdleMonitor(monitor.IdleConfig{
		CheckInterval: app.config.IdleCheckInterval,
		IdleTimeout:   app.config.IdleTimeout,
		MinGap:        app.config.IdleMinGap,
		ReArmAfter:    app.config.IdleReArmAfter,
	}, monitor.SystemInputProbe{}, func(reason string) { coordinator.Trigger(ctx, reason) }, app.logger)

	hotkeyMon := monitor.NewHotkeyMonitor(monitor.HotkeyConfig{
		Chord:        chord,
		PollInterval: app.config.HotkeyPollInterval,
		Cooldown:     app.config.HotkeyCooldown,
	}, monitor.SystemKeyProbe{}, func(reason string) { coordinator.Trigger(ctx, reason) }, app.logger)

	sessionSource := monitor.NewConsoleSessionSource(time.Second)
	// a fresh logon always locks, with no debounce in between
	sessionMon := monitor.NewSessionMonitor(sessionSource, func() { coordinator.Trigger(ctx, "session_logon") }, app.logger)

	server := ipc.NewServer(app.config.PipeName, app.store, nil, app.logger)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("pipe server error: %w", err)
	}

	scheduler := retention.NewScheduler(app.store, retention.Config{
		RetentionDays: app.config.RetentionDays,
		Interval:      app.config.CleanupInterval,
		ErrorBackoff:  app.config.CleanupErrorBackoff,
	}, app.logger)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		idleMon.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		hotkeyMon.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		sessionSource.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		sessionMon.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		coordinator.StartupLockIfRecentBoot(ctx, app.config.StartupLockUptime, app.config.StartupSettleDelay)
	}()

	<-ctx.Done()

	server.Stop()
	wg.Wait()

	shutdownCtx := context.Background()
	app.store.LogEvent(shutdownCtx, store.Event{
		Type: "service_stop", DeviceUUID: app.deviceUUID, Description: "Agent stopping",
	})
	app.logger.Info(shutdownCtx, "Agent stopped")
	return app.store.Close()
}
