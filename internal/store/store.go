// Package store implements the local auth store: durable employees, devices,
// sessions and audit events in a single SQLite database file, credential
// verification, session lifecycle and the log-management operations behind
// the retention scheduler and the operator CLI.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/companylock/agent/internal/common"
	"github.com/companylock/agent/internal/dbx"
	"github.com/companylock/agent/internal/logging"
	"github.com/companylock/agent/internal/password"
	"github.com/companylock/agent/internal/store/migrations"
	"github.com/companylock/agent/internal/store/models"
	"github.com/companylock/agent/internal/store/repositories/auditevents"
	"github.com/companylock/agent/internal/store/repositories/devices"
	"github.com/companylock/agent/internal/store/repositories/employees"
	"github.com/companylock/agent/internal/store/repositories/sessions"
)

// HostInfo is the machine metadata recorded when a device row is first
// created. Injectable so tests get stable values.
type HostInfo struct {
	Hostname     string
	ComputerName string
	OSVersion    string
}

// Store is the single source of truth for all persistent entities. All
// writes go through one connection (MaxOpenConns=1), which is what makes
// the count-then-delete log operations consistent on a single host.
type Store struct {
	db        *sql.DB
	dbPath    string
	logger    logging.Logger
	host      HostInfo
	employees employees.Repository
	devices   devices.Repository
	sessions  sessions.Repository
	events    auditevents.Repository
	now       func() time.Time
}

// Option customizes a Store, mostly for tests.
type Option func(*Store)

// WithClock replaces the wall-clock source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithHostInfo replaces the captured machine metadata.
func WithHostInfo(h HostInfo) Option {
	return func(s *Store) { s.host = h }
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if necessary) the database file, applies migrations
// and bootstraps the default administrator when the employee table is empty.
// A failure here is fatal to the agent: there is no degraded mode without a
// working store.
func Open(ctx context.Context, dbPath string, logger logging.Logger, adminUser, adminPassword string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Single write path: serializes every logical operation.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	s := &Store{
		db:        db,
		dbPath:    dbPath,
		logger:    logger.With("module", "store"),
		host:      defaultHostInfo(),
		employees: employees.NewSQLiteRepository(db),
		devices:   devices.NewSQLiteRepository(db),
		sessions:  sessions.NewSQLiteRepository(db),
		events:    auditevents.NewSQLiteRepository(db),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.bootstrapAdmin(ctx, adminUser, adminPassword); err != nil {
		_ = db.Close()
		return nil, err
	}

	s.logger.Info(ctx, "database initialized", "path", dbPath)
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the raw handle for transactional helpers.
func (s *Store) DB() *sql.DB {
	return s.db
}

func defaultHostInfo() HostInfo {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return HostInfo{
		Hostname:     hostname,
		ComputerName: hostname,
		OSVersion:    runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// bootstrapAdmin creates the default administrator account on a fresh store.
// The account is an ordinary employee row; it can be edited or deactivated
// later like any other.
func (s *Store) bootstrapAdmin(ctx context.Context, username, pass string) error {
	n, err := s.employees.Count(ctx)
	if err != nil {
		return fmt.Errorf("employee count: %w", err)
	}
	if n > 0 {
		return nil
	}

	salt, err := password.GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := password.Hash(pass, salt)
	if err != nil {
		return err
	}

	_, err = s.employees.Create(ctx, &models.Employee{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		FullName:     "System Administrator",
		Role:         "Admin",
		IsActive:     true,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	s.logger.Info(ctx, "default admin user created", "username", username)
	return nil
}

// upsertDevice resolves the device row for deviceUUID, creating it with host
// metadata on first contact or bumping last-seen on subsequent ones.
func (s *Store) upsertDevice(ctx context.Context, deviceUUID string) (*models.Device, error) {
	d, err := s.devices.GetByUUID(ctx, deviceUUID)
	if err == nil {
		if err := s.devices.TouchLastSeen(ctx, d.ID, s.now()); err != nil {
			return nil, err
		}
		return d, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	now := s.now()
	return s.devices.Insert(ctx, &models.Device{
		DeviceUUID:   deviceUUID,
		Hostname:     s.host.Hostname,
		ComputerName: s.host.ComputerName,
		OSVersion:    s.host.OSVersion,
		RegisteredAt: now,
		LastSeenAt:   &now,
	})
}

// withTx runs fn against transactional repository handles.
func (s *Store) withTx(ctx context.Context, fn func(ctx context.Context, ev auditevents.Repository) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, auditevents.NewSQLiteRepository(tx))
	})
}
