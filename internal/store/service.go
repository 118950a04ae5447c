package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/companylock/agent/internal/common"
	"github.com/companylock/agent/internal/password"
	"github.com/companylock/agent/internal/store/models"
	"github.com/companylock/agent/internal/store/repositories/auditevents"
)

// AuthResult is returned on successful authentication. Employee is a copy
// with password material blanked out.
type AuthResult struct {
	SessionUUID string
	Employee    models.Employee
}

// Event is one audit log entry to append. EmployeeID and SessionID are
// optional.
type Event struct {
	Type        string
	EmployeeID  *int64
	DeviceUUID  string
	Description string
	SessionID   string
}

// LogStatistics summarizes the audit log for operator display.
type LogStatistics struct {
	TotalLogs     int64
	DatabaseSize  int64
	RetentionDays int
	CutoffDate    time.Time
}

// Authenticate verifies a credential and issues a new session on success.
// Both "unknown user" and "wrong password" come back as
// common.ErrorInvalidCredentials; the distinction is visible only in the
// audit trail ("login_failed" without vs. with an employee reference).
func (s *Store) Authenticate(ctx context.Context, username, pass, deviceUUID string) (*AuthResult, error) {
	e, err := s.employees.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.LogEvent(ctx, Event{Type: "login_failed", DeviceUUID: deviceUUID, Description: "User not found"})
			return nil, common.ErrorInvalidCredentials
		}
		return nil, err
	}
	if !e.IsActive {
		s.LogEvent(ctx, Event{Type: "login_failed", DeviceUUID: deviceUUID, Description: "User not found"})
		return nil, common.ErrorInvalidCredentials
	}

	if !password.Verify(pass, e.Salt, e.PasswordHash) {
		s.LogEvent(ctx, Event{Type: "login_failed", EmployeeID: &e.ID, DeviceUUID: deviceUUID, Description: "Invalid password"})
		return nil, common.ErrorInvalidCredentials
	}

	device, err := s.upsertDevice(ctx, deviceUUID)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, &models.Session{
		SessionUUID: uuid.NewString(),
		EmployeeID:  e.ID,
		DeviceID:    device.ID,
		CreatedAt:   s.now(),
		IsActive:    true,
	})
	if err != nil {
		return nil, err
	}

	s.LogEvent(ctx, Event{
		Type: "login_success", EmployeeID: &e.ID, DeviceUUID: deviceUUID,
		Description: "User authenticated successfully", SessionID: sess.SessionUUID,
	})

	profile := *e
	profile.PasswordHash = ""
	profile.Salt = ""
	return &AuthResult{SessionUUID: sess.SessionUUID, Employee: profile}, nil
}

// LogEvent appends one audit event with the local wall-clock timestamp.
// It never fails outward: internal errors are logged and swallowed so a
// broken audit write cannot take down the caller's loop.
func (s *Store) LogEvent(ctx context.Context, e Event) {
	device, err := s.upsertDevice(ctx, e.DeviceUUID)
	if err != nil {
		s.logger.Error(ctx, "failed to log event", "event_type", e.Type, "error", err)
		return
	}

	err = s.events.Insert(ctx, &models.AuditEvent{
		EventType:   e.Type,
		EmployeeID:  e.EmployeeID,
		DeviceID:    device.ID,
		Description: e.Description,
		Timestamp:   s.now(),
		SessionID:   e.SessionID,
	})
	if err != nil {
		s.logger.Error(ctx, "failed to log event", "event_type", e.Type, "error", err)
	}
}

// ValidateSession reports whether a session with the given uuid exists and
// is still active. No expiry-based invalidation happens here.
func (s *Store) ValidateSession(ctx context.Context, sessionUUID string) bool {
	sess, err := s.sessions.GetByUUID(ctx, sessionUUID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "failed to validate session", "error", err)
		}
		return false
	}
	return sess.IsActive
}

// InvalidateSession deactivates the session and stamps its expiry. A
// missing session is a no-op, not an error.
func (s *Store) InvalidateSession(ctx context.Context, sessionUUID string) error {
	return s.sessions.Deactivate(ctx, sessionUUID, s.now())
}

// ClearAllLogs removes every audit event and returns the count removed.
func (s *Store) ClearAllLogs(ctx context.Context) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(ctx context.Context, ev auditevents.Repository) error {
		var err error
		n, err = ev.DeleteAll(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "cleared all audit logs", "count", n)
	return n, nil
}

// DeleteLogsByDateRange removes events within [from, to] inclusive.
func (s *Store) DeleteLogsByDateRange(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(ctx context.Context, ev auditevents.Repository) error {
		var err error
		n, err = ev.DeleteByRange(ctx, from, to)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "deleted audit logs by range", "count", n, "from", from, "to", to)
	return n, nil
}

// DeleteLogsByEventType removes events of the given type.
func (s *Store) DeleteLogsByEventType(ctx context.Context, eventType string) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(ctx context.Context, ev auditevents.Repository) error {
		var err error
		n, err = ev.DeleteByType(ctx, eventType)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "deleted audit logs by type", "count", n, "event_type", eventType)
	return n, nil
}

// DeleteLogsByUsername removes events referencing the employee with the
// given username. An unknown username is a no-op returning 0.
func (s *Store) DeleteLogsByUsername(ctx context.Context, username string) (int64, error) {
	e, err := s.employees.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "employee not found for log deletion", "username", username)
			return 0, nil
		}
		return 0, err
	}

	var n int64
	err = s.withTx(ctx, func(ctx context.Context, ev auditevents.Repository) error {
		var err error
		n, err = ev.DeleteByEmployee(ctx, e.ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "deleted audit logs for user", "count", n, "username", username)
	return n, nil
}

// CleanupOldLogs removes events older than retentionDays and returns the
// count removed.
func (s *Store) CleanupOldLogs(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -retentionDays)

	var n int64
	err := s.withTx(ctx, func(ctx context.Context, ev auditevents.Repository) error {
		var err error
		n, err = ev.DeleteOlderThan(ctx, cutoff)
		return err
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info(ctx, "cleaned up old audit logs", "count", n, "retention_days", retentionDays)
	}
	return n, nil
}

// LogCount returns the number of audit events currently stored.
func (s *Store) LogCount(ctx context.Context) (int64, error) {
	return s.events.Count(ctx)
}

// DatabaseSize returns the size of the database file in bytes, 0 if it
// cannot be determined (e.g. in-memory databases).
func (s *Store) DatabaseSize() int64 {
	info, err := os.Stat(s.dbPath)
	if err != nil {
		return 0
	}
	return info.Size()
}

// LogStats gathers the current audit-log statistics.
func (s *Store) LogStats(ctx context.Context, retentionDays int) (*LogStatistics, error) {
	n, err := s.LogCount(ctx)
	if err != nil {
		return nil, err
	}
	return &LogStatistics{
		TotalLogs:     n,
		DatabaseSize:  s.DatabaseSize(),
		RetentionDays: retentionDays,
		CutoffDate:    s.now().AddDate(0, 0, -retentionDays),
	}, nil
}

// CreateEmployee adds a new credentialed user. Usernames are unique
// case-sensitively; a duplicate surfaces as common.ErrorDuplicate.
func (s *Store) CreateEmployee(ctx context.Context, username, pass, fullName, department, role string) (*models.Employee, error) {
	if _, err := s.employees.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username %q: %w", username, common.ErrorDuplicate)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	salt, err := password.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := password.Hash(pass, salt)
	if err != nil {
		return nil, err
	}

	return s.employees.Create(ctx, &models.Employee{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		FullName:     fullName,
		Department:   department,
		Role:         role,
		IsActive:     true,
		CreatedAt:    s.now(),
	})
}

// ListEmployees returns all employees without password material.
func (s *Store) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.employees.List(ctx)
}

// SetEmployeeActive flips the active flag for the named employee.
func (s *Store) SetEmployeeActive(ctx context.Context, username string, active bool) error {
	e, err := s.employees.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.employees.SetActive(ctx, e.ID, active)
}

// SetEmployeePassword rehashes and stores a new password for the named
// employee with a fresh salt.
func (s *Store) SetEmployeePassword(ctx context.Context, username, pass string) error {
	e, err := s.employees.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	salt, err := password.GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := password.Hash(pass, salt)
	if err != nil {
		return err
	}
	return s.employees.UpdatePassword(ctx, e.ID, hash, salt)
}
