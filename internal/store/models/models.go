// Package models defines the persistent entities of the local auth store.
// Sessions and audit events reference employees/devices by foreign id only;
// reads join at query time.
package models

import "time"

// Employee is a credentialed user. Password material is stored as an
// Argon2id hash plus per-user salt, both base64; the plaintext is never
// persisted or logged.
type Employee struct {
	ID           int64
	Username     string
	PasswordHash string
	Salt         string
	FullName     string
	Department   string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	LastSyncAt   *time.Time
}

// Device is a physical endpoint, identified by a uuid that stays stable
// across agent restarts.
type Device struct {
	ID           int64
	DeviceUUID   string
	Hostname     string
	ComputerName string
	OSVersion    string
	RegisteredAt time.Time
	LastSeenAt   *time.Time
}

// Session is an authenticated unlock grant. Deactivation is monotonic:
// IsActive only ever transitions true→false.
type Session struct {
	ID          int64
	SessionUUID string
	EmployeeID  int64
	DeviceID    int64
	CreatedAt   time.Time
	ExpiredAt   *time.Time
	IsActive    bool
}

// AuditEvent is an append-only log record. Rows are removed only by the
// retention sweep or explicit operator action, never mutated.
type AuditEvent struct {
	ID          int64
	EventType   string
	EmployeeID  *int64
	DeviceID    int64
	Description string
	Timestamp   time.Time
	SessionID   string
}
