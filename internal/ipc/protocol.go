// Package ipc implements the local request/response channel between the
// agent and the lock-screen process: a unix-domain socket named after the
// configured pipe, message-mode framing (each read yields exactly one
// message) and UTF-8 JSON envelopes.
package ipc

// Supported action tags. Dispatch is a closed set: anything else answers
// with "Unknown action".
const (
	ActionAuthenticate      = "authenticate"
	ActionLogEvent          = "log_event"
	ActionValidateSession   = "validate_session"
	ActionInvalidateSession = "invalidate_session"
)

// Request is the outer envelope. Data carries the action-specific payload,
// itself JSON-serialized (or, for the session actions, the bare uuid).
type Request struct {
	Action string `json:"Action"`
	Data   string `json:"Data"`
}

// Response is the outer reply envelope.
type Response struct {
	Success      bool   `json:"Success"`
	Data         string `json:"Data,omitempty"`
	ErrorMessage string `json:"ErrorMessage,omitempty"`
}

// AuthRequest is the payload of an "authenticate" request.
type AuthRequest struct {
	Username   string `json:"Username"`
	Password   string `json:"Password"`
	DeviceUuid string `json:"DeviceUuid"`
}

// EmployeeInfo is the profile returned to the lock screen after a
// successful authentication. No password material ever crosses the pipe.
type EmployeeInfo struct {
	Id         int64  `json:"Id"`
	Username   string `json:"Username"`
	FullName   string `json:"FullName"`
	Department string `json:"Department"`
	Role       string `json:"Role"`
}

// AuthResponse is serialized into Response.Data for "authenticate".
type AuthResponse struct {
	Success      bool          `json:"Success"`
	SessionUuid  string        `json:"SessionUuid"`
	ErrorMessage string        `json:"ErrorMessage,omitempty"`
	Employee     *EmployeeInfo `json:"Employee,omitempty"`
}

// EventRequest is the payload of a "log_event" request.
type EventRequest struct {
	EventType   string `json:"EventType"`
	DeviceUuid  string `json:"DeviceUuid"`
	EmployeeId  *int64 `json:"EmployeeId,omitempty"`
	Description string `json:"Description,omitempty"`
	SessionId   string `json:"SessionId,omitempty"`
}

// Event types the lock-screen process reports about its own lifecycle.
// The server toggles the shortcut suppressor on these.
const (
	EventLockScreenShown   = "lockscreen_shown"
	EventLockScreenClosing = "lockscreen_closing"
)
