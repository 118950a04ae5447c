package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/companylock/agent/internal/common"
	"github.com/companylock/agent/internal/logging"
	"github.com/companylock/agent/internal/store"
)

// AuthService is the slice of the auth store the IPC server needs.
type AuthService interface {
	Authenticate(ctx context.Context, username, password, deviceUUID string) (*store.AuthResult, error)
	LogEvent(ctx context.Context, e store.Event)
	ValidateSession(ctx context.Context, sessionUUID string) bool
	InvalidateSession(ctx context.Context, sessionUUID string) error
}

// Suppressor is the shortcut-suppression capability of the host. The server
// enables it when the lock screen reports it has taken focus and disables
// it when the lock screen reports it is closing.
type Suppressor interface {
	Enable() error
	Disable() error
}

// NopSuppressor is the default no-op Suppressor.
type NopSuppressor struct{}

func (NopSuppressor) Enable() error  { return nil }
func (NopSuppressor) Disable() error { return nil }

type handlerFunc func(ctx context.Context, data string) Response

// Server accepts connections on the agent's local pipe and translates
// framed JSON requests into auth-store calls. Every per-request failure is
// answered with a structured Response; nothing a client sends can stop the
// accept loop.
type Server struct {
	pipeName   string
	auth       AuthService
	suppressor Suppressor
	logger     logging.Logger
	handlers   map[string]handlerFunc

	// accept-loop retry policy, configurable for tests
	backoffBase time.Duration
	backoffCap  time.Duration

	mu     sync.Mutex
	ln     net.Listener
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer builds a server for the given pipe name. A nil suppressor gets
// the no-op implementation.
func NewServer(pipeName string, auth AuthService, suppressor Suppressor, logger logging.Logger) *Server {
	if suppressor == nil {
		suppressor = NopSuppressor{}
	}
	s := &Server{
		pipeName:    pipeName,
		auth:        auth,
		suppressor:  suppressor,
		logger:      logger.With("module", "ipc_server"),
		backoffBase: 100 * time.Millisecond,
		backoffCap:  time.Second,
	}
	s.handlers = map[string]handlerFunc{
		ActionAuthenticate:      s.handleAuthenticate,
		ActionLogEvent:          s.handleLogEvent,
		ActionValidateSession:   s.handleValidateSession,
		ActionInvalidateSession: s.handleInvalidateSession,
	}
	return s
}

// Start begins listening and serving in the background. A stale socket
// file from an unclean shutdown is removed first. Start after Stop is
// supported.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return nil
	}

	path := PipePath(s.pipeName)
	_ = os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.ln = ln
	s.cancel = cancel

	s.wg.Add(1)
	go s.acceptLoop(ctx, ln)

	s.logger.Info(ctx, "pipe server started", "pipe", s.pipeName, "path", path)
	return nil
}

// Stop cancels the accept loop and any in-flight connections, then waits
// for them to drain.
func (s *Server) Stop() {
	s.mu.Lock()
	ln := s.ln
	cancel := s.cancel
	s.ln = nil
	s.cancel = nil
	s.mu.Unlock()

	if ln == nil {
		return
	}
	cancel()
	_ = ln.Close()
	s.wg.Wait()
	s.logger.Info(context.Background(), "pipe server stopped", "pipe", s.pipeName)
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	defer s.wg.Done()

	backoff := retry.WithCappedDuration(s.backoffCap, retry.NewFibonacci(s.backoffBase))

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// bounded backoff on repeated accept failures
			d, _ := backoff.Next()
			s.logger.Error(ctx, "accept failed", "error", err, "retry_in", d)
			select {
			case <-ctx.Done():
				return
			case <-time.After(d):
			}
			continue
		}
		// clean connection: reset the failure backoff
		backoff = retry.WithCappedDuration(s.backoffCap, retry.NewFibonacci(s.backoffBase))

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		msg, err := ReadMessage(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				s.logger.Error(ctx, "pipe read failed", "error", err)
			}
			return
		}

		resp := s.dispatch(ctx, msg)

		out, err := json.Marshal(resp)
		if err != nil {
			s.logger.Error(ctx, "response marshal failed", "error", err)
			return
		}
		if err := WriteMessage(conn, out); err != nil {
			if ctx.Err() == nil {
				s.logger.Error(ctx, "pipe write failed", "error", err)
			}
			return
		}
	}
}

// dispatch decodes one envelope and routes it to the action handler.
func (s *Server) dispatch(ctx context.Context, raw []byte) Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Response{Success: false, ErrorMessage: "Invalid request format"}
	}

	h, ok := s.handlers[req.Action]
	if !ok {
		return Response{Success: false, ErrorMessage: "Unknown action"}
	}
	return h(ctx, req.Data)
}

func (s *Server) handleAuthenticate(ctx context.Context, data string) Response {
	var req AuthRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return Response{Success: false, ErrorMessage: "Invalid authentication request"}
	}

	result, err := s.auth.Authenticate(ctx, req.Username, req.Password, req.DeviceUuid)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			return s.authResponse(AuthResponse{Success: false, ErrorMessage: "Invalid credentials"})
		}
		s.logger.Error(ctx, "authentication failed", "username", req.Username, "error", err)
		return Response{Success: false, ErrorMessage: "Authentication failed"}
	}

	return s.authResponse(AuthResponse{
		Success:     true,
		SessionUuid: result.SessionUUID,
		Employee: &EmployeeInfo{
			Id:         result.Employee.ID,
			Username:   result.Employee.Username,
			FullName:   result.Employee.FullName,
			Department: result.Employee.Department,
			Role:       result.Employee.Role,
		},
	})
}

func (s *Server) authResponse(ar AuthResponse) Response {
	payload, err := json.Marshal(ar)
	if err != nil {
		return Response{Success: false, ErrorMessage: "Authentication failed"}
	}
	return Response{Success: ar.Success, Data: string(payload), ErrorMessage: ar.ErrorMessage}
}

func (s *Server) handleLogEvent(ctx context.Context, data string) Response {
	var req EventRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return Response{Success: false, ErrorMessage: "Invalid event request"}
	}

	s.auth.LogEvent(ctx, store.Event{
		Type:        req.EventType,
		EmployeeID:  req.EmployeeId,
		DeviceUUID:  req.DeviceUuid,
		Description: req.Description,
		SessionID:   req.SessionId,
	})

	switch req.EventType {
	case EventLockScreenShown:
		if err := s.suppressor.Enable(); err != nil {
			s.logger.Error(ctx, "failed to enable shortcut suppression", "error", err)
		}
	case EventLockScreenClosing:
		if err := s.suppressor.Disable(); err != nil {
			s.logger.Error(ctx, "failed to disable shortcut suppression", "error", err)
		}
	}

	return Response{Success: true}
}

func (s *Server) handleValidateSession(ctx context.Context, data string) Response {
	valid := s.auth.ValidateSession(ctx, data)
	return Response{Success: valid, Data: strconv.FormatBool(valid)}
}

func (s *Server) handleInvalidateSession(ctx context.Context, data string) Response {
	if err := s.auth.InvalidateSession(ctx, data); err != nil {
		s.logger.Error(ctx, "session invalidation failed", "error", err)
		return Response{Success: false, ErrorMessage: "Session invalidation failed"}
	}
	return Response{Success: true}
}
