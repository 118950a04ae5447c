package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Client is a synchronous pipe client: one request, one framed response.
// It is used by the lock-screen process and by the management CLI.
type Client struct {
	conn net.Conn
}

// Dial connects to the agent's pipe.
func Dial(pipeName string) (*Client, error) {
	return DialTimeout(pipeName, 5*time.Second)
}

// DialTimeout connects with an explicit connect timeout.
func DialTimeout(pipeName string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("unix", PipePath(pipeName), timeout)
	if err != nil {
		return nil, fmt.Errorf("ipc: dial %s: %w", pipeName, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) do(action, data string) (*Response, error) {
	payload, err := json.Marshal(Request{Action: action, Data: data})
	if err != nil {
		return nil, err
	}
	if err := WriteMessage(c.conn, payload); err != nil {
		return nil, fmt.Errorf("ipc: write request: %w", err)
	}
	raw, err := ReadMessage(c.conn)
	if err != nil {
		return nil, fmt.Errorf("ipc: read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("ipc: decode response: %w", err)
	}
	return &resp, nil
}

// Authenticate submits credentials and returns the decoded auth result.
func (c *Client) Authenticate(username, password, deviceUUID string) (*AuthResponse, error) {
	data, err := json.Marshal(AuthRequest{Username: username, Password: password, DeviceUuid: deviceUUID})
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ActionAuthenticate, string(data))
	if err != nil {
		return nil, err
	}
	if resp.Data == "" {
		if resp.ErrorMessage != "" {
			return nil, errors.New(resp.ErrorMessage)
		}
		return nil, errors.New("ipc: empty authentication response")
	}
	var ar AuthResponse
	if err := json.Unmarshal([]byte(resp.Data), &ar); err != nil {
		return nil, fmt.Errorf("ipc: decode auth response: %w", err)
	}
	return &ar, nil
}

// LogEvent reports an audit event to the agent.
func (c *Client) LogEvent(e EventRequest) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	resp, err := c.do(ActionLogEvent, string(data))
	if err != nil {
		return err
	}
	if !resp.Success {
		return errors.New(resp.ErrorMessage)
	}
	return nil
}

// ValidateSession reports whether the session is still active.
func (c *Client) ValidateSession(sessionUUID string) (bool, error) {
	resp, err := c.do(ActionValidateSession, sessionUUID)
	if err != nil {
		return false, err
	}
	if resp.Data == "" {
		return resp.Success, nil
	}
	return strconv.ParseBool(resp.Data)
}

// InvalidateSession deactivates the session.
func (c *Client) InvalidateSession(sessionUUID string) error {
	resp, err := c.do(ActionInvalidateSession, sessionUUID)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errors.New(resp.ErrorMessage)
	}
	return nil
}
