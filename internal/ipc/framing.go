package ipc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MaxMessageSize bounds a single framed message. Requests are small JSON
// envelopes; anything larger is a protocol violation.
const MaxMessageSize = 1 << 20

var ErrMessageTooLarge = errors.New("ipc: message exceeds size limit")

// WriteMessage writes one length-prefixed message: a 4-byte big-endian
// length followed by the payload.
func WriteMessage(w io.Writer, payload []byte) error {
	if len(payload) > MaxMessageSize {
		return ErrMessageTooLarge
	}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadMessage reads exactly one framed message. io.EOF is returned
// unwrapped when the peer closes the connection between messages.
func ReadMessage(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("ipc: read header: %w", err)
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("ipc: read payload: %w", err)
	}
	return payload, nil
}

// PipePath maps the logical pipe name to a socket path in the runtime
// directory (XDG_RUNTIME_DIR when set, the temp dir otherwise).
func PipePath(name string) string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, name+".sock")
}
