package lockctl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/companylock/agent/internal/agent/config"
	"github.com/companylock/agent/internal/logging"
	"github.com/companylock/agent/internal/store"
)

func testApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "agent.db")

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	st, err := store.Open(context.Background(), cfg.DatabasePath, logger, cfg.AdminUsername, cfg.AdminPassword)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	out := &bytes.Buffer{}
	return &App{config: cfg, logger: logger, store: st, out: out}, out
}

func withPasswords(t *testing.T, passwords ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	i := 0
	readPassword = func(int) ([]byte, error) {
		p := passwords[i]
		i++
		return []byte(p), nil
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	a, _ := testApp(t)

	assert.Error(t, a.Run(context.Background(), []string{"reboot"}))
	assert.Error(t, a.Run(context.Background(), nil))
	assert.NoError(t, a.Run(context.Background(), []string{"help"}))
}

func TestEmployeeAddAndList(t *testing.T) {
	a, out := testApp(t)
	ctx := context.Background()

	withPasswords(t, "s3cret", "s3cret")
	require.NoError(t, a.Run(ctx, []string{"employee", "add", "-u", "alice", "-n", "Alice Smith", "-dept", "IT"}))
	assert.Contains(t, out.String(), `Created employee "alice"`)

	out.Reset()
	require.NoError(t, a.Run(ctx, []string{"employee", "list"}))
	assert.Contains(t, out.String(), "alice")
	assert.Contains(t, out.String(), "Alice Smith")

	// the new credential actually authenticates
	res, err := a.store.Authenticate(ctx, "alice", "s3cret", "44444444-4444-4444-4444-444444444444")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Employee.Username)
}

func TestEmployeeAdd_PasswordMismatch(t *testing.T) {
	a, _ := testApp(t)

	withPasswords(t, "one", "two")
	err := a.Run(context.Background(), []string{"employee", "add", "-u", "bob"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match")
}

func TestEmployeeDeactivate(t *testing.T) {
	a, out := testApp(t)
	ctx := context.Background()

	withPasswords(t, "pw", "pw")
	require.NoError(t, a.Run(ctx, []string{"employee", "add", "-u", "carol"}))

	require.NoError(t, a.Run(ctx, []string{"employee", "deactivate", "-u", "carol"}))
	assert.Contains(t, out.String(), "deactivated")

	_, err := a.store.Authenticate(ctx, "carol", "pw", "55555555-5555-5555-5555-555555555555")
	assert.Error(t, err)
}

func TestEmployeePasswd(t *testing.T) {
	a, _ := testApp(t)
	ctx := context.Background()

	withPasswords(t, "old", "old", "new", "new")
	require.NoError(t, a.Run(ctx, []string{"employee", "add", "-u", "dave"}))
	require.NoError(t, a.Run(ctx, []string{"employee", "passwd", "-u", "dave"}))

	_, err := a.store.Authenticate(ctx, "dave", "old", "66666666-6666-6666-6666-666666666666")
	assert.Error(t, err)
	_, err = a.store.Authenticate(ctx, "dave", "new", "66666666-6666-6666-6666-666666666666")
	assert.NoError(t, err)
}

func TestLogsStatsAndClear(t *testing.T) {
	a, out := testApp(t)
	ctx := context.Background()

	a.store.LogEvent(ctx, store.Event{Type: "lock_triggered", DeviceUUID: "77777777-7777-7777-7777-777777777777"})

	require.NoError(t, a.Run(ctx, []string{"logs", "stats"}))
	assert.Contains(t, out.String(), "Total log entries: 1")

	out.Reset()
	require.NoError(t, a.Run(ctx, []string{"logs", "clear"}))
	assert.Contains(t, out.String(), "Deleted 1 entries")

	n, err := a.store.LogCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLogsDeleteByType(t *testing.T) {
	a, out := testApp(t)
	ctx := context.Background()

	a.store.LogEvent(ctx, store.Event{Type: "lock_triggered", DeviceUUID: "88888888-8888-8888-8888-888888888888"})
	a.store.LogEvent(ctx, store.Event{Type: "login_failed", DeviceUUID: "88888888-8888-8888-8888-888888888888"})

	require.NoError(t, a.Run(ctx, []string{"logs", "delete", "-type", "login_failed"}))
	assert.Contains(t, out.String(), `Deleted 1 entries of type "login_failed"`)

	n, err := a.store.LogCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLogsDelete_RequiresSelector(t *testing.T) {
	a, _ := testApp(t)

	err := a.Run(context.Background(), []string{"logs", "delete"})
	require.Error(t, err)
}
