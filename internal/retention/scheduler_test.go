package retention

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/companylock/agent/internal/logging"
	"github.com/companylock/agent/internal/store"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeLogStore struct {
	mu       sync.Mutex
	cleanups int
	deleted  int64
	err      error
	size     int64
	events   []store.Event
}

func (f *fakeLogStore) CleanupOldLogs(context.Context, int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleanups++
	if f.err != nil {
		return 0, f.err
	}
	// pretend the file shrank
	f.size -= 100
	return f.deleted, nil
}

func (f *fakeLogStore) DatabaseSize() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size
}

func (f *fakeLogStore) LogEvent(_ context.Context, e store.Event) {
	f.mu.Lock()
	f.events = append(f.events, e)
	f.mu.Unlock()
}

func (f *fakeLogStore) cleanupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleanups
}

func (f *fakeLogStore) allEvents() []store.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Event(nil), f.events...)
}

func TestRunsImmediatelyAndAudits(t *testing.T) {
	fs := &fakeLogStore{deleted: 12, size: 1000}
	s := NewScheduler(fs, Config{RetentionDays: 30, Interval: time.Hour, ErrorBackoff: time.Hour}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.Eventually(t, func() bool { return fs.cleanupCount() == 1 }, time.Second, time.Millisecond)

	events := fs.allEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "LOG_CLEANUP", events[0].Type)
	assert.Equal(t, "SYSTEM", events[0].DeviceUUID)
	assert.Contains(t, events[0].Description, "Deleted 12 old log entries")
	assert.Contains(t, events[0].Description, "100 bytes saved")
}

func TestErrorBackoffRetriesSooner(t *testing.T) {
	fs := &fakeLogStore{err: errors.New("disk full")}
	s := NewScheduler(fs, Config{RetentionDays: 30, Interval: time.Hour, ErrorBackoff: 10 * time.Millisecond}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// the hour-long interval never elapses in this test, so a second run
	// can only come from the error backoff
	require.Eventually(t, func() bool { return fs.cleanupCount() >= 2 }, time.Second, time.Millisecond)

	events := fs.allEvents()
	require.NotEmpty(t, events)
	assert.Equal(t, "LOG_CLEANUP_ERROR", events[0].Type)
	assert.Equal(t, "SYSTEM", events[0].DeviceUUID)
	assert.True(t, strings.Contains(events[0].Description, "disk full"))
}

func TestNothingDeletedIsNotAudited(t *testing.T) {
	fs := &fakeLogStore{deleted: 0, size: 1000}
	s := NewScheduler(fs, Config{RetentionDays: 30, Interval: time.Hour, ErrorBackoff: time.Hour}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.Eventually(t, func() bool { return fs.cleanupCount() == 1 }, time.Second, time.Millisecond)
	assert.Empty(t, fs.allEvents())
}

func TestTriggerCleanupRunsOutOfBand(t *testing.T) {
	fs := &fakeLogStore{deleted: 1, size: 500}
	s := NewScheduler(fs, Config{RetentionDays: 30, Interval: time.Hour, ErrorBackoff: time.Hour}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.Eventually(t, func() bool { return fs.cleanupCount() == 1 }, time.Second, time.Millisecond)

	s.TriggerCleanup()
	require.Eventually(t, func() bool { return fs.cleanupCount() == 2 }, time.Second, time.Millisecond)
}

func TestTriggerCleanupNeverBlocks(t *testing.T) {
	fs := &fakeLogStore{}
	s := NewScheduler(fs, Config{RetentionDays: 30, Interval: time.Hour, ErrorBackoff: time.Hour}, testLogger())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.TriggerCleanup()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("TriggerCleanup blocked without a running scheduler")
	}
}
