package monitor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionSource struct {
	ch chan SessionEvent
}

func (f *fakeSessionSource) Events() <-chan SessionEvent { return f.ch }

func TestSessionMonitor_LocksOnLogonOnly(t *testing.T) {
	src := &fakeSessionSource{ch: make(chan SessionEvent)}
	var locked atomic.Int32

	m := NewSessionMonitor(src, func() { locked.Add(1) }, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	src.ch <- SessionEvent{Type: SessionLogoff, User: "alice"}
	src.ch <- SessionEvent{Type: SessionUnlock, User: "alice"}
	src.ch <- SessionEvent{Type: SessionLogon, User: "alice"}

	require.Eventually(t, func() bool { return locked.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), locked.Load())
}

func TestSessionMonitor_StopsWhenSourceCloses(t *testing.T) {
	src := &fakeSessionSource{ch: make(chan SessionEvent)}
	m := NewSessionMonitor(src, func() {}, testLogger())

	done := make(chan struct{})
	go func() { m.Run(context.Background()); close(done) }()

	close(src.ch)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after source closed")
	}
}
