package lockscreen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePicksFirstExistingCandidate(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "second")
	require.NoError(t, os.WriteFile(second, []byte("#!/bin/sh\n"), 0o755))

	l := NewExecLauncher([]string{
		filepath.Join(dir, "missing"),
		second,
		filepath.Join(dir, "third"),
	}, "lockscreen", testLogger())

	path, err := l.resolve()
	require.NoError(t, err)
	assert.Equal(t, second, path)
}

func TestResolveSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	l := NewExecLauncher([]string{dir}, "lockscreen", testLogger())

	_, err := l.resolve()
	assert.Error(t, err)
}

func TestStartFailsWithNoCandidates(t *testing.T) {
	l := NewExecLauncher([]string{filepath.Join(t.TempDir(), "nope")}, "lockscreen", testLogger())

	_, err := l.Start(context.Background())
	assert.Error(t, err)
}
