package lockscreen

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/companylock/agent/internal/logging"
)

// ExecLauncher starts the lock-screen executable from the first candidate
// path that exists on disk.
type ExecLauncher struct {
	candidates  []string
	processName string
	logger      logging.Logger
}

func NewExecLauncher(candidates []string, processName string, logger logging.Logger) *ExecLauncher {
	return &ExecLauncher{
		candidates:  candidates,
		processName: processName,
		logger:      logger.With("module", "lock_launcher"),
	}
}

// AlreadyRunning scans the process table for the lock-screen process name.
func (l *ExecLauncher) AlreadyRunning() (bool, error) {
	return processRunning(l.processName)
}

// Start probes the candidate paths in order and launches the first one
// that exists. The child is detached from ctx: a shutting-down agent does
// not tear down a lock screen the user is looking at.
func (l *ExecLauncher) Start(ctx context.Context) (Process, error) {
	path, err := l.resolve()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(path)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", path, err)
	}
	l.logger.Info(ctx, "lock screen process spawned", "path", path, "pid", cmd.Process.Pid)
	return &execProcess{cmd: cmd}, nil
}

func (l *ExecLauncher) resolve() (string, error) {
	for _, p := range l.candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("lock screen executable not found in %d candidate paths", len(l.candidates))
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}
