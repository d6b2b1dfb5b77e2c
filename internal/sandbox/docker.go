package sandbox

import (
	"bytes"
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/cmdguard/cmdguard/internal/core"
)

const (
	// DefaultTimeout bounds a single sandboxed execution.
	DefaultTimeout = 10 * time.Second

	probeTimeout = 3 * time.Second
	defaultImage = "alpine:3.20"
)

// Docker executes commands via `docker run` in a locked-down throwaway
// container: no network, dropped capabilities, read-only root, and
// memory/pid limits.
type Docker struct {
	Image   string
	Timeout time.Duration

	probeOnce sync.Once
	available bool
}

// NewDocker returns a Docker sandbox with default image and timeout.
func NewDocker() *Docker {
	return &Docker{Image: defaultImage, Timeout: DefaultTimeout}
}

// Available probes the Docker daemon once and caches the answer.
func (d *Docker) Available() bool {
	d.probeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		err := exec.CommandContext(ctx, "docker", "info").Run()
		d.available = err == nil
	})
	return d.available
}

// Run executes command in an ephemeral container. A context deadline or
// non-zero exit is reported as a failed result, not a Go error; err is
// reserved for failures to invoke docker itself.
func (d *Docker) Run(ctx context.Context, command string) (*core.ExecResult, error) {
	if !d.Available() {
		return Unavailable{}.Run(ctx, command)
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"run", "--rm",
		"--network", "none",
		"--memory", "128m",
		"--pids-limit", "64",
		"--cap-drop", "ALL",
		"--read-only",
		"--tmpfs", "/tmp",
		d.Image,
		"/bin/sh", "-c", command,
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, "docker", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := &core.ExecResult{
		Duration: elapsed,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		result.Error = "execution timed out"
	case err != nil:
		result.Error = err.Error()
	default:
		result.Success = true
		result.ContainerValidated = true
	}
	return result, nil
}
