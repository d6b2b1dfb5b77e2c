// Package sandbox runs flagged command snippets inside an ephemeral,
// resource-limited container. Availability is probed once per run; when
// the sandbox is absent the pipeline degrades to pattern-only mode.
package sandbox

import (
	"context"

	"github.com/cmdguard/cmdguard/internal/core"
)

// Sandbox is the capability abstraction for sandboxed execution. Tests
// inject fakes; production wiring selects the Docker implementation.
type Sandbox interface {
	// Available reports whether the sandbox can run commands. The
	// result is cached for the life of the value.
	Available() bool
	// Run executes command inside the sandbox, bounded by ctx and the
	// implementation's own hard timeout.
	Run(ctx context.Context, command string) (*core.ExecResult, error)
}

// Unavailable is the no-op sandbox used when execution is disabled or
// no container runtime exists. Every run short-circuits to a failure
// that callers record as a warning, not an error.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Run(ctx context.Context, command string) (*core.ExecResult, error) {
	return &core.ExecResult{
		Success:            false,
		Error:              "sandbox unavailable",
		ContainerValidated: false,
	}, nil
}
