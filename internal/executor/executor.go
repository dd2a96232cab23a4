package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/oshokin/asar-pipeline/internal/logger"
)

// Runner executes an external command synchronously and returns its outcome.
// The pipeline depends on this interface so tests can substitute a recorder.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands through os/exec, forwarding the child's output
// to the parent's stdout and stderr.
type ExecRunner struct {
	// timeout bounds each command. Zero means the command runs unbounded.
	timeout time.Duration
}

// New creates an ExecRunner with the provided per-command timeout.
func New(timeout time.Duration) *ExecRunner {
	return &ExecRunner{timeout: timeout}
}

// Run executes the command and waits for it to terminate.
// The returned error is an *exec.ExitError when the command ran but exited non-zero.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	logger.DebugKV(ctx, "Executing command", "name", name, "args", args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// ExitCode extracts the process exit code from a Run error.
// It returns 0 for nil and -1 when the command never ran or was killed.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}
