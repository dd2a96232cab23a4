package executor

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// skipOnWindows skips tests that rely on a POSIX shell.
func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

// TestRunSuccess executes a trivial command and expects a zero exit code.
func TestRunSuccess(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	r := New(0)

	err := r.Run(context.Background(), "sh", "-c", "exit 0")
	require.NoError(t, err)
	require.Equal(t, 0, ExitCode(err))
}

// TestRunFailure checks that a non-zero exit surfaces as an error with the right code.
func TestRunFailure(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	r := New(0)

	err := r.Run(context.Background(), "sh", "-c", "exit 3")
	require.Error(t, err)
	require.Equal(t, 3, ExitCode(err))
}

// TestRunMissingCommand ensures a command that cannot start yields code -1.
func TestRunMissingCommand(t *testing.T) {
	t.Parallel()

	r := New(0)

	err := r.Run(context.Background(), "definitely-not-a-real-command-asar")
	require.Error(t, err)
	require.Equal(t, -1, ExitCode(err))
}

// TestRunTimeout verifies that the per-command timeout terminates a hung command.
func TestRunTimeout(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	r := New(100 * time.Millisecond)

	start := time.Now()
	err := r.Run(context.Background(), "sh", "-c", "sleep 10")
	require.Error(t, err)
	require.Less(t, time.Since(start), 5*time.Second)
}

// TestExitCodeNil confirms the nil error mapping.
func TestExitCodeNil(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, -1, ExitCode(errors.New("not an exec error")))
}
