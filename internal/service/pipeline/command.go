package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/asar-pipeline/internal/config"
	"github.com/oshokin/asar-pipeline/internal/executor"
	"github.com/oshokin/asar-pipeline/internal/logger"
)

// Options contains inputs for the pipeline entry point.
type Options struct {
	// ConfigPath is an optional path to the settings YAML file.
	ConfigPath string
	// Strict makes the pipeline fail on any step's non-zero exit,
	// not just the patch step's.
	Strict bool
}

// ErrStepFailed marks a pipeline abort caused by an external command's
// non-zero exit. Callers map it to a distinct process exit status.
var ErrStepFailed = errors.New("pipeline step failed")

// runner executes the extract, patch, repack sequence.
// It is unexported—callers should use Run, which encapsulates setup.
type runner struct {
	// cfg holds the archive paths and external command settings.
	cfg *config.Config
	// exec runs the external commands.
	exec executor.Runner
	// strict checks every step's exit code instead of only the patch step's.
	strict bool
}

// Run executes the three-step pipeline described by the settings at
// opts.ConfigPath: unpack the archive, run the patcher against the
// unpacked tree, and repack it if and only if the patcher succeeded.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "asar-pipeline")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	r := newRunner(cfg, executor.New(cfg.Timeout), opts.Strict)

	if err = r.Run(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "Pipeline completed successfully")

	return nil
}

// newRunner creates a runner with the provided settings and command executor.
func newRunner(cfg *config.Config, exec executor.Runner, strict bool) *runner {
	return &runner{
		cfg:    cfg,
		exec:   exec,
		strict: strict,
	}
}

// Run walks the pipeline states in order: extracting, patching, repacking.
// Only the patch step gates continuation; extraction and repacking failures
// are logged and otherwise ignored unless strict mode is on.
func (r *runner) Run(ctx context.Context) error {
	r.warnOnConcurrentRun(ctx)

	// Subprocesses get absolute paths so behavior does not depend on
	// their working directory resolution.
	archive, err := filepath.Abs(r.cfg.Archive)
	if err != nil {
		return fmt.Errorf("resolve archive path: %w", err)
	}

	unpackedDir, err := filepath.Abs(r.cfg.UnpackedDir)
	if err != nil {
		return fmt.Errorf("resolve unpacked directory: %w", err)
	}

	output, err := filepath.Abs(r.cfg.Output)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	if err = r.extract(ctx, archive, unpackedDir); err != nil {
		return err
	}

	if err = r.patch(ctx, unpackedDir); err != nil {
		return err
	}

	return r.repack(ctx, unpackedDir, output)
}

// extract unpacks the archive into the working directory.
func (r *runner) extract(ctx context.Context, archive, unpackedDir string) error {
	logger.Info(ctx, "Unpacking")

	err := r.runAsar(ctx, "e", archive, unpackedDir)
	if err == nil {
		return nil
	}

	if r.strict {
		return fmt.Errorf("extract step: %w: %w", ErrStepFailed, err)
	}

	// The pipeline proceeds regardless; the patcher will fail loudly if
	// the tree is actually unusable.
	logger.WarnKV(ctx, "Extraction command failed, continuing anyway",
		"exit_code", executor.ExitCode(err), "error", err)

	return nil
}

// patch runs the patcher executable against the unpacked directory.
// This is the only gated step: a non-zero exit aborts the pipeline.
func (r *runner) patch(ctx context.Context, unpackedDir string) error {
	logger.Info(ctx, "Patching")

	if err := r.exec.Run(ctx, r.cfg.PatcherCommand, unpackedDir); err != nil {
		logger.ErrorKV(ctx, "Failed to patch source files",
			"exit_code", executor.ExitCode(err), "error", err)

		return fmt.Errorf("patch step: %w: %w", ErrStepFailed, err)
	}

	return nil
}

// repack packs the working directory into the output archive,
// overwriting any previous output.
func (r *runner) repack(ctx context.Context, unpackedDir, output string) error {
	logger.Info(ctx, "Repacking")

	err := r.runAsar(ctx, "p", unpackedDir, output)
	if err == nil {
		return nil
	}

	if r.strict {
		return fmt.Errorf("repack step: %w: %w", ErrStepFailed, err)
	}

	logger.WarnKV(ctx, "Repacking command failed",
		"exit_code", executor.ExitCode(err), "error", err)

	return nil
}

// runAsar invokes the asar tool with the configured argv prefix.
func (r *runner) runAsar(ctx context.Context, args ...string) error {
	argv := append(append([]string(nil), r.cfg.AsarCommand[1:]...), args...)

	return r.exec.Run(ctx, r.cfg.AsarCommand[0], argv...)
}

// warnOnConcurrentRun scans the process table for another instance of this
// tool or of the patcher. Concurrent runs against the same working
// directory are undefined behavior, so this only warns, never blocks.
func (r *runner) warnOnConcurrentRun(ctx context.Context) {
	processes, err := ps.Processes()
	if err != nil {
		logger.Debugf(ctx, "Unable to inspect process table: %v", err)
		return
	}

	suspects := map[string]struct{}{
		filepath.Base(r.cfg.PatcherCommand): {},
	}

	if exe, exeErr := os.Executable(); exeErr == nil {
		suspects[filepath.Base(exe)] = struct{}{}
	}

	thisProcessID := os.Getpid()

	for _, process := range processes {
		if process.Pid() == thisProcessID {
			continue
		}

		if _, ok := suspects[process.Executable()]; !ok {
			continue
		}

		logger.WarnKV(ctx, "A related process is already running; concurrent runs share the working directory",
			"pid", process.Pid(), "executable", process.Executable())
	}
}
