package patcher

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oshokin/asar-pipeline/internal/logger"
	"github.com/oshokin/asar-pipeline/internal/patch"
)

// Options contains inputs for the patcher entry point.
type Options struct {
	// ManifestPath is an optional path to the patch manifest YAML file.
	ManifestPath string
	// TargetDir is the unpacked application directory to patch in place.
	TargetDir string
}

var (
	// errTargetDirMissing is returned when the unpacked directory does not exist.
	errTargetDirMissing = errors.New("unpacked directory not found")
	// errTargetNotDir is returned when the target path is not a directory.
	errTargetNotDir = errors.New("target path is not a directory")
)

// Run applies the manifest's patches to the files under opts.TargetDir.
// Patching is all-or-nothing per file; the first descriptor that fails to
// locate its token aborts the run with a non-zero outcome.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "asar-patcher")

	info, err := os.Stat(opts.TargetDir)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", errTargetDirMissing, opts.TargetDir)
	} else if err != nil {
		return fmt.Errorf("stat target directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", errTargetNotDir, opts.TargetDir)
	}

	manifest, err := patch.LoadManifest(opts.ManifestPath)
	if err != nil {
		return fmt.Errorf("load patch manifest: %w", err)
	}

	logger.InfoKV(ctx, "Applying patches", "target_dir", opts.TargetDir, "files", len(manifest.Patches))

	if err = manifest.ApplyToDir(ctx, opts.TargetDir); err != nil {
		return fmt.Errorf("apply patches: %w", err)
	}

	logger.Info(ctx, "All patches applied")

	return nil
}
