package patch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/asar-pipeline/internal/logger"
)

// DefaultManifestFilename is the default filename for the patch manifest.
const DefaultManifestFilename = "asar-pipeline-patches.yaml"

var (
	// errEmptyManifest is returned when the manifest declares no patches at all.
	errEmptyManifest = errors.New("manifest contains no patches")
	// errUnsafePath is returned for file entries escaping the target directory.
	errUnsafePath = errors.New("file path escapes the target directory")
)

// Manifest maps file paths, relative to the unpacked directory,
// to the ordered patch descriptors applied to each of them.
type Manifest struct {
	Patches map[string][]Descriptor `yaml:"patches"`
}

// LoadManifest reads and validates a patch manifest from the provided path.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		path = DefaultManifestFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(contents, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	if len(m.Patches) == 0 {
		return nil, errEmptyManifest
	}

	for name := range m.Patches {
		if !filepath.IsLocal(name) {
			return nil, fmt.Errorf("%w: %s", errUnsafePath, name)
		}
	}

	return &m, nil
}

// ApplyToDir patches every file the manifest names inside dir.
// A file is rewritten only when all of its descriptors applied; the first
// failure aborts the run with that file left untouched on disk.
func (m *Manifest) ApplyToDir(ctx context.Context, dir string) error {
	// Deterministic order makes failures reproducible.
	names := make([]string, 0, len(m.Patches))
	for name := range m.Patches {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if err := m.applyToFile(ctx, dir, name); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

// applyToFile patches a single manifest entry in place.
func (m *Manifest) applyToFile(ctx context.Context, dir, name string) error {
	path := filepath.Join(dir, name)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	patched, err := Apply(string(contents), m.Patches[name])
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(patched), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	logger.InfoKV(ctx, "Patched file", "path", path)

	return nil
}
