package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the pipeline settings shared by the asar binaries.
type Config struct {
	// Archive is the path to the input asar archive.
	Archive string `yaml:"archive"`
	// UnpackedDir is the working directory the archive is extracted into.
	UnpackedDir string `yaml:"unpacked_dir"`
	// Output is the path of the repacked archive.
	Output string `yaml:"output"`
	// AsarCommand is the argv prefix of the extraction/packing tool.
	AsarCommand []string `yaml:"asar_command"`
	// PatcherCommand is the executable invoked with the unpacked directory.
	PatcherCommand string `yaml:"patcher_command"`
	// Timeout bounds each external command. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for pipeline settings.
	DefaultConfigFilename = "asar-pipeline-settings.yaml"

	// DefaultArchive is the input archive the pipeline consumes.
	DefaultArchive = "app.asar"

	// DefaultUnpackedDir is the directory the archive is extracted into.
	DefaultUnpackedDir = "app"

	// DefaultOutput is the repacked archive the pipeline produces.
	DefaultOutput = "app_patched.asar"

	// DefaultPatcherCommand is the patcher executable shipped with this suite.
	DefaultPatcherCommand = "asar-patcher"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// configPathEnvVar overrides the settings path without a flag.
	configPathEnvVar = "ASAR_PIPELINE_CONFIG"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAsarCommandRequired is returned when the asar tool argv prefix is empty.
	errAsarCommandRequired = errors.New("asar command must not be empty")
	// errNegativeTimeout is returned when the per-step timeout is negative.
	errNegativeTimeout = errors.New("timeout must not be negative")
)

// DefaultAsarCommand returns the argv prefix of the asar tool.
// The Electron ecosystem ships it as an npm package, hence npx.
func DefaultAsarCommand() []string {
	return []string{"npx", "asar"}
}

// Default returns a configuration with every field at its default value.
func Default() *Config {
	return &Config{
		Archive:        DefaultArchive,
		UnpackedDir:    DefaultUnpackedDir,
		Output:         DefaultOutput,
		AsarCommand:    DefaultAsarCommand(),
		PatcherCommand: DefaultPatcherCommand,
	}
}

// PathFromEnv resolves the settings path, preferring the flag value,
// then the ASAR_PIPELINE_CONFIG environment variable, then the default.
func PathFromEnv(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	return env.Str(configPathEnvVar, DefaultConfigFilename)
}

// Load reads configuration from the provided path and validates essential fields.
// A missing file is not an error: the fixed defaults are returned instead,
// so the tool works out of the box in a directory holding app.asar.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults for omitted fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Archive == "" {
		cfg.Archive = DefaultArchive
	}

	if cfg.UnpackedDir == "" {
		cfg.UnpackedDir = DefaultUnpackedDir
	}

	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}

	if len(cfg.AsarCommand) == 0 {
		cfg.AsarCommand = DefaultAsarCommand()
	}

	for _, arg := range cfg.AsarCommand {
		if arg == "" {
			return errAsarCommandRequired
		}
	}

	if cfg.PatcherCommand == "" {
		cfg.PatcherCommand = DefaultPatcherCommand
	}

	if cfg.Timeout < 0 {
		return errNegativeTimeout
	}

	return nil
}
