package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xyproto/env/v2"
)

// TestValidate checks default filling and rejection of malformed settings.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty settings are valid and pick up every default.
	cfg := new(Config)

	err := Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultArchive, cfg.Archive)
	require.Equal(t, DefaultUnpackedDir, cfg.UnpackedDir)
	require.Equal(t, DefaultOutput, cfg.Output)
	require.Equal(t, DefaultAsarCommand(), cfg.AsarCommand)
	require.Equal(t, DefaultPatcherCommand, cfg.PatcherCommand)

	// An empty argv element in the asar command is rejected.
	cfg = &Config{
		AsarCommand: []string{"npx", ""},
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Negative timeouts are rejected.
	cfg = &Config{
		Timeout: -time.Second,
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Nil settings are rejected.
	err = Validate(nil)
	require.Error(t, err)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		Archive:        "game.asar",
		UnpackedDir:    "unpacked",
		Output:         "game_patched.asar",
		AsarCommand:    []string{"asar"},
		PatcherCommand: "./patcher",
		Timeout:        30 * time.Second,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Archive, loaded.Archive)
	require.Equal(t, cfg.UnpackedDir, loaded.UnpackedDir)
	require.Equal(t, cfg.Output, loaded.Output)
	require.Equal(t, cfg.AsarCommand, loaded.AsarCommand)
	require.Equal(t, cfg.PatcherCommand, loaded.PatcherCommand)
	require.Equal(t, cfg.Timeout, loaded.Timeout)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadMissingFile verifies that a missing settings file yields the defaults.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "nonexistent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestPathFromEnv checks flag and environment precedence for the settings path.
func TestPathFromEnv(t *testing.T) {
	require.Equal(t, "flag.yaml", PathFromEnv("flag.yaml"))

	t.Setenv(configPathEnvVar, "env.yaml")
	env.Load() // the env package caches; reload after os.Setenv per its docs
	require.Equal(t, "env.yaml", PathFromEnv(""))

	t.Setenv(configPathEnvVar, "")
	env.Load()
	require.Equal(t, DefaultConfigFilename, PathFromEnv(""))
}
