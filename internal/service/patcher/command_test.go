package patcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile creates a file with parent directories as needed.
func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

// TestRunPatchesTarget applies a manifest against a fake unpacked tree.
func TestRunPatchesTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "app")
	writeFile(t, filepath.Join(target, "controller", "deviceInfo.js"),
		`if(arg.pid==="GET_DEVICE_INFO"){event.returnValue=deviceInfo}`)

	manifestPath := filepath.Join(dir, "patches.yaml")
	writeFile(t, manifestPath, `
patches:
  controller/deviceInfo.js:
    - kind: replace-one
      token: "event.returnValue=deviceInfo"
      replacement: "event.returnValue=fakeDeviceInfo"
`)

	err := Run(context.Background(), &Options{
		ManifestPath: manifestPath,
		TargetDir:    target,
	})
	require.NoError(t, err)

	patched, err := os.ReadFile(filepath.Join(target, "controller", "deviceInfo.js"))
	require.NoError(t, err)
	require.Contains(t, string(patched), "fakeDeviceInfo")
}

// TestRunMissingTargetDir rejects a nonexistent unpacked directory.
func TestRunMissingTargetDir(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{
		ManifestPath: "irrelevant.yaml",
		TargetDir:    filepath.Join(t.TempDir(), "nope"),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

// TestRunTargetIsFile rejects a target path that is a regular file.
func TestRunTargetIsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "app")
	writeFile(t, target, "not a directory")

	err := Run(context.Background(), &Options{
		ManifestPath: "irrelevant.yaml",
		TargetDir:    target,
	})
	require.Error(t, err)
}

// TestRunFailedPatchReportsToken surfaces the token that could not be located.
func TestRunFailedPatchReportsToken(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "app")
	writeFile(t, filepath.Join(target, "lib.js"), "function other() {}")

	manifestPath := filepath.Join(dir, "patches.yaml")
	writeFile(t, manifestPath, `
patches:
  lib.js:
    - kind: function-body
      token: "postRunningProcessData"
      replacement: "{}"
`)

	err := Run(context.Background(), &Options{
		ManifestPath: manifestPath,
		TargetDir:    target,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "postRunningProcessData")
}
