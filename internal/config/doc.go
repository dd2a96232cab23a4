// Package config loads, validates, and persists the YAML settings shared
// by the asar-pipeline binaries: archive paths, the asar tool invocation,
// the patcher executable, and the per-step timeout. Missing settings fall
// back to the fixed defaults (app.asar, app, app_patched.asar), so the
// tools run without any configuration file at all.
package config
