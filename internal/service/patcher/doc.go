// Package patcher is the entry point behind the asar-patcher binary.
//
// It validates the target directory, loads the YAML patch manifest, and
// applies the token replacements to the unpacked application sources.
package patcher
