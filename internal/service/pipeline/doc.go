// Package pipeline runs the fixed three-step patching sequence:
// unpack the application archive, run the patcher executable against the
// unpacked tree, and repack the result.
//
// Only the patch step gates continuation. Extraction and repacking exit
// codes are logged but ignored by default, matching the behavior of the
// original automation this tool replaces; strict mode checks all three.
package pipeline
