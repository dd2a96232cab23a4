// Package patch implements token-replacement patching of unpacked
// application sources.
//
// A Descriptor either replaces the first occurrence of a literal token or
// swaps out the whole brace-balanced body of a named JavaScript function.
// Descriptors are grouped per file in a YAML Manifest and applied
// all-or-nothing: a file is only written back when every descriptor for it
// applied cleanly.
package patch
