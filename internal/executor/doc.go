// Package executor wraps os/exec behind a small Runner interface.
//
// External commands run synchronously with output forwarded to the parent
// process, optionally bounded by a timeout. ExitCode translates Run errors
// back into process exit codes for callers that care about them.
package executor
