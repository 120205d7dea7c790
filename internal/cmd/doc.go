// Package cmd provides helpers for executing shell commands with proper error handling.
//
// This package wraps [os/exec.Cmd] to capture stderr and include it in error
// messages, making command failures more informative for users.
//
// # Usage
//
//	out, err := cmd.OutputContext(ctx, repoDir, "git", "rev-parse", "HEAD")
//	if err != nil {
//	    // err.Error() is git's stderr when it wrote any
//	}
//
//	// For commands whose exit status is part of the result:
//	out, code, err := cmd.OutputWithExitCode(ctx, repoDir, "git", "merge", "feature")
//
// Every command is echoed by the context logger in verbose mode.
//
// # Design Notes
//
// gflow shells out to the git CLI rather than using a Go git library so the
// user's own configuration (SSH keys, credential helpers, hooks) applies to
// every push it performs.
package cmd
