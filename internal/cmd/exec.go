package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/gflow/internal/log"
)

// ExitError is returned when a command ran but exited non-zero.
// Its message is the command's stderr when there was any.
type ExitError struct {
	Code   int
	Stderr string
	err    error
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.err
}

// ExitCode extracts the exit code from err, or -1 if err is not an exit error.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// Run executes a command and returns stderr in the error message if it fails
func Run(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return wrapErr(err, stderr.String())
	}
	return nil
}

// Output executes a command and returns stdout, with stderr in error if it fails
func Output(cmd *exec.Cmd) ([]byte, error) {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, wrapErr(err, stderr.String())
	}
	return output, nil
}

// RunContext runs name with args in dir, logging the command in verbose mode.
// A cancelled context is reported as the context's error.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, err := OutputContext(ctx, dir, name, args...)
	return err
}

// OutputContext is like RunContext but returns stdout.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	out, err := Output(c)
	done(time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return out, nil
}

// OutputWithExitCode runs a command whose non-zero exit status is a result
// rather than a failure (e.g. git merge). It returns stdout and the exit code.
// An error is returned only when the command could not be run at all.
func OutputWithExitCode(ctx context.Context, dir, name string, args ...string) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, -1, err
	}

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	c.Stdout = &stdout
	c.Stderr = &stderr
	err := c.Run()
	done(time.Since(start))

	if err == nil {
		return stdout.Bytes(), 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), exitErr.ExitCode(), nil
	}
	return nil, -1, fmt.Errorf("run %s: %w", name, err)
}

func wrapErr(err error, stderr string) error {
	msg := strings.TrimSpace(stderr)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Stderr: msg, err: err}
	}
	if msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return err
}
