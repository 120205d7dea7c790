package git

import (
	"context"

	"github.com/raphi011/gflow/internal/cmd"
)

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

// runGit executes git in dir. Failures carry git's stderr.
func runGit(ctx context.Context, dir string, args ...string) error {
	return cmd.RunContext(ctx, "", "git", gitArgs(dir, args)...)
}

// outputGit executes git in dir and returns stdout.
func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	return cmd.OutputContext(ctx, "", "git", gitArgs(dir, args)...)
}

// run executes git in the client's work tree.
func (c *Client) run(ctx context.Context, args ...string) error {
	return runGit(ctx, c.dir, args...)
}

// output executes git in the client's work tree and returns stdout.
func (c *Client) output(ctx context.Context, args ...string) ([]byte, error) {
	return outputGit(ctx, c.dir, args...)
}

// outputCode is output for commands whose exit status is part of the
// result (merge, merge-tree). Only a failure to start git is an error.
func (c *Client) outputCode(ctx context.Context, args ...string) ([]byte, int, error) {
	return cmd.OutputWithExitCode(ctx, "", "git", gitArgs(c.dir, args)...)
}
