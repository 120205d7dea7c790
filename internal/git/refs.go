package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/raphi011/gflow/internal/vcs"
)

// Fetch updates remote-tracking refs and prunes deleted branches.
func (c *Client) Fetch(ctx context.Context) error {
	if err := c.run(ctx, "fetch", c.remote, "--prune", "--quiet"); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", c.remote, err)
	}
	return nil
}

// CreateBranch creates branch name pointing at at without checking it out.
func (c *Client) CreateBranch(ctx context.Context, name, at string) error {
	if err := c.run(ctx, "branch", name, at); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// PushBranch publishes a local branch under the same name.
func (c *Client) PushBranch(ctx context.Context, name string) error {
	refspec := "refs/heads/" + name + ":refs/heads/" + name
	if err := c.run(ctx, "push", "--quiet", c.remote, refspec); err != nil {
		return fmt.Errorf("failed to push %s to %s: %w", name, c.remote, err)
	}
	return nil
}

// DeleteBranch deletes a branch locally, on the remote, or both.
// A remote branch that is already gone counts as deleted.
func (c *Client) DeleteBranch(ctx context.Context, name string, opts vcs.DeleteOptions) error {
	var errs []error
	if opts.Local {
		if err := c.run(ctx, "branch", "-D", name); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete local branch %s: %w", name, err))
		}
	}
	if opts.Remote {
		if err := c.run(ctx, "push", "--quiet", c.remote, "--delete", name); err != nil && !isMissingRef(err) {
			errs = append(errs, fmt.Errorf("failed to delete %s/%s: %w", c.remote, name, err))
		}
	}
	return errors.Join(errs...)
}

// ForcePushWithLease points the remote branch dest at src, but only if the
// remote still has dest at expect. An empty expect requires dest to not exist.
func (c *Client) ForcePushWithLease(ctx context.Context, src, dest, expect string) error {
	lease := "--force-with-lease=refs/heads/" + dest + ":" + expect
	refspec := src + ":refs/heads/" + dest
	if err := c.run(ctx, "push", "--quiet", lease, c.remote, refspec); err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", c.remote, dest, err)
	}
	return nil
}

// Checkout switches the work tree to branch.
func (c *Client) Checkout(ctx context.Context, branch string) error {
	if err := c.run(ctx, "checkout", "--quiet", branch); err != nil {
		return fmt.Errorf("failed to check out %s: %w", branch, err)
	}
	return nil
}

// ResetHard moves the current branch and work tree to to.
func (c *Client) ResetHard(ctx context.Context, to string) error {
	if err := c.run(ctx, "reset", "--hard", "--quiet", to); err != nil {
		return fmt.Errorf("failed to reset to %s: %w", to, err)
	}
	return nil
}

// Merge merges branch into the current branch. A non-zero exit code (for
// example on conflicts) is returned as a result, not an error.
func (c *Client) Merge(ctx context.Context, branch string) (int, error) {
	_, code, err := c.outputCode(ctx, "merge", "--no-edit", branch)
	if err != nil {
		return -1, fmt.Errorf("failed to merge %s: %w", branch, err)
	}
	return code, nil
}

// AbortMerge abandons an in-progress merge.
func (c *Client) AbortMerge(ctx context.Context) error {
	if err := c.run(ctx, "merge", "--abort"); err != nil {
		return fmt.Errorf("failed to abort merge: %w", err)
	}
	return nil
}
