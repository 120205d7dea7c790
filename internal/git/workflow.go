package git

import (
	"context"
	"fmt"
	"strings"
)

// StatusEntry is one line of `git status --porcelain`.
type StatusEntry struct {
	Code string // two-letter XY status, e.g. " M", "??"
	Path string
}

// Status returns the porcelain status of the work tree.
func (c *Client) Status(ctx context.Context) ([]StatusEntry, error) {
	output, err := c.output(ctx, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	var entries []StatusEntry
	for _, line := range strings.Split(string(output), "\n") {
		if len(line) < 4 {
			continue
		}
		entries = append(entries, StatusEntry{Code: line[:2], Path: line[3:]})
	}
	return entries, nil
}

// AddAll stages every change in the work tree, including deletions and untracked files.
func (c *Client) AddAll(ctx context.Context) error {
	if err := c.run(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// Commit records the staged changes.
func (c *Client) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("commit message must not be empty")
	}
	if err := c.run(ctx, "commit", "--quiet", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Push pushes branch to the remote, setting the upstream when setUpstream is true.
func (c *Client) Push(ctx context.Context, branch string, setUpstream bool) error {
	args := []string{"push", "--quiet"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, c.remote, branch)
	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to push %s: %w", branch, err)
	}
	return nil
}

// ListBranches returns local branch names sorted by name.
func (c *Client) ListBranches(ctx context.Context) ([]string, error) {
	output, err := c.output(ctx, "for-each-ref", "--format=%(refname:short)", "--sort=refname", "refs/heads")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	var branches []string
	for _, line := range strings.Split(string(output), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

// BranchExists checks if a local branch exists
func (c *Client) BranchExists(ctx context.Context, branch string) bool {
	return c.run(ctx, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch) == nil
}

// SwitchBranch checks out an existing branch.
func (c *Client) SwitchBranch(ctx context.Context, branch string) error {
	if err := c.run(ctx, "switch", "--quiet", branch); err != nil {
		return fmt.Errorf("failed to switch to %s: %w", branch, err)
	}
	return nil
}

// CreateAndSwitch creates branch from from (HEAD when empty) and checks it out.
func (c *Client) CreateAndSwitch(ctx context.Context, branch, from string) error {
	args := []string{"switch", "--quiet", "-c", branch}
	if from != "" {
		args = append(args, from)
	}
	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	return nil
}
