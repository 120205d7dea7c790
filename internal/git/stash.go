package git

import (
	"context"
	"fmt"
	"strings"
)

// StashEntry is one line of `git stash list`.
type StashEntry struct {
	Ref     string // stash@{0}
	Message string
}

// Stash creates a stash entry with the given message.
// Includes untracked files (-u) to capture all uncommitted changes.
// Returns the number of changed paths that were stashed (0 on a clean tree,
// in which case no entry is created).
func (c *Client) Stash(ctx context.Context, message string) (int, error) {
	entries, err := c.Status(ctx)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if message == "" {
		message = "gflow autostash"
	}
	if err := c.run(ctx, "stash", "push", "-u", "-m", message); err != nil {
		return 0, fmt.Errorf("failed to stash changes: %w", err)
	}
	return len(entries), nil
}

// StashPop applies and removes the most recent stash entry.
func (c *Client) StashPop(ctx context.Context) error {
	if err := c.run(ctx, "stash", "pop"); err != nil {
		return fmt.Errorf("failed to pop stash: %w", err)
	}
	return nil
}

// StashList returns stash entries, newest first.
func (c *Client) StashList(ctx context.Context) ([]StashEntry, error) {
	output, err := c.output(ctx, "stash", "list", "--format=%gd%x1f%gs")
	if err != nil {
		return nil, fmt.Errorf("failed to list stashes: %w", err)
	}

	var entries []StashEntry
	for _, line := range strings.Split(string(output), "\n") {
		ref, msg, ok := strings.Cut(line, logSep)
		if !ok {
			continue
		}
		entries = append(entries, StashEntry{Ref: ref, Message: msg})
	}
	return entries, nil
}
