package git

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/raphi011/gflow/internal/cmd"
	"github.com/raphi011/gflow/internal/vcs"
)

// DefaultRemote is used when no remote is configured.
const DefaultRemote = "origin"

// Client runs git against one working copy. It implements vcs.Gateway.
type Client struct {
	dir    string
	remote string
}

var _ vcs.Gateway = (*Client)(nil)

// New creates a client for the repository containing dir.
// An empty remote defaults to "origin".
func New(dir, remote string) *Client {
	if remote == "" {
		remote = DefaultRemote
	}
	return &Client{dir: dir, remote: remote}
}

// Dir returns the directory git commands run in.
func (c *Client) Dir() string {
	return c.dir
}

// Remote returns the remote this client pushes to.
func (c *Client) Remote() string {
	return c.remote
}

// RepoRoot returns the top-level directory of the work tree.
func (c *Client) RepoRoot(ctx context.Context) (string, error) {
	output, err := c.output(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", vcs.ErrNotARepository, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// CurrentBranch returns the current branch name
// Returns "(detached)" for detached HEAD state
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	output, err := c.output(ctx, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "(detached)", nil
	}
	return branch, nil
}

// IsDirty returns true if the work tree has uncommitted changes or untracked files
func (c *Client) IsDirty(ctx context.Context) (bool, error) {
	output, err := c.output(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}
	return strings.TrimSpace(string(output)) != "", nil
}

// Upstream returns the upstream of branch, e.g. "origin/main".
// Returns empty string if no upstream is configured.
func (c *Client) Upstream(ctx context.Context, branch string) (string, error) {
	output, err := c.output(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", branch+"@{upstream}")
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// No upstream is not an error
		return "", nil
	}
	return strings.TrimSpace(string(output)), nil
}

// AheadBehind counts commits only on a (ahead) and only on b (behind).
// Uses a single `git rev-list --left-right --count a...b`, which prints "left\tright".
func (c *Client) AheadBehind(ctx context.Context, a, b string) (int, int, error) {
	output, err := c.output(ctx, "rev-list", "--left-right", "--count", a+"..."+b)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count commits between %s and %s: %w", a, b, err)
	}
	fields := strings.Fields(string(output))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", strings.TrimSpace(string(output)))
	}
	ahead, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse ahead count: %w", err)
	}
	behind, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse behind count: %w", err)
	}
	return ahead, behind, nil
}

// UnpushedCount counts commits on branch that no remote-tracking ref contains.
func (c *Client) UnpushedCount(ctx context.Context, branch string) (int, error) {
	output, err := c.output(ctx, "rev-list", "--count", branch, "--not", "--remotes")
	if err != nil {
		return 0, fmt.Errorf("failed to count unpushed commits: %w", err)
	}
	return strconv.Atoi(strings.TrimSpace(string(output)))
}

// DiffNames lists paths changed over r. Rename detection is off so a moved
// file shows up as a deletion plus an addition.
func (c *Client) DiffNames(ctx context.Context, r vcs.Range, filter ...vcs.ChangeStatus) ([]string, error) {
	args := []string{"diff", "--name-only", "--no-renames", "-z"}
	if len(filter) > 0 {
		var f strings.Builder
		for _, s := range filter {
			f.WriteByte(byte(s))
		}
		args = append(args, "--diff-filter="+f.String())
	}
	args = append(args, r.String(), "--")

	output, err := c.output(ctx, args...)
	if err != nil {
		return nil, diffError(r, err)
	}
	return splitNul(output), nil
}

// FileDiff returns the unified diff of path over r.
func (c *Client) FileDiff(ctx context.Context, r vcs.Range, path string) (string, error) {
	output, err := c.output(ctx, "diff", "--no-color", "--no-ext-diff", r.String(), "--", path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, diffError(r, err))
	}
	return string(output), nil
}

// diffError maps git's "no merge base" failure of a three-dot diff to
// vcs.ErrNoCommonAncestor.
func diffError(r vcs.Range, err error) error {
	if r.MergeBase && strings.Contains(err.Error(), "no merge base") {
		return fmt.Errorf("%s: %w", r, vcs.ErrNoCommonAncestor)
	}
	return fmt.Errorf("failed to diff %s: %w", r, err)
}

// ShowFile returns the content of path at ref.
// A path missing at ref is reported as (nil, false, nil); an unknown ref is an error.
func (c *Client) ShowFile(ctx context.Context, ref, path string) ([]byte, bool, error) {
	entry, err := c.output(ctx, "ls-tree", ref, "--", path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up %s at %s: %w", path, ref, err)
	}
	if len(bytes.TrimSpace(entry)) == 0 {
		return nil, false, nil
	}
	content, err := c.output(ctx, "cat-file", "blob", ref+":"+path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s at %s: %w", path, ref, err)
	}
	return content, true, nil
}

// MergeBase returns the best common ancestor of a and b.
// git exits 1 without output when the histories are unrelated.
func (c *Client) MergeBase(ctx context.Context, a, b string) (string, error) {
	output, err := c.output(ctx, "merge-base", a, b)
	if err != nil {
		if cmd.ExitCode(err) == 1 {
			return "", fmt.Errorf("%s and %s: %w", a, b, vcs.ErrNoCommonAncestor)
		}
		return "", fmt.Errorf("failed to find merge base of %s and %s: %w", a, b, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// SimulateMerge runs the trivial three-way `git merge-tree <base> <a> <b>`,
// which writes nothing, and scans its output for conflict markers.
func (c *Client) SimulateMerge(ctx context.Context, base, a, b string) (bool, error) {
	output, code, err := c.outputCode(ctx, "merge-tree", base, a, b)
	if err != nil {
		return false, fmt.Errorf("failed to run merge-tree: %w", err)
	}
	if code != 0 {
		return false, fmt.Errorf("merge-tree exited with status %d", code)
	}
	return hasConflictMarkers(output), nil
}

func hasConflictMarkers(output []byte) bool {
	return bytes.Contains(output, []byte("<<<<<<<")) || bytes.Contains(output, []byte(">>>>>>>"))
}

// logSep separates fields in --format output.
const logSep = "\x1f"

// Log lists the commits in r, newest first.
func (c *Client) Log(ctx context.Context, r vcs.Range) ([]vcs.Commit, error) {
	output, err := c.output(ctx, "log", "--format=%H%x1f%s%x1f%an", r.String(), "--")
	if err != nil {
		return nil, fmt.Errorf("failed to list commits in %s: %w", r, err)
	}

	var commits []vcs.Commit
	for _, line := range strings.Split(string(output), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, logSep, 3)
		if len(parts) != 3 {
			continue
		}
		commits = append(commits, vcs.Commit{Hash: parts[0], Subject: parts[1], Author: parts[2]})
	}
	return commits, nil
}

// ResolveRef returns the commit hash ref points at.
func (c *Client) ResolveRef(ctx context.Context, ref string) (string, error) {
	output, err := c.output(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("unknown revision %q", ref)
	}
	return strings.TrimSpace(string(output)), nil
}

// RemoteTip asks the remote (not the local tracking ref) where branch points.
// Returns empty string if the branch does not exist on the remote.
func (c *Client) RemoteTip(ctx context.Context, branch string) (string, error) {
	output, err := c.output(ctx, "ls-remote", "--heads", c.remote, "refs/heads/"+branch)
	if err != nil {
		return "", fmt.Errorf("failed to query %s for %s: %w", c.remote, branch, err)
	}
	fields := strings.Fields(string(output))
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

// TrackingRef names the remote-tracking ref of branch.
func (c *Client) TrackingRef(branch string) string {
	return c.remote + "/" + branch
}

// DefaultBranch returns the default branch name for the remote (e.g., "main" or "master")
func (c *Client) DefaultBranch(ctx context.Context) string {
	// Try to get default branch from remote HEAD
	output, err := c.output(ctx, "symbolic-ref", "refs/remotes/"+c.remote+"/HEAD")
	if err == nil {
		// Output is like "refs/remotes/origin/main"
		ref := strings.TrimSpace(string(output))
		if parts := strings.Split(ref, "/"); len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}

	for _, candidate := range []string{"main", "master"} {
		if c.run(ctx, "rev-parse", "--verify", "--quiet", c.remote+"/"+candidate) == nil {
			return candidate
		}
	}

	// Last resort default
	return "main"
}

// splitNul splits -z output. Paths are kept byte for byte, including
// leading or trailing spaces.
func splitNul(output []byte) []string {
	var paths []string
	for _, p := range strings.Split(string(output), "\x00") {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// isMissingRef reports whether a git error means the ref does not exist.
func isMissingRef(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "unknown revision") ||
		strings.Contains(msg, "does not exist")
}
