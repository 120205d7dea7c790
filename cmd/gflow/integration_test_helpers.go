//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/raphi011/gflow/internal/config"
	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/output"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// runGitCommand runs a git command and returns output
func runGitCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to run git %v: %v\n%s", args, err, out)
	}
	return string(out)
}

// setupTestRepo creates a bare origin and a clone with one pushed commit on
// main. Returns the clone's path.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := resolvePath(t, t.TempDir())
	origin := filepath.Join(dir, "origin.git")
	repoPath := filepath.Join(dir, "repo")

	runGitCommand(t, dir, "init", "--bare", "-b", "main", origin)
	runGitCommand(t, dir, "clone", "--quiet", origin, repoPath)
	runGitCommand(t, repoPath, "config", "user.email", "test@test.com")
	runGitCommand(t, repoPath, "config", "user.name", "Test User")
	runGitCommand(t, repoPath, "config", "commit.gpgsign", "false")
	runGitCommand(t, repoPath, "symbolic-ref", "HEAD", "refs/heads/main")

	commitFile(t, repoPath, "README.md", "# repo\n", "Initial commit")
	runGitCommand(t, repoPath, "push", "--quiet", "-u", "origin", "main")

	return repoPath
}

// commitFile writes path and commits it on the current branch.
func commitFile(t *testing.T, repoPath, path, content, message string) {
	t.Helper()

	full := filepath.Join(repoPath, path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	runGitCommand(t, repoPath, "add", path)
	runGitCommand(t, repoPath, "commit", "--quiet", "-m", message)
}

// makeDirty creates an untracked file.
func makeDirty(t *testing.T, repoPath string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repoPath, "dirty.txt"), []byte("uncommitted changes\n"), 0644); err != nil {
		t.Fatalf("failed to create dirty file: %v", err)
	}
}

// currentBranch returns the checked out branch of repoPath.
func currentBranch(t *testing.T, repoPath string) string {
	t.Helper()
	return strings.TrimSpace(runGitCommand(t, repoPath, "branch", "--show-current"))
}

// testContext returns a context rooted at workDir with the given config.
// Primary output is captured in the returned buffer; logs are discarded.
func testContext(t *testing.T, workDir string, cfg *config.Config) (context.Context, *bytes.Buffer) {
	t.Helper()

	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	var out bytes.Buffer
	ctx := context.Background()
	ctx = log.WithLogger(ctx, log.New(&bytes.Buffer{}, false, false))
	ctx = output.WithPrinter(ctx, &out)
	ctx = config.WithResolver(ctx, config.NewResolver(cfg))
	ctx = config.WithWorkDir(ctx, workDir)
	return ctx, &out
}

// execute runs cmd with args in ctx.
func execute(ctx context.Context, cmd *cobra.Command, args ...string) error {
	cmd.SetContext(ctx)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}
