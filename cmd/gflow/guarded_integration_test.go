//go:build integration

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/gflow/internal/config"
	"github.com/raphi011/gflow/internal/vcs"
)

// setupFeatureBranch creates branch name off main with one commit touching path.
// Leaves main checked out.
func setupFeatureBranch(t *testing.T, repoPath, name, path, content string) {
	t.Helper()
	runGitCommand(t, repoPath, "checkout", "--quiet", "-b", name)
	commitFile(t, repoPath, path, content, "Change "+path)
	runGitCommand(t, repoPath, "checkout", "--quiet", "main")
}

// TestAnalyze_ConfigChange tests that a configuration edit is reported.
//
// Scenario: feature/settings adds config/settings.json, user runs `gflow analyze feature/settings`
// Expected: The report names the config-change signal and ends with a caution verdict
func TestAnalyze_ConfigChange(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	setupFeatureBranch(t, repoPath, "feature/settings", "config/settings.json", `{"debug": true}`+"\n")
	ctx, out := testContext(t, repoPath, nil)

	if err := execute(ctx, newAnalyzeCmd(), "feature/settings"); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Merging feature/settings into main", "config-change", "config/settings.json", "merges cleanly", "Verdict: caution"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

// TestAnalyze_DisabledByProfile tests that the basic profile turns analysis off.
func TestAnalyze_DisabledByProfile(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	setupFeatureBranch(t, repoPath, "feature/docs", "docs/guide.md", "# guide\n")
	cfg := config.Default()
	cfg.Profile = config.ProfileBasic
	ctx, _ := testContext(t, repoPath, &cfg)

	err := execute(ctx, newAnalyzeCmd(), "feature/docs")
	if err == nil || !strings.Contains(err.Error(), `disabled by the "basic" profile`) {
		t.Fatalf("expected profile error, got %v", err)
	}
}

// TestMerge_Clean tests that a clean report merges without confirmation.
func TestMerge_Clean(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	setupFeatureBranch(t, repoPath, "feature/docs", "docs/guide.md", "# guide\n")
	ctx, out := testContext(t, repoPath, nil)

	if err := execute(ctx, newMergeCmd(), "feature/docs"); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if !strings.Contains(out.String(), "Verdict: clean") {
		t.Errorf("expected clean verdict:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(repoPath, "docs", "guide.md")); err != nil {
		t.Errorf("docs/guide.md should be merged into main: %v", err)
	}
}

// TestMerge_CautionNeedsYes tests that a risky report stops a non-interactive merge.
//
// Scenario: feature/settings changes configuration, user runs `gflow merge feature/settings`
// Expected: Aborted without --yes with main untouched; merged with --yes
func TestMerge_CautionNeedsYes(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	setupFeatureBranch(t, repoPath, "feature/settings", "config/settings.json", `{"debug": true}`+"\n")
	ctx, _ := testContext(t, repoPath, nil)
	before := runGitCommand(t, repoPath, "rev-parse", "main")

	err := execute(ctx, newMergeCmd(), "feature/settings")
	if !errors.Is(err, errMergeAborted) {
		t.Fatalf("expected errMergeAborted, got %v", err)
	}
	if after := runGitCommand(t, repoPath, "rev-parse", "main"); after != before {
		t.Fatal("main moved although the merge was aborted")
	}

	if err := execute(ctx, newMergeCmd(), "feature/settings", "--yes"); err != nil {
		t.Fatalf("merge --yes failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(repoPath, "config", "settings.json")); err != nil {
		t.Errorf("config/settings.json should be merged into main: %v", err)
	}
}

// TestMerge_PredictedConflict tests that a conflicting merge is reported before it runs.
func TestMerge_PredictedConflict(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	setupFeatureBranch(t, repoPath, "feature/readme", "README.md", "# feature title\n")
	commitFile(t, repoPath, "README.md", "# main title\n", "Retitle on main")
	ctx, out := testContext(t, repoPath, nil)

	err := execute(ctx, newMergeCmd(), "feature/readme")
	if !errors.Is(err, errMergeAborted) {
		t.Fatalf("expected errMergeAborted, got %v", err)
	}
	got := out.String()
	for _, want := range []string{"merge will conflict", "README.md", "Verdict: conflicts"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
	if strings.TrimSpace(runGitCommand(t, repoPath, "status", "--porcelain")) != "" {
		t.Error("the simulation must not touch the working tree")
	}
}

// TestMerge_UnrelatedHistories tests that branches without a common ancestor are refused.
func TestMerge_UnrelatedHistories(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	runGitCommand(t, repoPath, "checkout", "--quiet", "--orphan", "island")
	runGitCommand(t, repoPath, "rm", "-rf", "--quiet", ".")
	commitFile(t, repoPath, "island.txt", "alone\n", "Island root")
	runGitCommand(t, repoPath, "checkout", "--quiet", "main")

	// Refused with every profile, including the one that runs no analysis.
	for _, profile := range []string{config.ProfileUltimate, config.ProfileBasic} {
		cfg := config.Default()
		cfg.Profile = profile
		ctx, _ := testContext(t, repoPath, &cfg)

		err := execute(ctx, newMergeCmd(), "island", "--yes")
		if !errors.Is(err, vcs.ErrNoCommonAncestor) {
			t.Fatalf("%s: expected ErrNoCommonAncestor, got %v", profile, err)
		}
		if _, err := os.Stat(filepath.Join(repoPath, "island.txt")); !os.IsNotExist(err) {
			t.Fatalf("%s: island.txt must not be merged", profile)
		}
	}
}

// TestMerge_DirtyTree tests that merging refuses uncommitted changes.
func TestMerge_DirtyTree(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	setupFeatureBranch(t, repoPath, "feature/docs", "docs/guide.md", "# guide\n")
	makeDirty(t, repoPath)
	ctx, _ := testContext(t, repoPath, nil)

	err := execute(ctx, newMergeCmd(), "feature/docs")
	if err == nil || !strings.Contains(err.Error(), "uncommitted changes") {
		t.Fatalf("expected dirty tree refusal, got %v", err)
	}
}

// TestReplace_NonInteractive tests that replace never runs without a terminal.
func TestReplace_NonInteractive(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	setupFeatureBranch(t, repoPath, "feature/docs", "docs/guide.md", "# guide\n")
	ctx, _ := testContext(t, repoPath, nil)
	before := runGitCommand(t, repoPath, "ls-remote", "origin", "refs/heads/main")

	err := execute(ctx, newReplaceCmd(), "feature/docs")
	if err == nil || !strings.Contains(err.Error(), "interactive terminal") {
		t.Fatalf("expected interactive terminal error, got %v", err)
	}
	if after := runGitCommand(t, repoPath, "ls-remote", "origin", "refs/heads/main"); after != before {
		t.Error("remote main changed")
	}
}

// TestConfigShow_Effective tests that config show prints the resolved capabilities.
func TestConfigShow_Effective(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	cfg := config.Default()
	cfg.Profile = config.ProfileWorking
	ctx, out := testContext(t, repoPath, &cfg)

	if err := execute(ctx, newConfigCmd(), "show"); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{`profile = "working"`, "compatibility = true", "replace = false"} {
		if !strings.Contains(got, want) {
			t.Errorf("config show missing %q:\n%s", want, got)
		}
	}
}
