package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/gflow/internal/compat"
	"github.com/raphi011/gflow/internal/config"
	"github.com/raphi011/gflow/internal/git"
	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/snapshot"
)

// repo is the repository a command works on, with its effective config.
type repo struct {
	root   string
	cfg    *config.Config
	client *git.Client
}

// openRepo locates the repository around the work directory and resolves
// its config (global merged with .gflow.toml).
func openRepo(ctx context.Context) (*repo, error) {
	workDir := config.WorkDirFromContext(ctx)

	root, err := git.New(workDir, "").RepoRoot(ctx)
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	resolved := &cfg
	if resolver := config.ResolverFromContext(ctx); resolver != nil {
		if resolved, err = resolver.ConfigForRepo(root); err != nil {
			return nil, err
		}
	}

	log.FromContext(ctx).Debug("repo", "root", root, "remote", resolved.Remote, "profile", resolved.Profile)
	return &repo{
		root:   root,
		cfg:    resolved,
		client: git.New(root, resolved.Remote),
	}, nil
}

// capture takes a fresh snapshot.
func (r *repo) capture(ctx context.Context) (snapshot.Snapshot, error) {
	return snapshot.Capture(ctx, r.client)
}

// rules loads the analysis rules for this repository.
func (r *repo) rules() (*compat.RuleSet, error) {
	return compat.LoadRules(r.cfg.RulesPath(r.root))
}

// currentBranch returns the checked out branch, refusing a detached HEAD.
func (r *repo) currentBranch(ctx context.Context) (string, error) {
	branch, err := r.client.CurrentBranch(ctx)
	if err != nil {
		return "", err
	}
	if branch == snapshot.Detached {
		return "", errors.New("HEAD is detached: check out a branch first")
	}
	return branch, nil
}

// requireClean refuses to continue with uncommitted changes.
func (r *repo) requireClean(ctx context.Context, action string) error {
	dirty, err := r.client.IsDirty(ctx)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("cannot %s: working tree has uncommitted changes (commit or stash them first)", action)
	}
	return nil
}

// isInteractive reports whether prompts can be shown. Tests replace it.
var isInteractive = func() bool {
	return (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
}
