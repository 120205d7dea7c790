// Package vcs defines the version-control gateway the analysis and replace
// engine consumes.
//
// The engine never touches repository storage. Everything it knows about
// branches, trees and remotes comes through [Reader], and every ref it
// changes goes through [Mutator]. The git package provides the CLI-backed
// implementation; vcstest provides a scripted one for tests.
package vcs

import (
	"context"
	"errors"
)

var (
	// ErrNotARepository is returned when the working directory is not
	// inside a git work tree.
	ErrNotARepository = errors.New("not a git repository")

	// ErrNoCommonAncestor is returned when two refs share no history.
	ErrNoCommonAncestor = errors.New("branches have no common ancestor")
)

// ChangeStatus is the single-letter status git reports for a changed path.
type ChangeStatus byte

const (
	Added    ChangeStatus = 'A'
	Deleted  ChangeStatus = 'D'
	Modified ChangeStatus = 'M'
	Renamed  ChangeStatus = 'R'
	Copied   ChangeStatus = 'C'
	TypeChg  ChangeStatus = 'T'
)

// Range selects the commits or tree changes between two refs.
//
// With MergeBase set it is the three-dot form From...To: changes made on To
// since it forked from From. Otherwise it is From..To.
type Range struct {
	From      string
	To        string
	MergeBase bool
}

func (r Range) String() string {
	if r.MergeBase {
		return r.From + "..." + r.To
	}
	return r.From + ".." + r.To
}

// Commit is a one-line view of a commit.
type Commit struct {
	Hash    string
	Subject string
	Author  string
}

// DeleteOptions selects where a branch is deleted.
type DeleteOptions struct {
	Local  bool
	Remote bool
}

// Reader is the read-only half of the gateway.
type Reader interface {
	// RepoRoot returns the work tree root or ErrNotARepository.
	RepoRoot(ctx context.Context) (string, error)
	// CurrentBranch returns the checked out branch, "(detached)" when HEAD is detached.
	CurrentBranch(ctx context.Context) (string, error)
	IsDirty(ctx context.Context) (bool, error)
	// Upstream returns the upstream of branch (e.g. "origin/main") or "" if none.
	Upstream(ctx context.Context, branch string) (string, error)
	// AheadBehind counts commits reachable from a but not b (ahead) and from b but not a (behind).
	AheadBehind(ctx context.Context, a, b string) (ahead, behind int, err error)
	// UnpushedCount counts commits on branch not present on any remote-tracking ref.
	UnpushedCount(ctx context.Context, branch string) (int, error)
	// DiffNames lists paths changed over r, optionally filtered by status.
	DiffNames(ctx context.Context, r Range, filter ...ChangeStatus) ([]string, error)
	// FileDiff returns the unified diff of one path over r.
	FileDiff(ctx context.Context, r Range, path string) (string, error)
	// ShowFile returns the content of path at ref and whether it exists there.
	ShowFile(ctx context.Context, ref, path string) ([]byte, bool, error)
	// MergeBase returns the best common ancestor or ErrNoCommonAncestor.
	MergeBase(ctx context.Context, a, b string) (string, error)
	// SimulateMerge merges a and b against base without touching refs or
	// the work tree and reports whether conflict markers were produced.
	SimulateMerge(ctx context.Context, base, a, b string) (bool, error)
	// Log lists the commits in r, newest first.
	Log(ctx context.Context, r Range) ([]Commit, error)
	ResolveRef(ctx context.Context, ref string) (string, error)
	// RemoteTip returns the hash of branch on the remote, "" if it does not exist there.
	RemoteTip(ctx context.Context, branch string) (string, error)
	// TrackingRef names the remote-tracking ref of branch (e.g. "origin/main").
	TrackingRef(branch string) string
}

// Mutator is the ref-changing half of the gateway.
type Mutator interface {
	Fetch(ctx context.Context) error
	CreateBranch(ctx context.Context, name, at string) error
	// PushBranch publishes a local branch to the remote under the same name.
	PushBranch(ctx context.Context, name string) error
	DeleteBranch(ctx context.Context, name string, opts DeleteOptions) error
	// ForcePushWithLease points the remote branch dest at src, but only if
	// the remote branch is still at expect ("" means it must not exist).
	ForcePushWithLease(ctx context.Context, src, dest, expect string) error
	Checkout(ctx context.Context, branch string) error
	ResetHard(ctx context.Context, to string) error
	// Merge merges branch into the current branch and returns git's exit code.
	Merge(ctx context.Context, branch string) (int, error)
}

// Gateway is the full gateway.
type Gateway interface {
	Reader
	Mutator
}
