// Package snapshot captures the state of the working copy in one read-only pass.
package snapshot

import (
	"context"
	"fmt"

	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/vcs"
)

// Detached is the branch name reported for a detached HEAD.
const Detached = "(detached)"

// Snapshot is the state of the working copy at capture time.
type Snapshot struct {
	Root   string
	Branch string
	Dirty  bool

	// Upstream is empty when the branch tracks nothing. Ahead and Behind are
	// then zero and unpushed work is measured against all remote-tracking refs.
	Upstream string
	Ahead    int
	Behind   int

	Unpushed      bool
	UnpushedCount int
}

// Detached reports whether HEAD is detached.
func (s Snapshot) Detached() bool {
	return s.Branch == Detached
}

// Capture reads the current repository state through r.
// Returns vcs.ErrNotARepository when not inside a work tree.
func Capture(ctx context.Context, r vcs.Reader) (Snapshot, error) {
	root, err := r.RepoRoot(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	s := Snapshot{Root: root}

	if s.Branch, err = r.CurrentBranch(ctx); err != nil {
		return Snapshot{}, err
	}
	if s.Dirty, err = r.IsDirty(ctx); err != nil {
		return Snapshot{}, err
	}

	if s.Detached() {
		return s, nil
	}

	if s.Upstream, err = r.Upstream(ctx, s.Branch); err != nil {
		return Snapshot{}, err
	}

	if s.Upstream != "" {
		if s.Ahead, s.Behind, err = r.AheadBehind(ctx, s.Branch, s.Upstream); err != nil {
			return Snapshot{}, fmt.Errorf("compare %s with %s: %w", s.Branch, s.Upstream, err)
		}
		s.UnpushedCount = s.Ahead
	} else {
		if s.UnpushedCount, err = r.UnpushedCount(ctx, s.Branch); err != nil {
			return Snapshot{}, err
		}
	}
	s.Unpushed = s.UnpushedCount > 0

	log.FromContext(ctx).Debug("snapshot",
		"branch", s.Branch, "dirty", s.Dirty, "upstream", s.Upstream,
		"ahead", s.Ahead, "behind", s.Behind, "unpushed", s.UnpushedCount)
	return s, nil
}
