// Package vcstest provides a scripted, in-memory vcs.Gateway for tests.
//
// Reads are answered from the maps on [Gateway]; mutating calls are recorded
// in order and can be made to fail with [Gateway.Fail].
package vcstest

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/raphi011/gflow/internal/vcs"
)

// Change is one changed path in a scripted diff.
type Change struct {
	Status vcs.ChangeStatus
	Path   string
}

// Call is a recorded mutating call.
type Call struct {
	Method string
	Args   []string
}

func (c Call) String() string {
	return c.Method + "(" + strings.Join(c.Args, ", ") + ")"
}

// Gateway is a scripted vcs.Gateway. The zero value is a clean repository
// on "main" with no remote, no diffs and unrelated histories everywhere.
type Gateway struct {
	Root          string
	Branch        string
	Dirty         bool
	Remote        string
	Upstreams     map[string]string            // branch -> upstream
	Counts        map[[2]string][2]int         // {a, b} -> {ahead, behind}
	Unpushed      map[string]int               // branch -> commits not on any remote
	Diffs         map[vcs.Range][]Change       // range -> changes
	FileDiffs     map[string]string            // range.String() + ":" + path -> diff
	Files         map[string]map[string]string // ref -> path -> content
	Bases         map[[2]string]string         // {a, b} -> merge base (either order)
	Conflicting   map[[2]string]bool           // {a, b} -> simulated merge has markers
	Logs          map[vcs.Range][]vcs.Commit
	Refs          map[string]string            // ref -> hash
	RemoteTips    map[string]string            // branch -> hash on remote
	MergeExitCode int

	Calls []Call // mutating calls in order
	Reads []Call // read calls in order

	failures map[string]error
}

var _ vcs.Gateway = (*Gateway)(nil)

// New returns a gateway rooted at /repo on branch main with remote origin.
func New() *Gateway {
	return &Gateway{Root: "/repo", Branch: "main", Remote: "origin"}
}

// Fail makes every later call of method return err.
func (g *Gateway) Fail(method string, err error) {
	if g.failures == nil {
		g.failures = make(map[string]error)
	}
	g.failures[method] = err
}

// AddChange scripts a changed path for r.
func (g *Gateway) AddChange(r vcs.Range, status vcs.ChangeStatus, path string) {
	if g.Diffs == nil {
		g.Diffs = make(map[vcs.Range][]Change)
	}
	g.Diffs[r] = append(g.Diffs[r], Change{Status: status, Path: path})
}

// SetFile scripts the content of path at ref.
func (g *Gateway) SetFile(ref, path, content string) {
	if g.Files == nil {
		g.Files = make(map[string]map[string]string)
	}
	if g.Files[ref] == nil {
		g.Files[ref] = make(map[string]string)
	}
	g.Files[ref][path] = content
}

// SetFileDiff scripts the unified diff of path over r.
func (g *Gateway) SetFileDiff(r vcs.Range, path, diff string) {
	if g.FileDiffs == nil {
		g.FileDiffs = make(map[string]string)
	}
	g.FileDiffs[r.String()+":"+path] = diff
}

// SetBase scripts the merge base of a and b.
func (g *Gateway) SetBase(a, b, base string) {
	if g.Bases == nil {
		g.Bases = make(map[[2]string]string)
	}
	g.Bases[[2]string{a, b}] = base
}

// SetCounts scripts AheadBehind(a, b).
func (g *Gateway) SetCounts(a, b string, ahead, behind int) {
	if g.Counts == nil {
		g.Counts = make(map[[2]string][2]int)
	}
	g.Counts[[2]string{a, b}] = [2]int{ahead, behind}
}

// Mutated reports whether any mutating method was called.
func (g *Gateway) Mutated() bool {
	return len(g.Calls) > 0
}

// Called reports whether method was called (read or mutating).
func (g *Gateway) Called(method string) bool {
	for _, c := range slices.Concat(g.Calls, g.Reads) {
		if c.Method == method {
			return true
		}
	}
	return false
}

func (g *Gateway) read(method string, args ...string) error {
	g.Reads = append(g.Reads, Call{Method: method, Args: args})
	return g.failures[method]
}

func (g *Gateway) mutate(method string, args ...string) error {
	g.Calls = append(g.Calls, Call{Method: method, Args: args})
	return g.failures[method]
}

func (g *Gateway) RepoRoot(ctx context.Context) (string, error) {
	if err := g.read("RepoRoot"); err != nil {
		return "", err
	}
	if g.Root == "" {
		return "", vcs.ErrNotARepository
	}
	return g.Root, nil
}

func (g *Gateway) CurrentBranch(ctx context.Context) (string, error) {
	if err := g.read("CurrentBranch"); err != nil {
		return "", err
	}
	if g.Branch == "" {
		return "(detached)", nil
	}
	return g.Branch, nil
}

func (g *Gateway) IsDirty(ctx context.Context) (bool, error) {
	if err := g.read("IsDirty"); err != nil {
		return false, err
	}
	return g.Dirty, nil
}

func (g *Gateway) Upstream(ctx context.Context, branch string) (string, error) {
	if err := g.read("Upstream", branch); err != nil {
		return "", err
	}
	return g.Upstreams[branch], nil
}

func (g *Gateway) AheadBehind(ctx context.Context, a, b string) (int, int, error) {
	if err := g.read("AheadBehind", a, b); err != nil {
		return 0, 0, err
	}
	c := g.Counts[[2]string{a, b}]
	return c[0], c[1], nil
}

func (g *Gateway) UnpushedCount(ctx context.Context, branch string) (int, error) {
	if err := g.read("UnpushedCount", branch); err != nil {
		return 0, err
	}
	return g.Unpushed[branch], nil
}

func (g *Gateway) DiffNames(ctx context.Context, r vcs.Range, filter ...vcs.ChangeStatus) ([]string, error) {
	if err := g.read("DiffNames", r.String()); err != nil {
		return nil, err
	}
	var paths []string
	for _, c := range g.Diffs[r] {
		if len(filter) > 0 && !slices.Contains(filter, c.Status) {
			continue
		}
		paths = append(paths, c.Path)
	}
	return paths, nil
}

func (g *Gateway) FileDiff(ctx context.Context, r vcs.Range, path string) (string, error) {
	if err := g.read("FileDiff", r.String(), path); err != nil {
		return "", err
	}
	return g.FileDiffs[r.String()+":"+path], nil
}

func (g *Gateway) ShowFile(ctx context.Context, ref, path string) ([]byte, bool, error) {
	if err := g.read("ShowFile", ref, path); err != nil {
		return nil, false, err
	}
	content, ok := g.Files[ref][path]
	if !ok {
		return nil, false, nil
	}
	return []byte(content), true, nil
}

func (g *Gateway) MergeBase(ctx context.Context, a, b string) (string, error) {
	if err := g.read("MergeBase", a, b); err != nil {
		return "", err
	}
	if base, ok := g.Bases[[2]string{a, b}]; ok {
		return base, nil
	}
	if base, ok := g.Bases[[2]string{b, a}]; ok {
		return base, nil
	}
	return "", vcs.ErrNoCommonAncestor
}

func (g *Gateway) SimulateMerge(ctx context.Context, base, a, b string) (bool, error) {
	if err := g.read("SimulateMerge", base, a, b); err != nil {
		return false, err
	}
	return g.Conflicting[[2]string{a, b}] || g.Conflicting[[2]string{b, a}], nil
}

func (g *Gateway) Log(ctx context.Context, r vcs.Range) ([]vcs.Commit, error) {
	if err := g.read("Log", r.String()); err != nil {
		return nil, err
	}
	return g.Logs[r], nil
}

func (g *Gateway) ResolveRef(ctx context.Context, ref string) (string, error) {
	if err := g.read("ResolveRef", ref); err != nil {
		return "", err
	}
	hash, ok := g.Refs[ref]
	if !ok {
		return "", fmt.Errorf("unknown ref %q", ref)
	}
	return hash, nil
}

func (g *Gateway) RemoteTip(ctx context.Context, branch string) (string, error) {
	if err := g.read("RemoteTip", branch); err != nil {
		return "", err
	}
	return g.RemoteTips[branch], nil
}

func (g *Gateway) TrackingRef(branch string) string {
	remote := g.Remote
	if remote == "" {
		remote = "origin"
	}
	return remote + "/" + branch
}

func (g *Gateway) Fetch(ctx context.Context) error {
	return g.mutate("Fetch")
}

func (g *Gateway) CreateBranch(ctx context.Context, name, at string) error {
	return g.mutate("CreateBranch", name, at)
}

func (g *Gateway) PushBranch(ctx context.Context, name string) error {
	return g.mutate("PushBranch", name)
}

func (g *Gateway) DeleteBranch(ctx context.Context, name string, opts vcs.DeleteOptions) error {
	return g.mutate("DeleteBranch", name, fmt.Sprintf("local=%t", opts.Local), fmt.Sprintf("remote=%t", opts.Remote))
}

func (g *Gateway) ForcePushWithLease(ctx context.Context, src, dest, expect string) error {
	return g.mutate("ForcePushWithLease", src, dest, expect)
}

func (g *Gateway) Checkout(ctx context.Context, branch string) error {
	if err := g.mutate("Checkout", branch); err != nil {
		return err
	}
	g.Branch = branch
	return nil
}

func (g *Gateway) ResetHard(ctx context.Context, to string) error {
	return g.mutate("ResetHard", to)
}

func (g *Gateway) Merge(ctx context.Context, branch string) (int, error) {
	if err := g.mutate("Merge", branch); err != nil {
		return -1, err
	}
	return g.MergeExitCode, nil
}
