// Package divergence measures how far two branches have drifted apart and
// recommends either an ordinary merge or replacing the target outright.
//
// Ahead and Behind are always source relative to target: Ahead counts
// commits only on source, Behind commits only on target.
package divergence

import (
	"context"
	"fmt"

	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/vcs"
)

// Thresholds of the replace recommendation.
const (
	MaxTotalCommits      = 50
	MaxBehindCommits     = 30
	MaxAheadRatio        = 3.0
	MinAheadForRatio     = 20
	MaxStructuralChanges = 20
)

// Counts are the raw divergence measurements.
type Counts struct {
	Ahead   int
	Behind  int
	Added   int // paths added over target..source
	Deleted int // paths deleted over target..source
}

// Report is the divergence between source and target.
type Report struct {
	Source         string
	Target         string
	Counts         Counts
	SuggestReplace bool
	Reasons        []string
}

// Recommend decides between merge and replace from the counts alone.
// Every trigger that fires contributes one reason, in a fixed order.
func Recommend(c Counts) (bool, []string) {
	var reasons []string

	if total := c.Ahead + c.Behind; total > MaxTotalCommits {
		reasons = append(reasons, fmt.Sprintf("branches have diverged by %d commits (more than %d)", total, MaxTotalCommits))
	}
	if c.Behind > MaxBehindCommits && c.Ahead > c.Behind {
		reasons = append(reasons, fmt.Sprintf("source is %d commits behind and even further ahead (%d)", c.Behind, c.Ahead))
	}
	ratio := float64(c.Ahead)
	if c.Behind > 0 {
		ratio = float64(c.Ahead) / float64(c.Behind)
	}
	if ratio > MaxAheadRatio && c.Ahead > MinAheadForRatio {
		reasons = append(reasons, fmt.Sprintf("source is %.1fx ahead of target with %d new commits", ratio, c.Ahead))
	}
	if changes := c.Added + c.Deleted; changes > MaxStructuralChanges {
		reasons = append(reasons, fmt.Sprintf("%d files added or deleted (more than %d)", changes, MaxStructuralChanges))
	}

	return len(reasons) > 0, reasons
}

// Analyzer computes divergence reports.
type Analyzer struct {
	r vcs.Reader
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(r vcs.Reader) *Analyzer {
	return &Analyzer{r: r}
}

// Analyze measures source against target. It is a pure read.
func (a *Analyzer) Analyze(ctx context.Context, source, target string) (*Report, error) {
	ahead, behind, err := a.r.AheadBehind(ctx, source, target)
	if err != nil {
		return nil, err
	}

	r := vcs.Range{From: target, To: source}
	added, err := a.r.DiffNames(ctx, r, vcs.Added)
	if err != nil {
		return nil, err
	}
	deleted, err := a.r.DiffNames(ctx, r, vcs.Deleted)
	if err != nil {
		return nil, err
	}

	c := Counts{Ahead: ahead, Behind: behind, Added: len(added), Deleted: len(deleted)}
	suggest, reasons := Recommend(c)

	log.FromContext(ctx).Debug("divergence",
		"ahead", c.Ahead, "behind", c.Behind, "added", c.Added, "deleted", c.Deleted, "replace", suggest)

	return &Report{
		Source:         source,
		Target:         target,
		Counts:         c,
		SuggestReplace: suggest,
		Reasons:        reasons,
	}, nil
}
