// Package conflict predicts whether merging two branches would conflict,
// without touching refs, the index or the work tree.
package conflict

import (
	"context"
	"fmt"
	"slices"

	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/vcs"
)

// Prediction is the outcome of a merge simulation.
type Prediction struct {
	Base         string
	HasConflicts bool
	// Files were changed on both sides since Base, sorted.
	Files []string
}

// SimulationError is returned when the merge could not be simulated.
// Files still lists the paths changed on both sides so they can be shown.
type SimulationError struct {
	Base  string
	Files []string
	Err   error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("merge simulation failed: %v", e.Err)
}

func (e *SimulationError) Unwrap() error {
	return e.Err
}

// Predictor simulates merges through a vcs.Reader.
type Predictor struct {
	r vcs.Reader
}

// NewPredictor creates a Predictor.
func NewPredictor(r vcs.Reader) *Predictor {
	return &Predictor{r: r}
}

// Predict simulates merging source into target.
// Unrelated histories fail with vcs.ErrNoCommonAncestor.
func (p *Predictor) Predict(ctx context.Context, source, target string) (*Prediction, error) {
	base, err := p.r.MergeBase(ctx, source, target)
	if err != nil {
		return nil, err
	}

	files, err := p.overlap(ctx, base, source, target)
	if err != nil {
		return nil, err
	}

	conflicts, err := p.r.SimulateMerge(ctx, base, target, source)
	if err != nil {
		return nil, &SimulationError{Base: base, Files: files, Err: err}
	}

	log.FromContext(ctx).Debug("conflict: simulated", "base", base, "overlap", len(files), "conflicts", conflicts)
	return &Prediction{Base: base, HasConflicts: conflicts, Files: files}, nil
}

// overlap returns the paths changed between base and both tips.
func (p *Predictor) overlap(ctx context.Context, base, source, target string) ([]string, error) {
	ours, err := p.r.DiffNames(ctx, vcs.Range{From: base, To: source})
	if err != nil {
		return nil, err
	}
	theirs, err := p.r.DiffNames(ctx, vcs.Range{From: base, To: target})
	if err != nil {
		return nil, err
	}

	changed := make(map[string]bool, len(ours))
	for _, f := range ours {
		changed[f] = true
	}
	var files []string
	for _, f := range theirs {
		if changed[f] {
			files = append(files, f)
			delete(changed, f)
		}
	}
	slices.Sort(files)
	return files, nil
}
