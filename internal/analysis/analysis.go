// Package analysis runs the enabled pre-merge analyzers and combines their
// results into one report.
package analysis

import (
	"context"

	"github.com/raphi011/gflow/internal/compat"
	"github.com/raphi011/gflow/internal/config"
	"github.com/raphi011/gflow/internal/conflict"
	"github.com/raphi011/gflow/internal/divergence"
	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/vcs"
)

// Verdict summarizes a report for the merge decision.
type Verdict string

const (
	VerdictClean            Verdict = "clean"
	VerdictCaution          Verdict = "caution"
	VerdictConflicts        Verdict = "conflicts"
	VerdictReplaceSuggested Verdict = "replace-suggested"
)

// Report holds the result of every analyzer that ran. Disabled analyzers
// leave their field nil.
type Report struct {
	Source     string
	Target     string
	Compat     *compat.Report
	Conflicts  *conflict.Prediction
	Divergence *divergence.Report
}

// Verdict picks the most significant finding. A suggested replace wins over
// conflicts because replacing sidesteps the merge entirely.
func (r *Report) Verdict() Verdict {
	switch {
	case r.Divergence != nil && r.Divergence.SuggestReplace:
		return VerdictReplaceSuggested
	case r.Conflicts != nil && r.Conflicts.HasConflicts:
		return VerdictConflicts
	case r.Compat != nil && r.Compat.HasIssues():
		return VerdictCaution
	}
	return VerdictClean
}

// Engine runs the analyzers enabled by its capabilities.
type Engine struct {
	compat     *compat.Analyzer
	conflicts  *conflict.Predictor
	divergence *divergence.Analyzer
	caps       config.Capabilities
}

// New creates an Engine. A nil rule set means compat.DefaultRules().
func New(r vcs.Reader, rules *compat.RuleSet, caps config.Capabilities) *Engine {
	return &Engine{
		compat:     compat.NewAnalyzer(r, rules),
		conflicts:  conflict.NewPredictor(r),
		divergence: divergence.NewAnalyzer(r),
		caps:       caps,
	}
}

// Analyze runs the enabled analyzers in order: compatibility, conflicts,
// divergence. The first error is returned as-is and no report is produced.
func (e *Engine) Analyze(ctx context.Context, source, target string) (*Report, error) {
	report := &Report{Source: source, Target: target}
	var err error

	if e.caps.Compatibility {
		if report.Compat, err = e.compat.Analyze(ctx, source, target); err != nil {
			return nil, err
		}
	}
	if e.caps.Conflicts {
		if report.Conflicts, err = e.conflicts.Predict(ctx, source, target); err != nil {
			return nil, err
		}
	}
	if e.caps.Divergence {
		if report.Divergence, err = e.divergence.Analyze(ctx, source, target); err != nil {
			return nil, err
		}
	}

	log.FromContext(ctx).Debug("analysis", "source", source, "target", target, "verdict", report.Verdict())
	return report, nil
}
