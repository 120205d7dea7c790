// Package compat flags the risks of merging one branch into another: deleted
// source and configuration files, dependency manifest drift, configuration
// changes, declaration-level API edits and database changes.
//
// What counts as a source, config or migration file is decided by a
// [RuleSet], so detection can be extended without touching the analyzer.
package compat

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/vcs"
)

// MaxAPISample bounds how many changed source files are diffed for
// declaration edits.
const MaxAPISample = 5

// Analyzer runs the compatibility checks.
type Analyzer struct {
	r     vcs.Reader
	rules *RuleSet
}

// NewAnalyzer creates an analyzer. A nil rule set means DefaultRules().
func NewAnalyzer(r vcs.Reader, rules *RuleSet) *Analyzer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Analyzer{r: r, rules: rules}
}

// Analyze compares source against target. Changes are taken over
// target...source, i.e. what source introduced since it forked.
// Any gateway error aborts the analysis; no partial report is returned.
func (a *Analyzer) Analyze(ctx context.Context, source, target string) (*Report, error) {
	l := log.FromContext(ctx)
	r := vcs.Range{From: target, To: source, MergeBase: true}

	changed, err := a.r.DiffNames(ctx, r)
	if err != nil {
		return nil, err
	}
	deleted, err := a.r.DiffNames(ctx, r, vcs.Deleted)
	if err != nil {
		return nil, err
	}
	l.Debug("compat: changed paths", "range", r.String(), "changed", len(changed), "deleted", len(deleted))

	report := &Report{Source: source, Target: target}
	add := func(s *Signal) {
		if s != nil {
			report.Signals = append(report.Signals, *s)
		}
	}

	add(a.deletedFiles(deleted, source))

	deps, notes, err := a.dependencies(ctx, source, target)
	if err != nil {
		return nil, err
	}
	add(deps)
	report.Notes = append(report.Notes, notes...)

	add(a.pathSignal(changed, KindConfigChange,
		"configuration files changed; review settings before merging"))

	api, err := a.apiChanges(ctx, r)
	if err != nil {
		return nil, err
	}
	add(api)

	add(a.pathSignal(changed, KindDatabaseChange,
		"database migrations or schema files changed; coordinate the rollout"))

	l.Debug("compat: done", "signals", len(report.Signals), "notes", len(report.Notes))
	return report, nil
}

func (a *Analyzer) deletedFiles(deleted []string, source string) *Signal {
	var files fileSet
	for _, p := range deleted {
		if a.rules.Matches(p, KindSource) || a.rules.Matches(p, KindSensitive) {
			files.add(p)
		}
	}
	if files.empty() {
		return nil
	}
	details := make([]string, len(files.paths))
	for i, p := range files.paths {
		details[i] = "deleted: " + p
	}
	return &Signal{
		Kind:        KindDeletedFiles,
		Files:       files.paths,
		Explanation: fmt.Sprintf("%s deletes %d source or configuration file(s)", source, len(files.paths)),
		Severity:    SeverityHigh,
		Details:     details,
	}
}

func (a *Analyzer) dependencies(ctx context.Context, source, target string) (*Signal, []string, error) {
	var (
		files   fileSet
		details []string
		notes   []string
	)
	for _, name := range Manifests {
		src, inSource, err := a.r.ShowFile(ctx, source, name)
		if err != nil {
			return nil, nil, err
		}
		tgt, inTarget, err := a.r.ShowFile(ctx, target, name)
		if err != nil {
			return nil, nil, err
		}

		switch {
		case !inSource && !inTarget:
			continue
		case inSource && !inTarget:
			notes = append(notes, fmt.Sprintf("%s exists only on %s", name, source))
			continue
		case !inSource && inTarget:
			notes = append(notes, fmt.Sprintf("%s exists only on %s", name, target))
			continue
		case bytes.Equal(src, tgt):
			continue
		}

		files.add(name)
		oldDeps, okOld := parseManifest(name, tgt)
		newDeps, okNew := parseManifest(name, src)
		if okOld && okNew {
			details = append(details, majorChanges(name, oldDeps, newDeps)...)
		}
	}
	if files.empty() {
		return nil, notes, nil
	}

	sig := &Signal{
		Kind:        KindDependencyMismatch,
		Files:       files.paths,
		Explanation: fmt.Sprintf("dependency manifests differ between %s and %s", source, target),
		Severity:    SeverityWarning,
		Details:     details,
	}
	if len(details) > 0 {
		sig.Severity = SeverityHigh
		sig.Explanation += "; major versions changed"
	}
	return sig, notes, nil
}

func (a *Analyzer) pathSignal(changed []string, kind Kind, explanation string) *Signal {
	var files fileSet
	for _, p := range changed {
		if a.rules.Matches(p, kind) {
			files.add(p)
		}
	}
	if files.empty() {
		return nil
	}
	return &Signal{
		Kind:        kind,
		Files:       files.paths,
		Explanation: explanation,
		Severity:    SeverityWarning,
	}
}

func (a *Analyzer) apiChanges(ctx context.Context, r vcs.Range) (*Signal, error) {
	modified, err := a.r.DiffNames(ctx, r, vcs.Added, vcs.Modified, vcs.TypeChg)
	if err != nil {
		return nil, err
	}

	var sample []string
	for _, p := range slices.Sorted(slices.Values(modified)) {
		if len(sample) == MaxAPISample {
			break
		}
		if a.rules.Matches(p, KindSource) {
			sample = append(sample, p)
		}
	}

	var (
		files   fileSet
		details []string
	)
	for _, p := range sample {
		diff, err := a.r.FileDiff(ctx, r, p)
		if err != nil {
			return nil, err
		}
		if decl, line, ok := a.firstDeclaration(diff); ok {
			files.add(p)
			details = append(details, fmt.Sprintf("%s: %s %s", p, decl, line))
		}
	}
	if files.empty() {
		return nil, nil
	}
	return &Signal{
		Kind:        KindAPIChange,
		Files:       files.paths,
		Explanation: "declarations were added or removed; callers may break",
		Severity:    SeverityWarning,
		Details:     details,
	}, nil
}

// firstDeclaration scans added and removed lines of a unified diff.
func (a *Analyzer) firstDeclaration(diff string) (name, line string, ok bool) {
	for _, l := range strings.Split(diff, "\n") {
		if strings.HasPrefix(l, "+++") || strings.HasPrefix(l, "---") {
			continue
		}
		if !strings.HasPrefix(l, "+") && !strings.HasPrefix(l, "-") {
			continue
		}
		if name, ok := a.rules.Declaration(l[1:]); ok {
			return name, strings.TrimSpace(l), true
		}
	}
	return "", "", false
}
