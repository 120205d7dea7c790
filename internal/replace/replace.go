// Package replace overwrites a target branch with a source branch, guarded by
// impact analysis, a two-part confirmation and a backup branch.
//
// The operation is an explicit state machine:
//
//	Idle -> ImpactAnalyzed -> Confirmed -> BackupCreated -> RemoteOverwritten
//	     -> LocalReset -> (SourceCleaned) -> Done
//
// Each call performs at most one transition, so callers (and tests) can drive
// it step by step. A failed step stops the machine where it is; nothing is
// rolled back and the backup branch stays as the recovery path.
package replace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/raphi011/gflow/internal/log"
	"github.com/raphi011/gflow/internal/vcs"
)

// DefaultProtectedBranch is never deleted as a replace source.
const DefaultProtectedBranch = "main"

// backupTimeFormat is the UTC timestamp suffix of backup branches.
const backupTimeFormat = "20060102-150405"

// BackupName returns the backup branch name for target at t.
func BackupName(target string, t time.Time) string {
	return target + "-backup-" + t.UTC().Format(backupTimeFormat)
}

// ConfirmationPhrase is what the user must type to replace target.
func ConfirmationPhrase(target string) string {
	return "REPLACE " + target
}

// Impact describes what a replace would change.
type Impact struct {
	// Lost are the commits on target that source does not contain.
	Lost []vcs.Commit
	// Gained are the commits on source that target does not contain.
	Gained []vcs.Commit
	// RemoteTip is target's tip on the remote, empty if it is not published.
	RemoteTip string
	Backup    string
}

// Option configures an Operation.
type Option func(*Operation)

// WithProtectedBranch sets the branch that cleanup never deletes.
func WithProtectedBranch(name string) Option {
	return func(o *Operation) {
		if name != "" {
			o.protected = name
		}
	}
}

// WithClock sets the clock used for backup names.
func WithClock(now func() time.Time) Option {
	return func(o *Operation) {
		o.now = now
	}
}

// Operation replaces target with source.
type Operation struct {
	gw        vcs.Gateway
	source    string
	target    string
	protected string
	now       func() time.Time

	state  State
	steps  []Step
	impact *Impact

	// backupAt is where the backup branch points: the local tip of target,
	// which equals the remote tip whenever target is published.
	backupAt string
	// backupExists is set once the backup ref exists locally.
	backupExists bool
}

// New creates an operation in state Idle.
func New(gw vcs.Gateway, source, target string, opts ...Option) (*Operation, error) {
	if source == "" || target == "" {
		return nil, errors.New("source and target branch are required")
	}
	if source == target {
		return nil, fmt.Errorf("cannot replace %s with itself", target)
	}
	o := &Operation{
		gw:        gw,
		source:    source,
		target:    target,
		protected: DefaultProtectedBranch,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func (o *Operation) Source() string { return o.source }
func (o *Operation) Target() string { return o.target }

// State returns the current state.
func (o *Operation) State() State {
	return o.state
}

// Status reports progress, including the last completed step.
func (o *Operation) Status() Status {
	s := Status{
		State:         o.state,
		Steps:         slices.Clone(o.steps),
		LastCompleted: o.lastCompleted(),
	}
	if o.backupExists {
		s.Backup = o.impact.Backup
	}
	return s
}

// lastCompleted is the furthest state whose work is done. Confirmation does
// not count: it changes nothing in the repository.
func (o *Operation) lastCompleted() State {
	if n := len(o.steps); n > 0 {
		return stepStates[o.steps[n-1]]
	}
	if o.impact != nil {
		return ImpactAnalyzed
	}
	return Idle
}

// AnalyzeImpact lists the commits that would be lost and gained, and records
// the remote tip of target as the lease for the overwrite. Read-only.
//
// The backup points at the local tip of target. When target is published, the
// local and remote tips must agree, otherwise commits on only one side would
// be destroyed without being in the backup or in the lost list.
func (o *Operation) AnalyzeImpact(ctx context.Context) (*Impact, error) {
	if o.state != Idle && o.state != ImpactAnalyzed {
		return nil, o.wrongState("analyze impact")
	}

	local, err := o.gw.ResolveRef(ctx, o.target)
	if err != nil {
		return nil, err
	}
	tip, err := o.gw.RemoteTip(ctx, o.target)
	if err != nil {
		return nil, err
	}
	if tip != "" && tip != local {
		return nil, fmt.Errorf("%w: %s is at %s locally but at %s on the remote; push or pull it first",
			ErrTargetOutOfSync, o.target, shortHash(local), shortHash(tip))
	}

	lost, err := o.gw.Log(ctx, vcs.Range{From: o.source, To: o.target})
	if err != nil {
		return nil, fmt.Errorf("list commits only on %s: %w", o.target, err)
	}
	gained, err := o.gw.Log(ctx, vcs.Range{From: o.target, To: o.source})
	if err != nil {
		return nil, fmt.Errorf("list commits only on %s: %w", o.source, err)
	}

	o.impact = &Impact{
		Lost:      lost,
		Gained:    gained,
		RemoteTip: tip,
		Backup:    BackupName(o.target, o.now()),
	}
	o.backupAt = local
	o.state = ImpactAnalyzed

	log.FromContext(ctx).Debug("replace: impact",
		"lost", len(lost), "gained", len(gained), "remote_tip", tip, "backup", o.impact.Backup)
	return o.impact, nil
}

// Confirm records the user's two affirmations. Declining or mistyping the
// phrase aborts: the operation returns to Idle without touching anything.
func (o *Operation) Confirm(yes bool, phrase string) error {
	if o.state != ImpactAnalyzed {
		return o.wrongState("confirm")
	}
	if !yes {
		o.reset()
		return ErrDeclined
	}
	if phrase != ConfirmationPhrase(o.target) {
		o.reset()
		return ErrInvalidConfirmation
	}
	o.state = Confirmed
	return nil
}

func (o *Operation) reset() {
	o.state = Idle
	o.impact = nil
	o.backupAt = ""
}

// Advance performs exactly the next repository step.
func (o *Operation) Advance(ctx context.Context) error {
	l := log.FromContext(ctx)

	switch o.state {
	case Confirmed:
		backup := o.impact.Backup
		l.Debug("replace: creating backup", "branch", backup, "at", o.backupAt)
		if err := o.gw.CreateBranch(ctx, backup, o.backupAt); err != nil {
			return o.fail(BackupCreated, ErrBackupFailed, err)
		}
		o.backupExists = true
		if err := o.gw.PushBranch(ctx, backup); err != nil {
			return o.fail(BackupCreated, ErrBackupFailed, err)
		}
		o.complete(StepBackupCreated)

	case BackupCreated:
		l.Debug("replace: overwriting remote", "target", o.target, "source", o.source, "lease", o.impact.RemoteTip)
		if err := o.gw.ForcePushWithLease(ctx, o.source, o.target, o.impact.RemoteTip); err != nil {
			return o.fail(RemoteOverwritten, ErrRemoteRejected, err)
		}
		o.complete(StepRemoteOverwritten)

	case RemoteOverwritten:
		l.Debug("replace: resetting local branch", "target", o.target)
		if err := o.gw.Fetch(ctx); err != nil {
			return o.fail(LocalReset, ErrLocalUpdateFailed, err)
		}
		if err := o.gw.Checkout(ctx, o.target); err != nil {
			return o.fail(LocalReset, ErrLocalUpdateFailed, err)
		}
		if err := o.gw.ResetHard(ctx, o.gw.TrackingRef(o.target)); err != nil {
			return o.fail(LocalReset, ErrLocalUpdateFailed, err)
		}
		o.complete(StepLocalReset)

	default:
		return o.wrongState("advance")
	}
	return nil
}

// Execute advances through backup, overwrite and local reset, stopping at
// the first failure.
func (o *Operation) Execute(ctx context.Context) error {
	if o.state != Confirmed {
		return o.wrongState("execute")
	}
	for o.state != LocalReset {
		if err := o.Advance(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup finishes the operation. When confirmed and source is not the
// protected branch, source is deleted locally and on the remote. A cleanup
// failure is reported but the operation still ends in Done.
func (o *Operation) Cleanup(ctx context.Context, confirmed bool) error {
	if o.state != LocalReset {
		return o.wrongState("clean up")
	}
	defer func() { o.state = Done }()

	if !confirmed || !o.CanCleanup() {
		return nil
	}

	log.FromContext(ctx).Debug("replace: deleting source", "branch", o.source)
	if err := o.gw.DeleteBranch(ctx, o.source, vcs.DeleteOptions{Local: true, Remote: true}); err != nil {
		return &StepError{
			Step:          SourceCleaned,
			LastCompleted: LocalReset,
			Backup:        o.impact.Backup,
			Err:           stepFailed(ErrCleanupFailed, err),
		}
	}
	o.steps = append(o.steps, StepSourceCleaned)
	return nil
}

// CanCleanup reports whether source may be deleted after the replace.
func (o *Operation) CanCleanup() bool {
	return o.source != o.protected
}

func (o *Operation) complete(step Step) {
	o.steps = append(o.steps, step)
	o.state = stepStates[step]
}

func (o *Operation) fail(step State, sentinel, cause error) error {
	e := &StepError{
		Step:          step,
		LastCompleted: o.lastCompleted(),
		Err:           stepFailed(sentinel, cause),
	}
	if o.backupExists {
		e.Backup = o.impact.Backup
	}
	return e
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

func (o *Operation) wrongState(action string) error {
	return fmt.Errorf("%w: cannot %s in state %s", ErrInvalidState, action, o.state)
}
