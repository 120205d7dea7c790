package replace

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfirmation is returned when the typed phrase does not match.
	// It is a user abort, not a failure.
	ErrInvalidConfirmation = errors.New("confirmation phrase did not match")

	// ErrDeclined is returned when the user answers no. It matches
	// ErrInvalidConfirmation so callers can treat every abort alike.
	ErrDeclined = fmt.Errorf("%w: replace declined", ErrInvalidConfirmation)

	ErrBackupFailed      = errors.New("backup failed")
	ErrRemoteRejected    = errors.New("remote rejected the update")
	ErrLocalUpdateFailed = errors.New("local update failed")
	// ErrCleanupFailed is not fatal: the replace itself already completed.
	ErrCleanupFailed = errors.New("source cleanup failed")

	// ErrTargetOutOfSync is returned by AnalyzeImpact when the local target
	// and the remote target point at different commits.
	ErrTargetOutOfSync = errors.New("target differs from its remote")

	// ErrInvalidState is returned when an operation is driven out of order.
	ErrInvalidState = errors.New("invalid operation state")
)

// StepError reports the step that failed and where the repository was left.
// It unwraps to both the step's sentinel and the underlying cause.
type StepError struct {
	Step          State // the state that could not be reached
	LastCompleted State
	Backup        string // empty when no backup branch exists
	Err           error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepFailed(sentinel, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}
