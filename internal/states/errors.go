package states

import "errors"

var (
	// ErrDependencyFailed marks a pull skipped because a type it references
	// failed to pull in the same run.
	ErrDependencyFailed = errors.New("dependency failed to sync")

	// ErrUnexpectedInput is returned when a state receives something other
	// than a *Report.
	ErrUnexpectedInput = errors.New("unexpected state input")
)
