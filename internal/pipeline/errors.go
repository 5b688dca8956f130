package pipeline

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a candidate id is not in the local store.
var ErrNotFound = errors.New("candidate not found")

// ValidationError reports a payload or input that failed local validation.
// It is always raised before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// TerminalStateError reports an attempted transition on a candidate already
// in Selected or Rejected.
type TerminalStateError struct {
	CandidateID string
	Stage       Stage
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("candidate %s is in terminal stage %q", e.CandidateID, e.Stage)
}

// PersistenceError reports a remote call that failed after any retry. No
// local state has been mutated when it is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
