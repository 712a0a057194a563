package models

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUserNotFound    = errors.New("user not found, complete your profile first")
	ErrContestNotFound = errors.New("contest not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrDeadlinePassed  = errors.New("the deadline for submitting predictions has passed")
	ErrAlreadyRegistered = errors.New("already registered for this contest")
)

// ValidationError reports malformed or inconsistent input. TeamIDs carries
// the offending ids (foreign, duplicate, or missing teams) so the caller can
// correct the submission.
type ValidationError struct {
	Msg     string
	TeamIDs []string
}

func (e *ValidationError) Error() string {
	if len(e.TeamIDs) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Msg, strings.Join(e.TeamIDs, ", "))
}

// NewValidationError builds a ValidationError over the given team ids.
func NewValidationError(msg string, teamIDs ...string) *ValidationError {
	return &ValidationError{Msg: msg, TeamIDs: teamIDs}
}

// StoreError wraps an underlying data-store failure with context.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsNotFoundError checks if an error references a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrContestNotFound) ||
		errors.Is(err, ErrTeamNotFound)
}
