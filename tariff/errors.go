/*
errors.go - Centralized error types for the tariff engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (plan package, CLI) wrap these with additional context.

ERROR CATEGORIES:
  1. Construction errors - Rejected schedule/pricing configuration
  2. Parse errors - Malformed clock times

  Absence of data is NOT an error: the engines return a nil breakdown with
  a nil error when there are no electricity readings to price. Callers must
  treat that as "nothing to render", not as a failure.

USAGE:
  if errors.Is(err, tariff.ErrIncompleteSchedule) {
      // reject the plan at the edit boundary
  }
*/
package tariff

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrIncompleteSchedule is returned when a week schedule is missing one
	// or more of the seven weekday keys. Completeness is enforced at
	// construction so lookups never hit an absent day.
	ErrIncompleteSchedule = errors.New("week schedule missing weekday")

	// ErrInvalidClockTime is returned when a period boundary is not a valid
	// "HH:MM" 24-hour clock string.
	ErrInvalidClockTime = errors.New("invalid clock time")

	// ErrNoPricing is returned when a tariff carries no pricing mode at all.
	ErrNoPricing = errors.New("tariff has no pricing")

	// ErrUnknownDefaultRate is returned when a day schedule's default rate
	// name is empty.
	ErrUnknownDefaultRate = errors.New("day schedule has empty default rate")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// IncompleteScheduleError reports which weekday keys are absent.
type IncompleteScheduleError struct {
	Missing []string
}

func (e *IncompleteScheduleError) Error() string {
	return fmt.Sprintf("week schedule missing weekday(s): %v", e.Missing)
}

func (e *IncompleteScheduleError) Unwrap() error {
	return ErrIncompleteSchedule
}

// ClockTimeError reports the offending clock string.
type ClockTimeError struct {
	Input string
}

func (e *ClockTimeError) Error() string {
	return fmt.Sprintf("invalid clock time %q: want HH:MM", e.Input)
}

func (e *ClockTimeError) Unwrap() error {
	return ErrInvalidClockTime
}
