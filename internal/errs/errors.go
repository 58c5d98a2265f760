// Package errs contains the error kinds shared by the match statistics engine
// and its collaborators.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the raw match payload does not exist.
	ErrNotFound = errors.New("match not found")
	// ErrData means the telemetry is internally inconsistent or the schema drifted.
	ErrData = errors.New("inconsistent match data")
	// ErrLookup means the rank lookup collaborator failed.
	ErrLookup = errors.New("rank lookup failed")
)

// Data wraps ErrData with a formatted detail message.
func Data(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrData, fmt.Sprintf(format, args...))
}

// Lookup wraps a collaborator failure for the given player as ErrLookup.
func Lookup(puuid string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrLookup, puuid)
	}
	return fmt.Errorf("%w: %s: %w", ErrLookup, puuid, cause)
}

// NotFound wraps ErrNotFound for the given match id.
func NotFound(matchID string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, matchID)
}
