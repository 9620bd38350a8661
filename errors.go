package main

import (
	"errors"
	"fmt"
)

// FieldError reports a single malformed or missing user-supplied value.
// It is recoverable: callers collect these into a fieldErrors map and return
// per-field messages instead of aborting unrelated fields.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// fieldErrors maps field name to a human-readable validation message.
// A non-empty map means the whole operation was rejected before any numeric
// work ran — assembly is all-or-nothing.
type fieldErrors map[string]string

func (fe fieldErrors) Error() string {
	return fmt.Sprintf("%d invalid field(s)", len(fe))
}

// add records a message for field unless one is already present. Keeping the
// first message makes the reported error stable when a field fails more than
// one check.
func (fe fieldErrors) add(field, message string) {
	if _, ok := fe[field]; !ok {
		fe[field] = message
	}
}

// ComputationError reports a normalized input combination that cannot yield a
// sane result (e.g. zero weight reaching goal calculation despite upstream
// validation). Surfaced as a whole-operation failure, never silently defaulted.
type ComputationError struct {
	Reason string
}

func (e *ComputationError) Error() string {
	return "cannot compute goals: " + e.Reason
}

// ErrDataUnavailable marks a summary load where at least one upstream fetch
// failed. The aggregator refuses to run on partial data; callers must render
// an explicit error state rather than a zeroed summary.
var ErrDataUnavailable = errors.New("required data unavailable")
