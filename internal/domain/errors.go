package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrModelNotTrained is returned when prediction, optimization or
	// sensitivity analysis is attempted before a successful training run.
	ErrModelNotTrained = errors.New("demand model not trained")

	// ErrUndefinedElasticity marks a sweep pair whose elasticity has a
	// zero denominator (zero price delta or zero base demand).
	ErrUndefinedElasticity = errors.New("elasticity undefined")
)

// ValidationError reports malformed input: bad price ranges, non-positive
// prices, out-of-domain categorical values. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientDataError reports a training dataset too small to cover two
// seasonal cycles. Min is the row count hint surfaced to the caller.
type InsufficientDataError struct {
	Rows int
	Min  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient training data: %d rows, need at least %d", e.Rows, e.Min)
}
