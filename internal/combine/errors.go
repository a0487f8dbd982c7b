package combine

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompatibleInputs marks a merge or difference requested on inputs
	// that violate the eligibility rules.
	ErrIncompatibleInputs = errors.New("incompatible merge inputs")
	// ErrInvalidTransition is returned by Preview for out-of-order calls.
	ErrInvalidTransition = errors.New("invalid preview transition")
	// ErrProvenanceMismatch is returned by Recompute when the supplied
	// series are not the ones the provenance names.
	ErrProvenanceMismatch = errors.New("provenance does not match source series")
)

// IncompatibleInputsError explains why two inputs cannot be combined.
type IncompatibleInputsError struct {
	Reason string
}

func (e *IncompatibleInputsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIncompatibleInputs, e.Reason)
}

func (e *IncompatibleInputsError) Unwrap() error {
	return ErrIncompatibleInputs
}

func incompatible(format string, v ...interface{}) error {
	return &IncompatibleInputsError{Reason: fmt.Sprintf(format, v...)}
}
