package value

import (
	"errors"
	"fmt"
)

// ContractViolation is the panic payload for misuse of the value model and
// the property engine built on it: mismatched kinds, casting non-scalars,
// double destroys, use after destroy.
//
// These are logic defects, never transient conditions, so they are raised
// with panic rather than returned.
type ContractViolation struct {
	// Op names the operation that detected the violation (e.g. "copy").
	Op string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ContractViolation) Error() string {
	return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Message)
}

// Violate panics with a *ContractViolation for op.
func Violate(op, format string, args ...any) {
	panic(&ContractViolation{Op: op, Message: fmt.Sprintf(format, args...)})
}

// IsContractViolation returns true if err is a *ContractViolation.
// Uses errors.As to handle wrapped errors.
func IsContractViolation(err error) bool {
	var cv *ContractViolation
	return errors.As(err, &cv)
}
