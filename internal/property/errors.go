package property

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while propagating a mutation.
//
// Propagation errors are raised with panic because a setter has no error
// return and the graph cannot be left half-updated silently.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Property is the name of the property being dirtied when the error was raised.
	Property string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeDepthExceeded indicates propagation recursed past the session's depth guard.
	ErrCodeDepthExceeded RuntimeErrorCode = "DEPTH_EXCEEDED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("%s: %s (property=%s)", e.Code, e.Message, e.Property)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDepthError creates a RuntimeError for an exceeded propagation depth.
func NewDepthError(property string, depth, limit int) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeDepthExceeded,
		Message:  fmt.Sprintf("propagation exceeded max depth (%d > %d)", depth, limit),
		Property: property,
		Details: map[string]string{
			"depth":     fmt.Sprintf("%d", depth),
			"max_depth": fmt.Sprintf("%d", limit),
		},
	}
}

// IsDepthError returns true if the error is a depth guard error.
// Uses errors.As to handle wrapped errors.
func IsDepthError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeDepthExceeded
	}
	return false
}
