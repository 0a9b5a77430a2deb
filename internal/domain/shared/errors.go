// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external runtime dependencies beyond
// event identity.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// ErrInvalidGoal is returned when a daily or team goal is not positive.
	ErrInvalidGoal = errors.New("goal must be positive")

	// ErrInvalidSteps is returned when a step count is negative.
	ErrInvalidSteps = errors.New("steps cannot be negative")

	// ErrInvalidSnapshot is returned when a backup document lacks a
	// recognizable users section.
	ErrInvalidSnapshot = errors.New("snapshot missing users section")

	// ErrMalformedDate is returned when a history key or range endpoint fails
	// ISO calendar date parsing. Aggregations recover from it locally; it
	// never aborts a whole computation.
	ErrMalformedDate = errors.New("malformed date")

	// ErrNotFound is returned when a referenced member does not exist.
	ErrNotFound = errors.New("member not found")

	// ErrEmptyUsername is returned when an operation names no member.
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrConfirmationMismatch is returned when a destructive operation is
	// attempted without the exact confirmation phrase.
	ErrConfirmationMismatch = errors.New("confirmation phrase does not match")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "store", "challenge", "leaderboard"
	Op      string // Operation that failed, e.g., "LogSteps", "SetGoal"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}
