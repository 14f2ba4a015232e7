package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the booking engine. Handlers map these to HTTP
// status codes with errors.Is.
var (
	ErrNotFound                = errors.New("resource not found")
	ErrNotAuthorized           = errors.New("not authorized")
	ErrAlreadyCancelled        = errors.New("booking is already cancelled")
	ErrBookingAlreadyCancelled = errors.New("payment received for a cancelled booking")
	ErrOrderAlreadyOpen        = errors.New("payment order already open for booking")
	ErrSignatureInvalid        = errors.New("payment signature invalid")
	ErrConcurrentModification  = errors.New("booking was modified concurrently")
	ErrStatusMismatch          = errors.New("booking status mismatch")
	ErrPersistenceFailure      = errors.New("persistence failure")
)

// ValidationError carries per-field messages from request validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// InvalidSeatError reports seat numbers outside the journey's range.
type InvalidSeatError struct {
	Seats []string
}

func (e *InvalidSeatError) Error() string {
	return fmt.Sprintf("invalid seats for journey: %s", strings.Join(e.Seats, ", "))
}

// PassengerMismatchError reports a passenger list that does not cover the
// requested seats exactly once.
type PassengerMismatchError struct {
	Reason string
}

func (e *PassengerMismatchError) Error() string {
	return "passenger mismatch: " + e.Reason
}

// SeatsUnavailableError reports the full set of requested seats that were
// already booked when the reservation was attempted.
type SeatsUnavailableError struct {
	Seats []string
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("seats not available: %s", strings.Join(e.Seats, ", "))
}
