// Package apperr defines the error taxonomy shared by the service and
// handler layers: user-correctable validation failures, lost inventory
// races, missing/foreign resources, and storage failures. Handlers map
// these onto HTTP statuses; anything unrecognised is treated as a storage
// failure and surfaced generically.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrInsufficientSeats means the conditional seat decrement affected zero
	// rows: sold out, or a concurrent booking won the race.
	ErrInsufficientSeats = errors.New("not enough seats available for the selected type")

	// ErrNotFound covers both genuinely missing resources and resources that
	// do not belong to the caller. The two are deliberately not
	// distinguishable from the outside.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the resource is not in a state that allows the
	// operation: cancelling a cancelled booking, paying a paid one, deleting
	// an event that still has active bookings.
	ErrConflict = errors.New("operation conflicts with the current state")

	ErrUnauthorized = errors.New("user is not authorized")
	ErrForbidden    = errors.New("operation is forbidden for user")
)

// FieldError is a single user-correctable problem with the submitted form.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError carries all field errors found before any write happened.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a field error. Field may be empty for form-level problems.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field error was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Validation builds a single-message validation error.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// PersistenceError wraps a storage-layer failure. The wrapped cause is
// logged internally and never shown to the caller.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err as a storage failure for operation op. Returns nil
// when err is nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// HTTPStatus maps an error onto the HTTP status handlers should return.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientSeats), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		if _, ok := AsValidation(err); ok {
			return http.StatusUnprocessableEntity
		}
		return http.StatusInternalServerError
	}
}
