package clients

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateCode is returned when a client code is already taken.
	ErrDuplicateCode = errors.New("a client with this code already exists")
	// ErrNotFound is returned when a selection points at no client.
	ErrNotFound = errors.New("client not found")
	// ErrTaskIndex is returned for a task position outside the list.
	ErrTaskIndex = errors.New("task index out of range")
	// ErrStaleEdit is returned when a staged edit no longer matches the list.
	ErrStaleEdit = errors.New("task changed since the edit was staged")
)

// ValidationError is a caller-level input error with the offending field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IgnoreNotFound turns ErrNotFound into nil. Operations on a stale
// selection have no effect and are not reported.
func IgnoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// ValidateTask checks the fields AppendTask expects callers to guarantee.
func ValidateTask(t Task) error {
	if t.Title == "" {
		return &ValidationError{Field: "titulo", Err: errors.New("title is required")}
	}
	if t.DueDate == "" {
		return &ValidationError{Field: "limite", Err: errors.New("due date is required")}
	}
	if !ValidDate(t.DueDate) {
		return &ValidationError{Field: "limite", Err: fmt.Errorf("invalid date %q, want YYYY-MM-DD", t.DueDate)}
	}
	if t.CreatedDate != "" && !ValidDate(t.CreatedDate) {
		return &ValidationError{Field: "criacao", Err: fmt.Errorf("invalid date %q, want YYYY-MM-DD", t.CreatedDate)}
	}
	return nil
}

// ValidateClientInput checks a new client before it reaches the store.
func ValidateClientInput(in ClientInput) error {
	if in.Code == "" {
		return &ValidationError{Field: "codigo", Err: errors.New("code is required")}
	}
	if in.StartDate != "" && !ValidDate(in.StartDate) {
		return &ValidationError{Field: "data-inicio", Err: fmt.Errorf("invalid date %q, want YYYY-MM-DD", in.StartDate)}
	}
	return nil
}
