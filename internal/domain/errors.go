package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrCascade    = errors.New("cascade failed")
	ErrTransport  = errors.New("transport failed")
)

// TransportMessage is the only text shown to users for infrastructure failures.
const TransportMessage = "Storage is temporarily unavailable. Please try again."

// ValidationError reports bad or missing input. Field is empty for top-level
// problems. Fields holds every failing field when several failed at once.
type ValidationError struct {
	Field   string
	Message string
	Fields  map[string]string
}

// NewValidationError returns an error scoped to a single field or attribute.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewFieldErrors aggregates field messages. The first field in sorted order
// becomes Field so single-field callers keep working.
func NewFieldErrors(fields map[string]string) *ValidationError {
	if len(fields) == 0 {
		return nil
	}
	keys := sortedKeys(fields)
	copied := make(map[string]string, len(fields))
	for _, key := range keys {
		copied[key] = fields[key]
	}
	return &ValidationError{Field: keys[0], Message: copied[keys[0]], Fields: copied}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 1 {
		parts := make([]string, 0, len(e.Fields))
		for _, key := range sortedKeys(e.Fields) {
			parts = append(parts, key+": "+e.Fields[key])
		}
		return "validation failed: " + strings.Join(parts, "; ")
	}
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// FieldMessages returns every failing field, including the single-field form.
func (e *ValidationError) FieldMessages() map[string]string {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	if e.Field == "" {
		return nil
	}
	return map[string]string{e.Field: e.Message}
}

// NotFoundError is returned when a referenced id or key does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CascadeFailure reports a dependent cleanup or sync step that failed. The
// content type and its dependents may be out of step when this is returned.
type CascadeFailure struct {
	ContentTypeID uuid.UUID
	Step          string
	Err           error
}

func (e *CascadeFailure) Error() string {
	return fmt.Sprintf("cascade %s failed for content type %s: %v", e.Step, e.ContentTypeID, e.Err)
}

func (e *CascadeFailure) Unwrap() error { return e.Err }

// UserMessage names the failed step without the wrapped detail. A transport
// cause adds the generic retry text.
func (e *CascadeFailure) UserMessage() string {
	message := fmt.Sprintf("The %s step failed for content type %s.", e.Step, e.ContentTypeID)
	var transport *TransportFailure
	if errors.As(e.Err, &transport) {
		message += " " + transport.UserMessage()
	}
	return message
}

func (e *CascadeFailure) Is(target error) bool { return target == ErrCascade }

// TransportFailure wraps an infrastructure error from a storage backend.
type TransportFailure struct {
	Operation string
	Err       error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Operation, e.Err)
}

func (e *TransportFailure) Unwrap() error { return e.Err }

func (e *TransportFailure) Is(target error) bool { return target == ErrTransport }

// UserMessage is the generic retryable text for display.
func (e *TransportFailure) UserMessage() string { return TransportMessage }

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// ToGoError tags err with the go-errors category matching its kind. Errors
// already wrapped by go-errors pass through.
func ToGoError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	var cascade *CascadeFailure
	switch {
	case errors.As(err, &cascade):
		return goerrors.Wrap(err, goerrors.CategoryInternal, "content type cascade failed").
			WithTextCode("CASCADE_FAILED")
	case errors.Is(err, ErrValidation):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "validation failed").
			WithTextCode("VALIDATION_FAILED")
	case errors.Is(err, ErrNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "resource not found").
			WithTextCode("NOT_FOUND")
	case errors.Is(err, ErrTransport):
		return goerrors.Wrap(err, goerrors.CategoryExternal, TransportMessage).
			WithTextCode("TRANSPORT_FAILED")
	default:
		return err
	}
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
