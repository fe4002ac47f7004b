package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the reactflow library

var (
	// ErrUnsupportedSource indicates that a value cannot be adapted into a stream
	ErrUnsupportedSource = errors.New("unsupported source kind")

	// ErrInvalidArgument indicates a precondition violation in a constructor or combinator
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")
)

// ValidationError describes a rejected argument. It always wraps ErrInvalidArgument.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError without a hint.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

// OperationError reports a failure of infrastructure behind a source adapter,
// such as a broker subscription or a file watch.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError for module.operation caused by cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches extra detail and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// SourceKindError is returned when a value of an unrecognized shape is used
// to construct a stream.
type SourceKindError struct {
	Value       interface{}
	Description string
}

// NewSourceKindError describes value for diagnostics.
func NewSourceKindError(value interface{}) *SourceKindError {
	return &SourceKindError{
		Value:       value,
		Description: fmt.Sprintf("%T %#v", value, value),
	}
}

func (e *SourceKindError) Error() string {
	return "cannot source a stream from: " + e.Description
}

func (e *SourceKindError) Unwrap() error {
	return ErrUnsupportedSource
}

// IsValidationError returns true if err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsUnsupportedSource returns true if err reports an unrecognized source shape
func IsUnsupportedSource(err error) bool {
	return errors.Is(err, ErrUnsupportedSource)
}

// IsClosed returns true if err indicates use of a closed resource
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}
