package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PreconditionError reports a contract violation by the caller, detected
// before any system mutation is attempted.
type PreconditionError struct {
	Message string
}

// NewPreconditionError constructs a PreconditionError.
func NewPreconditionError(message string) error {
	return &PreconditionError{Message: message}
}

func (e *PreconditionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("precondition failed: %s", e.Message)
}

// ObservationError reports a failure to query current subscription state.
// Planning cannot proceed without a fresh observation, so this is fatal.
type ObservationError struct {
	Err error
}

// NewObservationError constructs an ObservationError.
func NewObservationError(err error) error {
	return &ObservationError{Err: err}
}

func (e *ObservationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("status observation failed: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *ObservationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AttachmentError reports a failed attach or detach. Attachment changes
// gate every dependent service action, so this aborts the remaining plan.
type AttachmentError struct {
	Op     string // "attach" or "detach"
	Reason string
	Err    error
}

// NewAttachmentError constructs an AttachmentError for the given operation.
func NewAttachmentError(op, reason string, err error) error {
	return &AttachmentError{Op: op, Reason: reason, Err: err}
}

func (e *AttachmentError) Error() string {
	if e == nil {
		return ""
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s failed: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying error.
func (e *AttachmentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ServiceError reports a failed enable or disable of a single service.
// It is isolated to that service and never aborts the remaining plan.
type ServiceError struct {
	Service string
	Op      string // "enable" or "disable"
	Reason  string
	Err     error
}

// NewServiceError constructs a ServiceError.
func NewServiceError(service, op, reason string, err error) error {
	return &ServiceError{Service: service, Op: op, Reason: reason, Err: err}
}

func (e *ServiceError) Error() string {
	if e == nil {
		return ""
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s %s failed: %s", e.Op, e.Service, e.Reason)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Service, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ServiceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
