// Package errors provides the error taxonomy for documentarian: a lightweight
// categorized error (DocError) for configuration and internal failures, typed
// errors for each failure kind a run can end with, and a CLI adapter that maps
// any of them to a user-facing message and exit code.
package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of an error for classification.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryManifest   ErrorCategory = "manifest"
	CategoryAuth       ErrorCategory = "auth"
	CategoryGuard      ErrorCategory = "guard"

	// External system integration errors
	CategoryTool ErrorCategory = "tool"
	CategoryGit  ErrorCategory = "git"

	// Generation errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategorySite       ErrorCategory = "site"

	// Runtime errors
	CategoryCanceled ErrorCategory = "canceled"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// Categorized is implemented by every typed error in this package.
type Categorized interface {
	error
	Category() ErrorCategory
}

// DocError is a structured error with category, severity and context.
type DocError struct {
	Kind     ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for DocError.
type ContextFields map[string]any

// Error implements the error interface.
func (e *DocError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Severity, e.Message)
}

// Unwrap implements error unwrapping.
func (e *DocError) Unwrap() error { return e.Cause }

// Category implements Categorized.
func (e *DocError) Category() ErrorCategory { return e.Kind }

// WithContext adds context information to the error.
func (e *DocError) WithContext(key string, value any) *DocError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new DocError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *DocError {
	return &DocError{Kind: category, Severity: severity, Message: message}
}

// Wrap creates a new DocError that wraps an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *DocError {
	return &DocError{Kind: category, Severity: severity, Message: message, Cause: err}
}

// ConfigNotFound reports an explicitly requested configuration file that does not exist.
func ConfigNotFound(path string) *DocError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

// ValidationFailed reports an invalid configuration field.
func ValidationFailed(field, reason string) *DocError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// IsCategory checks if any error in the chain belongs to a specific category.
func IsCategory(err error, category ErrorCategory) bool {
	return GetCategory(err) == category
}

// GetCategory returns CategoryCanceled for context cancellation, otherwise the
// category of the first categorized error in the chain, or CategoryInternal if
// there is none.
func GetCategory(err error) ErrorCategory {
	if stdErrors.Is(err, context.Canceled) || stdErrors.Is(err, context.DeadlineExceeded) {
		return CategoryCanceled
	}
	var c Categorized
	if stdErrors.As(err, &c) {
		return c.Category()
	}
	return CategoryInternal
}
