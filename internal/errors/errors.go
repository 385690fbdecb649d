// Package errors provides a lightweight structured error type (RepoError)
// for category-based classification and severity-driven recovery policy.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a repository error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External system integration errors
	CategorySync ErrorCategory = "sync"

	// Local storage errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryParse      ErrorCategory = "parse"

	// Runtime and infrastructure errors
	CategoryLifecycle ErrorCategory = "lifecycle"
	CategoryInternal  ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops use of the repository handle
	SeverityWarning ErrorSeverity = "warning" // Continues in degraded / local-only mode
)

// RepoError is a structured error with category, severity, and context
type RepoError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for RepoError
type ContextFields map[string]any

// Error implements the error interface
func (e *RepoError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *RepoError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *RepoError) WithContext(key string, value any) *RepoError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// IsFatal reports whether the error should stop further use of the handle.
func (e *RepoError) IsFatal() bool {
	return e.Severity == SeverityFatal
}

// New creates a new RepoError
func New(category ErrorCategory, severity ErrorSeverity, message string) *RepoError {
	return &RepoError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new RepoError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *RepoError {
	return &RepoError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// AsRepoError extracts a *RepoError from an error chain, if present.
func AsRepoError(err error) (*RepoError, bool) {
	var re *RepoError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsFatal reports whether err carries fatal severity. Plain errors without
// a RepoError in their chain are treated as fatal: severity must be opted
// into explicitly.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if re, ok := AsRepoError(err); ok {
		return re.IsFatal()
	}
	return true
}
