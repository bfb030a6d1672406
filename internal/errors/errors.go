package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess      = 0   // Indicates successful execution.
	ExitErrorGeneric = 1   // Indicates a generic error.
	ExitErrorInput   = 2   // Indicates invalid or unloadable input data.
	ExitErrorFit     = 3   // Indicates a curve-fit failure.
	ExitErrorConfig  = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect
// user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// InvalidInputError represents a malformed accumulation input: an empty
// source mapping, or a source whose set of labels is empty (which would make
// the per-source unique percentage undefined).
type InvalidInputError struct {
	// Source is the key of the offending source, or "" when the whole
	// mapping is invalid.
	Source string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the invalid input.
func (e InvalidInputError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid input: %s", e.Message)
	}
	return fmt.Sprintf("invalid input for source %q: %s", e.Source, e.Message)
}

// NewInvalidInputError creates an InvalidInputError for the given source.
func NewInvalidInputError(source, format string, a ...any) error {
	return InvalidInputError{Source: source, Message: fmt.Sprintf(format, a...)}
}

// DomainError represents a value outside the mathematical domain of the
// logarithmic model: a non-positive x observation or a non-positive fit
// domain bound, where ln(x) is undefined.
type DomainError struct {
	// Value is the offending value.
	Value float64
	// Message explains which quantity was out of domain.
	Message string
}

// Error returns a formatted message describing the domain violation.
func (e DomainError) Error() string {
	return fmt.Sprintf("domain error: %s (got %g)", e.Message, e.Value)
}

// UnderdeterminedFitError indicates that the data cannot identify the two
// model parameters: fewer than two distinct x values were supplied.
type UnderdeterminedFitError struct {
	// Distinct is the number of distinct x values observed.
	Distinct int
}

// Error returns a formatted message describing the underdetermined system.
func (e UnderdeterminedFitError) Error() string {
	return fmt.Sprintf("underdetermined fit: need at least 2 distinct x values, got %d", e.Distinct)
}

// FitConvergenceError indicates that the least-squares solve failed or
// produced a singular or non-positive-definite parameter covariance.
type FitConvergenceError struct {
	// Cause is the underlying numerical error, if any.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e FitConvergenceError) Error() string {
	if e.Cause == nil {
		return "fit did not converge"
	}
	return fmt.Sprintf("fit did not converge: %v", e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e FitConvergenceError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the application exit code for that error
// class. Nil maps to ExitSuccess.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if IsContextError(err) {
		return ExitErrorCanceled
	}
	var cfgErr ConfigError
	var inputErr InvalidInputError
	var domErr DomainError
	var underErr UnderdeterminedFitError
	var convErr FitConvergenceError
	switch {
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case errors.As(err, &inputErr):
		return ExitErrorInput
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ExitErrorInput
	case errors.As(err, &domErr), errors.As(err, &underErr), errors.As(err, &convErr):
		return ExitErrorFit
	default:
		return ExitErrorGeneric
	}
}
