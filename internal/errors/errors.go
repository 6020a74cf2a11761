// Package errors provides structured error types and exit codes for Foundry.
package errors

import (
	"fmt"
)

// Exit codes reported by the foundry CLI.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error (task failed, transfer failed, etc.)
	ExitConfigError      = 2 // Configuration error (invalid config, unknown task, etc.)
	ExitEnvironmentError = 3 // Environment error (missing executable, offline cache miss, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindEnvironment
)

// FoundryError is the base error type for Foundry.
type FoundryError struct {
	Kind    ErrorKind
	Message string
	Task    string // Task name if applicable
	Cause   error  // Underlying error
}

func (e *FoundryError) Error() string {
	if e.Task != "" {
		return fmt.Sprintf("[%s] %s", e.Task, e.Message)
	}
	return e.Message
}

func (e *FoundryError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *FoundryError) ExitCode() int {
	switch e.Kind {
	case KindConfig:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *FoundryError {
	return &FoundryError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *FoundryError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *FoundryError {
	return &FoundryError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *FoundryError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *FoundryError {
	return &FoundryError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *FoundryError {
	return Environment(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *FoundryError {
	return &FoundryError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// TaskError creates a runtime error for a specific task.
func TaskError(task, message string) *FoundryError {
	return &FoundryError{
		Kind:    KindRuntime,
		Task:    task,
		Message: message,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *FoundryError {
	return &FoundryError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if fe, ok := err.(*FoundryError); ok {
		return fe.ExitCode()
	}
	return ExitRuntimeError
}
