package cli

import (
	"errors"
	"fmt"

	apperrors "task-store/internal/errors"
)

// Process exit codes returned by ExitCode.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitNotFound   = 3
)

// commandError is what command handlers return. Its message is safe to show
// to a user; the original error stays reachable through Unwrap.
type commandError struct {
	operation string
	message   string
	err       error
}

func (e *commandError) Error() string {
	return fmt.Sprintf("failed to %s: %s", e.operation, e.message)
}

func (e *commandError) Unwrap() error { return e.err }

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle turns err into a user-facing error for operation. AppErrors are
// reduced to their user message; other errors keep their text.
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &commandError{
		operation: operation,
		message:   apperrors.GetUserMessage(err),
		err:       err,
	}
}

// ExitCode maps an error returned by RootCommand.Execute to a process exit
// status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, apperrors.ErrValidation):
		return ExitValidation
	case errors.Is(err, apperrors.ErrNotFound):
		return ExitNotFound
	default:
		return ExitFailure
	}
}
