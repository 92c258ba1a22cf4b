package errors

import (
	"context"
	"errors"
)

// Exit codes for different error types
const (
	ExitCodeSuccess      = 0
	ExitCodeGenericError = 1
	ExitCodeEnvironment  = 2
	ExitCodeConfig       = 3
	ExitCodeTimeout      = 124 // Standard timeout exit code
	ExitCodeInterrupted  = 130 // 128 + SIGINT
)

// ExitCodeFor maps an error returned by a command to the process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var status *ExitStatus
	if errors.As(err, &status) {
		return status.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ExitCodeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ExitCodeInterrupted
	}

	switch GetType(err) {
	case ErrTypeEnvironment:
		return ExitCodeEnvironment
	case ErrTypeConfig, ErrTypeValidation:
		return ExitCodeConfig
	case ErrTypeTimeout:
		return ExitCodeTimeout
	case ErrTypeInterrupted:
		return ExitCodeInterrupted
	default:
		return ExitCodeGenericError
	}
}
