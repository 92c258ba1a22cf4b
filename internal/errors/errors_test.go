package errors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SyncError
		expected string
	}{
		{
			name: "error without cause",
			err: &SyncError{
				Type:    ErrTypeEnvironment,
				Message: "repository path does not exist",
			},
			expected: "repository path does not exist",
		},
		{
			name: "error with cause",
			err: &SyncError{
				Type:    ErrTypeEnvironment,
				Message: "repository path does not exist",
				Cause:   errors.New("permission denied"),
			},
			expected: "repository path does not exist: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestSyncError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrTypeGit, "wrapper error", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestSyncError_WithSuggestion(t *testing.T) {
	err := New(ErrTypeConfig, "test error")

	result := err.WithSuggestion("try this solution")

	assert.Equal(t, "try this solution", result.Suggestion)
	assert.Same(t, err, result)
}

func TestSyncError_WithCauseKeepsSentinelIntact(t *testing.T) {
	cause := os.ErrNotExist
	err := ErrRepoNotFound.WithCause(cause).WithSuggestion("pass --repo")

	assert.Nil(t, ErrRepoNotFound.Cause)
	assert.Empty(t, ErrRepoNotFound.Suggestion)
	assert.True(t, Is(err, ErrRepoNotFound))
	assert.True(t, Is(err, os.ErrNotExist))
	assert.False(t, Is(err, ErrRepoNotDir))
}

func TestNewAndWrap(t *testing.T) {
	err := New(ErrTypeValidation, "test message")
	assert.Equal(t, ErrTypeValidation, err.Type)
	assert.Equal(t, "test message", err.Message)
	assert.Nil(t, err.Cause)

	formatted := Newf(ErrTypeConfig, "bad value %q", "x")
	assert.Equal(t, `bad value "x"`, formatted.Message)

	cause := errors.New("original error")
	wrapped := Wrap(ErrTypeGit, "wrapped message", cause)
	assert.Equal(t, ErrTypeGit, wrapped.Type)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestAs(t *testing.T) {
	originalErr := &SyncError{Type: ErrTypeGit, Message: "git error"}
	wrappedErr := fmt.Errorf("wrapped: %w", originalErr)

	var target *SyncError
	assert.True(t, As(wrappedErr, &target))
	assert.Equal(t, originalErr, target)
}

func TestGetTypeAndSuggestion(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		errType    ErrorType
		suggestion string
	}{
		{
			name:       "SyncError",
			err:        New(ErrTypeEnvironment, "missing").WithSuggestion("check path"),
			errType:    ErrTypeEnvironment,
			suggestion: "check path",
		},
		{
			name:    "wrapped SyncError",
			err:     fmt.Errorf("context: %w", New(ErrTypeConfig, "bad")),
			errType: ErrTypeConfig,
		},
		{
			name:    "standard error",
			err:     errors.New("plain"),
			errType: ErrTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, GetType(tt.err))
			assert.Equal(t, tt.suggestion, GetSuggestion(tt.err))
		})
	}
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "environment", ErrTypeEnvironment.String())
	assert.Equal(t, "timeout", ErrTypeTimeout.String())
	assert.Equal(t, "interrupted", ErrTypeInterrupted.String())
	assert.Equal(t, "unknown", ErrorType(42).String())
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: ExitCodeSuccess},
		{name: "exit status", err: &ExitStatus{Code: 1}, expected: 1},
		{name: "wrapped exit status", err: fmt.Errorf("push: %w", &ExitStatus{Code: 128}), expected: 128},
		{name: "deadline", err: fmt.Errorf("fetch: %w", context.DeadlineExceeded), expected: ExitCodeTimeout},
		{name: "environment", err: ErrRepoNotFound, expected: ExitCodeEnvironment},
		{name: "config", err: ErrConfigParse, expected: ExitCodeConfig},
		{name: "validation", err: ErrInvalidPolicy, expected: ExitCodeConfig},
		{name: "timeout type", err: New(ErrTypeTimeout, "slow"), expected: ExitCodeTimeout},
		{name: "canceled", err: fmt.Errorf("fetch: %w", context.Canceled), expected: ExitCodeInterrupted},
		{name: "interrupted type", err: ErrInterrupted.WithCause(errors.New("signal")), expected: ExitCodeInterrupted},
		{name: "generic", err: errors.New("boom"), expected: ExitCodeGenericError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCodeFor(tt.err))
		})
	}
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "plain", FormatError(errors.New("plain")))

	err := New(ErrTypeEnvironment, "missing repo").WithSuggestion("pass --repo")
	assert.Equal(t, "missing repo\n💡 pass --repo", FormatError(err))
}
