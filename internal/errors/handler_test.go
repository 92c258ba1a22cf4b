package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestErrorHandler_Format(t *testing.T) {
	withoutColor(t)
	handler := NewErrorHandler()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: "Error: boom\n",
		},
		{
			name: "sync error shows root cause and hint",
			err: ErrRepoNotFound.
				WithCause(fmt.Errorf("stat /nope: %w", os.ErrNotExist)).
				WithSuggestion("pass --repo or set SYNCPUSH_REPO"),
			expected: "Error: repository path does not exist: file does not exist\n" +
				"Hint: pass --repo or set SYNCPUSH_REPO\n",
		},
		{
			name:     "wrapped sync error without cause",
			err:      fmt.Errorf("run: %w", ErrInvalidPolicy),
			expected: "Error: invalid failure policy\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, handler.Format(tt.err))
		})
	}
}

func TestErrorHandler_FormatDebugKeepsChain(t *testing.T) {
	withoutColor(t)
	handler := &ErrorHandler{Debug: true}

	err := fmt.Errorf("run: %w", ErrRepoNotDir.WithCause(errors.New("is a file")))
	assert.Equal(t, "Error: run: repository path is not a directory: is a file\n", handler.Format(err))
}

func TestErrorHandler_FormatHint(t *testing.T) {
	withoutColor(t)
	handler := NewErrorHandler()

	assert.Empty(t, handler.FormatHint(""))
	assert.Equal(t, "Hint: fetch first\n", handler.FormatHint("fetch first"))
}
