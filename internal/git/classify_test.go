package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected FailureKind
	}{
		{
			name: "non-fast-forward rejection",
			output: ` ! [rejected]        main -> main (fetch first)
error: failed to push some refs to 'github.com:owner/repo.git'
hint: Updates were rejected because the remote contains work that you do not have locally.`,
			expected: FailureNonFastForward,
		},
		{
			name:     "authentication failure",
			output:   "fatal: Authentication failed for 'https://github.com/owner/repo.git/'",
			expected: FailureAuth,
		},
		{
			name:     "ssh permission denied",
			output:   "git@github.com: Permission denied (publickey).\nfatal: Could not read from remote repository.",
			expected: FailureAuth,
		},
		{
			name:     "unknown host",
			output:   "fatal: unable to access 'https://example.invalid/repo.git/': Could not resolve host: example.invalid",
			expected: FailureNetwork,
		},
		{
			name:     "missing remote",
			output:   "fatal: 'upstream' does not appear to be a git repository\nfatal: Could not read from remote repository.",
			expected: FailureNoUpstream,
		},
		{
			name:     "missing local branch",
			output:   "error: src refspec feature does not match any",
			expected: FailureNoUpstream,
		},
		{
			name:     "empty output",
			output:   "",
			expected: FailureUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyFailure(tt.output))
		})
	}
}

func TestFailureKind_StringAndHint(t *testing.T) {
	assert.Equal(t, "non_fast_forward", FailureNonFastForward.String())
	assert.Equal(t, "unknown", FailureKind(99).String())
	assert.NotEmpty(t, FailureAuth.Hint())
	assert.Empty(t, FailureUnknown.Hint())
	assert.Empty(t, FailureNone.Hint())
}
