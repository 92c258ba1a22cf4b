package git

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected Version
		wantErr  bool
	}{
		{name: "linux", output: "git version 2.43.0\n", expected: Version{2, 43, 0}},
		{name: "apple", output: "git version 2.39.2 (Apple Git-143)", expected: Version{2, 39, 2}},
		{name: "windows", output: "git version 2.45.1.windows.1", expected: Version{2, 45, 1}},
		{name: "no patch", output: "git version 2.22", expected: Version{2, 22, 0}},
		{name: "empty", output: "", wantErr: true},
		{name: "garbage", output: "git version unknown", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVersion(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestVersion_AtLeast(t *testing.T) {
	tests := []struct {
		v        Version
		expected bool
	}{
		{Version{2, 22, 0}, true},
		{Version{2, 21, 9}, false},
		{Version{3, 0, 0}, true},
		{Version{1, 99, 99}, false},
		{Version{2, 22, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.v.AtLeast(MinCurrentBranchVersion))
		})
	}
}

func TestGitVersion(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "/repo", []string{"version"}).
		Return(Result{Output: "git version 2.20.1\n"}, nil).Once()

	v, err := GitVersion(context.Background(), runner, "/repo")
	require.NoError(t, err)
	assert.False(t, v.AtLeast(MinCurrentBranchVersion))
	runner.AssertExpectations(t)
}

func TestGitVersion_NotRunnable(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "/repo", []string{"version"}).
		Return(Result{ExitCode: ExitCodeNotRunnable}, nil).Once()

	_, err := GitVersion(context.Background(), runner, "/repo")
	assert.Error(t, err)
}
