package config

import (
	"testing"
	"time"

	syncerrors "github.com/penwyp/syncpush/internal/errors"
	"github.com/penwyp/syncpush/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestResolve_Defaults(t *testing.T) {
	r, err := Resolve(nil, nil, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, workflow.Options{
		RepoPath: ".",
		Remote:   "origin",
		Branch:   "main",
		Policy:   workflow.PolicyContinue,
	}, r.Options)
	assert.Zero(t, r.Timeout)
	assert.False(t, r.Quiet)
}

func TestResolve_Precedence(t *testing.T) {
	file := &Settings{Repo: "/file", Remote: "file-remote", Branch: "file-branch", OnFailure: "halt", Timeout: 10, Quiet: true}
	env := envMap(map[string]string{
		EnvRemote:  "env-remote",
		EnvBranch:  "env-branch",
		EnvTimeout: "20",
	})

	tests := []struct {
		name     string
		settings *Settings
		env      func(string) string
		o        Overrides
		check    func(t *testing.T, r Resolved)
	}{
		{
			name:     "file over defaults",
			settings: file,
			check: func(t *testing.T, r Resolved) {
				assert.Equal(t, "/file", r.Options.RepoPath)
				assert.Equal(t, "file-remote", r.Options.Remote)
				assert.Equal(t, workflow.PolicyHalt, r.Options.Policy)
				assert.Equal(t, 10*time.Second, r.Timeout)
				assert.True(t, r.Quiet)
			},
		},
		{
			name:     "env over file",
			settings: file,
			env:      env,
			check: func(t *testing.T, r Resolved) {
				assert.Equal(t, "/file", r.Options.RepoPath)
				assert.Equal(t, "env-remote", r.Options.Remote)
				assert.Equal(t, "env-branch", r.Options.Branch)
				assert.Equal(t, 20*time.Second, r.Timeout)
			},
		},
		{
			name:     "flag over env",
			settings: file,
			env:      env,
			o: Overrides{
				Remote:    strPtr("flag-remote"),
				OnFailure: strPtr("continue"),
				Timeout:   intPtr(0),
				Quiet:     boolPtr(false),
			},
			check: func(t *testing.T, r Resolved) {
				assert.Equal(t, "flag-remote", r.Options.Remote)
				assert.Equal(t, "env-branch", r.Options.Branch)
				assert.Equal(t, workflow.PolicyContinue, r.Options.Policy)
				assert.Zero(t, r.Timeout)
				assert.False(t, r.Quiet)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Resolve(tt.settings, tt.env, tt.o)
			require.NoError(t, err)
			tt.check(t, r)
		})
	}
}

func TestResolve_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		o      Overrides
		target error
	}{
		{name: "empty remote flag", o: Overrides{Remote: strPtr("  ")}, target: syncerrors.ErrEmptyValue},
		{name: "empty branch flag", o: Overrides{Branch: strPtr("")}, target: syncerrors.ErrEmptyValue},
		{name: "invalid policy", env: map[string]string{EnvOnFailure: "retry"}, target: syncerrors.ErrInvalidPolicy},
		{name: "option-like branch", o: Overrides{Branch: strPtr("--force")}},
		{name: "bad env timeout", env: map[string]string{EnvTimeout: "soon"}},
		{name: "negative timeout", o: Overrides{Timeout: intPtr(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(nil, envMap(tt.env), tt.o)
			require.Error(t, err)
			assert.Equal(t, syncerrors.ErrTypeValidation, syncerrors.GetType(err))
			if tt.target != nil {
				assert.True(t, syncerrors.Is(err, tt.target))
			}
		})
	}
}
