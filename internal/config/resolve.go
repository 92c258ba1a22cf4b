package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	syncerrors "github.com/penwyp/syncpush/internal/errors"
	"github.com/penwyp/syncpush/internal/workflow"
)

// Environment variables read by Resolve.
const (
	EnvRepo      = "SYNCPUSH_REPO"
	EnvRemote    = "SYNCPUSH_REMOTE"
	EnvBranch    = "SYNCPUSH_BRANCH"
	EnvOnFailure = "SYNCPUSH_ON_FAILURE"
	EnvTimeout   = "SYNCPUSH_TIMEOUT"
	EnvConfig    = "SYNCPUSH_CONFIG"
)

// Overrides holds values given explicitly on the command line. A nil field
// was not given.
type Overrides struct {
	Repo      *string
	Remote    *string
	Branch    *string
	OnFailure *string
	Timeout   *int
	Quiet     *bool
}

// Resolved is the effective configuration of a run.
type Resolved struct {
	Options workflow.Options
	Timeout time.Duration
	Quiet   bool
}

// Resolve merges flags, environment, settings file and defaults, in that
// order of precedence, and validates the result.
func Resolve(settings *Settings, getenv func(string) string, o Overrides) (Resolved, error) {
	if settings == nil {
		settings = &Settings{}
	}
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	pick := func(flag *string, env, file, def string) string {
		if flag != nil {
			return strings.TrimSpace(*flag)
		}
		if v := strings.TrimSpace(getenv(env)); v != "" {
			return v
		}
		if v := strings.TrimSpace(file); v != "" {
			return v
		}
		return def
	}

	var r Resolved
	r.Options.RepoPath = pick(o.Repo, EnvRepo, settings.Repo, workflow.DefaultRepo)
	r.Options.Remote = pick(o.Remote, EnvRemote, settings.Remote, workflow.DefaultRemote)
	r.Options.Branch = pick(o.Branch, EnvBranch, settings.Branch, workflow.DefaultBranch)

	for _, f := range []struct{ name, value string }{
		{"repo", r.Options.RepoPath},
		{"remote", r.Options.Remote},
		{"branch", r.Options.Branch},
	} {
		if err := validateName(f.name, f.value); err != nil {
			return Resolved{}, err
		}
	}

	policy, err := workflow.ParsePolicy(pick(o.OnFailure, EnvOnFailure, settings.OnFailure, string(workflow.PolicyContinue)))
	if err != nil {
		return Resolved{}, err
	}
	r.Options.Policy = policy

	seconds := settings.Timeout
	if v := strings.TrimSpace(getenv(EnvTimeout)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Resolved{}, syncerrors.Newf(syncerrors.ErrTypeValidation, "invalid %s value %q", EnvTimeout, v).
				WithSuggestion("use a whole number of seconds")
		}
		seconds = n
	}
	if o.Timeout != nil {
		seconds = *o.Timeout
	}
	if seconds < 0 {
		return Resolved{}, syncerrors.Newf(syncerrors.ErrTypeValidation, "timeout must not be negative, got %d", seconds)
	}
	r.Timeout = time.Duration(seconds) * time.Second

	r.Quiet = settings.Quiet
	if o.Quiet != nil {
		r.Quiet = *o.Quiet
	}
	return r, nil
}

// validateName rejects values git would read as an option or that are empty.
func validateName(name, v string) error {
	if v == "" {
		return syncerrors.ErrEmptyValue.WithCause(fmt.Errorf("%s", name))
	}
	if name != "repo" && strings.HasPrefix(v, "-") {
		return syncerrors.Newf(syncerrors.ErrTypeValidation, "%s %q must not start with '-'", name, v)
	}
	return nil
}
