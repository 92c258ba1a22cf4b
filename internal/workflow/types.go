package workflow

import (
	"fmt"
	"strings"

	syncerrors "github.com/penwyp/syncpush/internal/errors"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultRemote = "origin"
	DefaultBranch = "main"
	DefaultRepo   = "."
)

// NoStatus is reported as PushStatus when push never ran.
const NoStatus = -1

// Step names one git invocation of the workflow.
type Step string

const (
	StepAbort  Step = "merge-abort"
	StepFetch  Step = "fetch"
	StepRebase Step = "rebase"
	StepPush   Step = "push"
)

// FailurePolicy decides what happens when an intermediate step exits non-zero.
type FailurePolicy string

const (
	// PolicyContinue never stops the sequence; only the push status is reported.
	PolicyContinue FailurePolicy = "continue"
	// PolicyHalt stops at the first failed abort, fetch or rebase and skips the rest.
	PolicyHalt FailurePolicy = "halt"
)

// ParsePolicy parses a policy name. The empty string selects PolicyContinue.
func ParsePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyContinue:
		return PolicyContinue, nil
	case PolicyHalt:
		return PolicyHalt, nil
	default:
		return "", syncerrors.ErrInvalidPolicy.
			WithCause(fmt.Errorf("%q is not one of %s, %s", s, PolicyContinue, PolicyHalt)).
			WithSuggestion("use --on-failure continue or --on-failure halt")
	}
}

// Options configures a workflow run.
type Options struct {
	RepoPath string
	Remote   string
	Branch   string
	Policy   FailurePolicy
}

func (o Options) withDefaults() Options {
	if o.RepoPath == "" {
		o.RepoPath = DefaultRepo
	}
	if o.Remote == "" {
		o.Remote = DefaultRemote
	}
	if o.Branch == "" {
		o.Branch = DefaultBranch
	}
	if o.Policy == "" {
		o.Policy = PolicyContinue
	}
	return o
}

// StepResult records the outcome of one step.
type StepResult struct {
	Step     Step
	Args     []string
	ExitCode int
	Output   string
	Skipped  bool
}

// Result is the outcome of a run. PushStatus equals the exit code returned by
// the push invocation, or NoStatus when push did not run.
type Result struct {
	RepoPath     string
	Steps        []StepResult
	MergeAborted bool
	PushStatus   int
	PushOutput   string
	Halted       bool
	HaltedAt     Step
	HaltedStatus int
}

// Step returns the result for the given step, if it was recorded.
func (r Result) Step(step Step) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Step == step {
			return s, true
		}
	}
	return StepResult{}, false
}

// ExitStatus is the status a caller should propagate: the push status, or the
// status of the step that halted the run.
func (r Result) ExitStatus() int {
	if r.Halted {
		return r.HaltedStatus
	}
	if r.PushStatus == NoStatus {
		return 0
	}
	return r.PushStatus
}
