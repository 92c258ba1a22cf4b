// Package workflow runs the sync sequence: abort an unresolved merge, fetch,
// rebase onto the remote branch and push.
package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	syncerrors "github.com/penwyp/syncpush/internal/errors"
	"github.com/penwyp/syncpush/internal/git"
	"go.uber.org/zap"
)

// Progress messages. They are the user-visible contract of a run.
const (
	MsgAborting  = "Merge in progress, aborting..."
	MsgAborted   = "Merge aborted"
	MsgFetching  = "Fetching..."
	MsgRebasing  = "Rebasing..."
	MsgPushing   = "Pushing..."
	msgPushResFm = "Push result: %d"
	msgHaltFm    = "Stopping: %s failed with status %d"
)

// Orchestrator runs the workflow against one repository through a git.Runner.
type Orchestrator struct {
	opts     Options
	runner   git.Runner
	reporter Reporter
	log      *zap.Logger
}

// New returns a configured Orchestrator. A nil reporter discards progress and
// a nil logger is replaced by a no-op logger.
func New(opts Options, runner git.Runner, reporter Reporter, logger *zap.Logger) *Orchestrator {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{opts: opts.withDefaults(), runner: runner, reporter: reporter, log: logger}
}

// CheckRepoPath verifies that path exists and is a directory and returns its
// absolute form. It never invokes git.
func CheckRepoPath(path string) (string, error) {
	if path == "" {
		path = DefaultRepo
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", syncerrors.ErrRepoAccess.WithCause(err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", syncerrors.ErrRepoNotFound.WithCause(err).
				WithSuggestion("pass --repo <path> or set SYNCPUSH_REPO")
		}
		return "", syncerrors.ErrRepoAccess.WithCause(err)
	}
	if !info.IsDir() {
		return "", syncerrors.ErrRepoNotDir.WithCause(fmt.Errorf("%s is a file", abs))
	}
	return abs, nil
}

type plannedStep struct {
	step    Step
	message string
	args    []string
}

// Run executes the workflow. Non-zero git statuses are not errors: they are
// recorded in Result. An error is returned only when the repository path is
// unusable, the merge marker cannot be checked, or ctx ends.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	res := Result{PushStatus: NoStatus}

	if o.runner == nil {
		return res, syncerrors.ErrNoGitRunner
	}

	repo, err := CheckRepoPath(o.opts.RepoPath)
	if err != nil {
		return res, err
	}
	res.RepoPath = repo

	o.log.Debug("Starting sync",
		zap.String("repo", repo),
		zap.String("remote", o.opts.Remote),
		zap.String("branch", o.opts.Branch),
		zap.String("policy", string(o.opts.Policy)))

	inProgress, err := git.MergeInProgress(repo)
	if err != nil {
		return res, syncerrors.ErrRepoAccess.WithCause(err)
	}

	var plan []plannedStep
	if inProgress {
		plan = append(plan, plannedStep{StepAbort, MsgAborting, []string{"merge", "--abort"}})
	}
	plan = append(plan,
		plannedStep{StepFetch, MsgFetching, []string{"fetch", o.opts.Remote}},
		plannedStep{StepRebase, MsgRebasing, []string{"rebase", o.opts.Remote + "/" + o.opts.Branch}},
		plannedStep{StepPush, MsgPushing, []string{"push", o.opts.Remote, o.opts.Branch}},
	)

	for i, p := range plan {
		o.reporter.Report(Event{Kind: EventStepStarted, Step: p.step, Message: p.message})

		out, err := o.runner.Run(ctx, repo, p.args...)
		if err != nil {
			return res, fmt.Errorf("%s: %w", p.step, err)
		}

		res.Steps = append(res.Steps, StepResult{
			Step:     p.step,
			Args:     p.args,
			ExitCode: out.ExitCode,
			Output:   out.Output,
		})
		o.log.Debug("Step finished", zap.String("step", string(p.step)), zap.Int("exit_code", out.ExitCode))

		finished := Event{Kind: EventStepFinished, Step: p.step, ExitCode: out.ExitCode}
		if p.step == StepAbort {
			res.MergeAborted = true
			finished.Message = MsgAborted
		}
		o.reporter.Report(finished)

		if p.step == StepPush {
			res.PushStatus = out.ExitCode
			res.PushOutput = out.Output
			break
		}

		if out.ExitCode != 0 && o.opts.Policy == PolicyHalt {
			o.halt(&res, p.step, out.ExitCode, plan[i+1:])
			return res, nil
		}
		if out.ExitCode != 0 {
			o.log.Debug("Ignoring failed step", zap.String("step", string(p.step)), zap.Int("exit_code", out.ExitCode))
		}
	}

	o.reporter.Report(Event{
		Kind:     EventResult,
		Step:     StepPush,
		Message:  fmt.Sprintf(msgPushResFm, res.PushStatus),
		ExitCode: res.PushStatus,
	})
	return res, nil
}

func (o *Orchestrator) halt(res *Result, failed Step, status int, rest []plannedStep) {
	res.Halted = true
	res.HaltedAt = failed
	res.HaltedStatus = status
	for _, p := range rest {
		res.Steps = append(res.Steps, StepResult{Step: p.step, Args: p.args, ExitCode: NoStatus, Skipped: true})
	}
	o.log.Warn("Stopping after failed step", zap.String("step", string(failed)), zap.Int("exit_code", status))
	o.reporter.Report(Event{
		Kind:     EventHalted,
		Step:     failed,
		Message:  fmt.Sprintf(msgHaltFm, failed, status),
		ExitCode: status,
	})
}
