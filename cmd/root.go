package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/penwyp/syncpush/internal/config"
	syncerrors "github.com/penwyp/syncpush/internal/errors"
	"github.com/penwyp/syncpush/internal/git"
	"github.com/penwyp/syncpush/internal/logger"
	syncsignal "github.com/penwyp/syncpush/internal/signal"
	"github.com/penwyp/syncpush/internal/workflow"
	"github.com/penwyp/syncpush/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version holds the current version of syncpush
// This will be set at build time via ldflags
var version = "dev"

// GetVersionString returns a formatted version string
func GetVersionString() string {
	return fmt.Sprintf("syncpush version %s", version)
}

// 将关键依赖抽象为变量以便测试时注入 Mock。
// 若在运行时未被替换，则使用默认实现。
var (
	runnerProvider func(opts runnerOptions) git.Runner        = defaultRunnerProvider
	programOptions func(cmd *cobra.Command) []tea.ProgramOption = defaultProgramOptions
	getenv         func(string) string                        = os.Getenv
)

// runnerOptions 描述需要哪种 git.Runner
type runnerOptions struct {
	dryRun bool
	output io.Writer // git 自身输出，nil 表示不转发
	input  *os.File  // 交给 git 的标准输入，nil 表示不交给 git
	logger *zap.Logger
}

// ---------------- 默认实现 ------------------
func defaultRunnerProvider(o runnerOptions) git.Runner {
	if o.dryRun {
		return git.NewDryRunRunner(o.logger)
	}
	return git.NewExecRunner(o.logger, o.output).WithStdin(o.input)
}

func defaultProgramOptions(cmd *cobra.Command) []tea.ProgramOption {
	return []tea.ProgramOption{tea.WithOutput(cmd.OutOrStdout())}
}

type rootFlags struct {
	repo          string
	remote        string
	branch        string
	onFailure     string
	configPath    string
	logFile       string
	timeout       int
	currentBranch bool
	verifyRemote  bool
	propagate     bool
	dryRun        bool
	tui           bool
	quiet         bool
	debug         bool
	version       bool
}

// newRootCmd 每次返回全新的命令树，避免 flag 状态在多次执行之间残留
func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "syncpush",
		Short: "Abort a stuck merge, fetch, rebase onto the remote branch and push",
		Long: `syncpush brings a local branch up to date with its remote and publishes it.

It runs, in order:
  git merge --abort          (only when a merge is in progress)
  git fetch <remote>
  git rebase <remote>/<branch>
  git push <remote> <branch>

and reports the exit status of the push.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, f)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.repo, "repo", "r", workflow.DefaultRepo, "repository root (env "+config.EnvRepo+")")
	pf.StringVar(&f.configPath, "config", "", "settings file (env "+config.EnvConfig+")")
	pf.BoolVar(&f.debug, "debug", false, "enable debug output for troubleshooting")
	pf.StringVar(&f.logFile, "log-file", "", "also write JSON logs to a rotating file")

	fl := cmd.Flags()
	fl.StringVar(&f.remote, "remote", workflow.DefaultRemote, "remote name (env "+config.EnvRemote+")")
	fl.StringVarP(&f.branch, "branch", "b", workflow.DefaultBranch, "branch name (env "+config.EnvBranch+")")
	fl.BoolVar(&f.currentBranch, "current-branch", false, "use the checked-out branch instead of --branch")
	fl.BoolVar(&f.verifyRemote, "verify-remote", false, "fail if the remote is not configured in the repository")
	fl.StringVar(&f.onFailure, "on-failure", string(workflow.PolicyContinue), "what to do when merge-abort, fetch or rebase fails: continue|halt (env "+config.EnvOnFailure+")")
	fl.BoolVar(&f.propagate, "propagate-status", false, "exit with the push status instead of 0")
	fl.BoolVar(&f.dryRun, "dry-run", false, "log git commands instead of running them")
	fl.IntVarP(&f.timeout, "timeout", "t", 0, "bound the whole run in seconds, 0 for none (env "+config.EnvTimeout+")")
	fl.BoolVar(&f.tui, "tui", false, "show an interactive progress view")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "do not stream git output")
	fl.BoolVar(&f.version, "version", false, "show version information")

	cmd.AddCommand(newStatusCmd(f), newConfigCmd(f))
	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the run, which
// kills the running git process.
func Execute() error {
	h := syncsignal.NewHandler(context.Background())
	defer h.Stop()

	err := ExecuteContext(h.Context())
	if h.WasInterrupted() && syncerrors.GetType(err) != syncerrors.ErrTypeInterrupted {
		return syncerrors.ErrInterrupted.WithCause(context.Canceled)
	}
	return err
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error { return newRootCmd().ExecuteContext(ctx) }

// newLogger 创建日志记录器，指定 --log-file 时同时写入滚动日志文件
func newLogger(f *rootFlags) (*zap.Logger, func(), error) {
	if f.logFile == "" {
		log, err := logger.New(f.debug)
		if err != nil {
			return nil, nil, err
		}
		return log, func() { _ = log.Sync() }, nil
	}
	log, closer, err := logger.NewWithFile(f.debug, f.logFile)
	if err != nil {
		return nil, nil, err
	}
	return log, func() {
		_ = log.Sync()
		_ = closer.Close()
	}, nil
}

// loadSettings 读取配置文件，文件不存在时返回空配置
func loadSettings(f *rootFlags) (*config.Settings, string, error) {
	path := f.configPath
	if path == "" {
		p, err := config.DefaultPath(getenv)
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	m, err := config.NewManager(path)
	if err != nil {
		return nil, "", err
	}
	s, err := config.LoadOrEmpty(m)
	if err != nil {
		return nil, "", err
	}
	return s, path, nil
}

// resolveSettings 按 flag > env > 配置文件 > 默认值 合并
// 同时返回实际使用的配置文件路径
func resolveSettings(cmd *cobra.Command, f *rootFlags) (config.Resolved, string, error) {
	settings, path, err := loadSettings(f)
	if err != nil {
		return config.Resolved{}, "", err
	}

	changed := cmd.Flags().Changed
	var o config.Overrides
	if changed("repo") {
		o.Repo = &f.repo
	}
	if changed("remote") {
		o.Remote = &f.remote
	}
	if changed("branch") {
		o.Branch = &f.branch
	}
	if changed("on-failure") {
		o.OnFailure = &f.onFailure
	}
	if changed("timeout") {
		o.Timeout = &f.timeout
	}
	if changed("quiet") {
		o.Quiet = &f.quiet
	}
	resolved, err := config.Resolve(settings, getenv, o)
	return resolved, path, err
}

func runSync(cmd *cobra.Command, f *rootFlags) error {
	if f.version {
		fmt.Fprintln(cmd.OutOrStdout(), GetVersionString())
		return nil
	}

	log, closeLog, err := newLogger(f)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closeLog()

	resolved, _, err := resolveSettings(cmd, f)
	if err != nil {
		return err
	}
	opts := resolved.Options

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if resolved.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, resolved.Timeout)
		defer cancel()
	}

	if f.currentBranch || f.verifyRemote {
		if opts, err = inspectRemote(ctx, f, opts, log); err != nil {
			return contextError(err, resolved)
		}
	}

	log.Debug("Resolved settings",
		zap.String("repo", opts.RepoPath),
		zap.String("remote", opts.Remote),
		zap.String("branch", opts.Branch),
		zap.String("policy", string(opts.Policy)),
		zap.Duration("timeout", resolved.Timeout),
		zap.Bool("dry_run", f.dryRun))

	var gitOut io.Writer
	if !resolved.Quiet && !f.tui {
		gitOut = cmd.ErrOrStderr()
	}
	// TUI 自己读取键盘输入，不能再交给 git
	var gitIn *os.File
	if !f.tui {
		gitIn, _ = cmd.InOrStdin().(*os.File)
	}
	runner := runnerProvider(runnerOptions{dryRun: f.dryRun, output: gitOut, input: gitIn, logger: log})

	var res workflow.Result
	if f.tui {
		res, err = runWithProgress(ctx, cmd, opts, runner, log)
	} else {
		reporter := workflow.MultiReporter{workflow.NewLineReporter(cmd.OutOrStdout()), workflow.NewLogReporter(log)}
		res, err = workflow.New(opts, runner, reporter, log).Run(ctx)
	}
	if err != nil {
		return contextError(err, resolved)
	}

	if res.Halted {
		if st, ok := res.Step(res.HaltedAt); ok {
			log.Debug("Run halted",
				zap.String("step", string(st.Step)),
				zap.Int("exit_code", st.ExitCode),
				zap.String("output", st.Output))
		}
	}

	if res.PushStatus > 0 && !resolved.Quiet {
		kind := git.ClassifyFailure(res.PushOutput)
		log.Debug("Push failed", zap.Int("exit_code", res.PushStatus), zap.String("kind", kind.String()))
		if hint := kind.Hint(); hint != "" {
			fmt.Fprint(cmd.ErrOrStderr(), (&syncerrors.ErrorHandler{Debug: f.debug}).FormatHint(hint))
		}
	}

	if f.propagate {
		if code := res.ExitStatus(); code != 0 {
			return &syncerrors.ExitStatus{Code: code}
		}
	}
	return nil
}

// inspectRemote 处理 --current-branch 与 --verify-remote，只做只读查询
func inspectRemote(ctx context.Context, f *rootFlags, opts workflow.Options, log *zap.Logger) (workflow.Options, error) {
	repo, err := workflow.CheckRepoPath(opts.RepoPath)
	if err != nil {
		return opts, err
	}
	runner := runnerProvider(runnerOptions{logger: log})
	rm := git.NewRemoteManager(runner, repo)

	if f.currentBranch {
		branch, err := rm.GetCurrentBranch(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return opts, ctxErr
			}
			suggestion := "check out a branch or pass --branch"
			// 旧版本 git 没有 branch --show-current
			if v, vErr := git.GitVersion(ctx, runner, repo); vErr == nil && !v.AtLeast(git.MinCurrentBranchVersion) {
				suggestion = fmt.Sprintf("git %s is older than %s: upgrade git or pass --branch", v, git.MinCurrentBranchVersion)
			}
			return opts, syncerrors.Wrap(syncerrors.ErrTypeGit, "cannot determine the current branch", err).
				WithSuggestion(suggestion)
		}
		log.Debug("Using current branch", zap.String("branch", branch))
		opts.Branch = branch
	}

	if f.verifyRemote {
		remotes, err := rm.GetRemotes(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return opts, ctxErr
			}
			return opts, syncerrors.Wrap(syncerrors.ErrTypeGit, "cannot list remotes", err)
		}
		if _, err := rm.SelectRemote(remotes, opts.Remote); err != nil {
			return opts, syncerrors.ErrRemoteMissing.WithCause(err).
				WithSuggestion(fmt.Sprintf("add it with: git -C %s remote add %s <url>", repo, opts.Remote))
		}
	}
	return opts, nil
}

func runWithProgress(ctx context.Context, cmd *cobra.Command, opts workflow.Options, runner git.Runner, log *zap.Logger) (workflow.Result, error) {
	model := ui.NewProgressModel(ctx, func(ctx context.Context, r workflow.Reporter) (workflow.Result, error) {
		return workflow.New(opts, runner, workflow.MultiReporter{r, workflow.NewLogReporter(log)}, log).Run(ctx)
	})

	final, err := tea.NewProgram(model, programOptions(cmd)...).Run()
	if err != nil {
		return workflow.Result{PushStatus: workflow.NoStatus}, fmt.Errorf("progress view failed: %w", err)
	}
	m, ok := final.(*ui.ProgressModel)
	if !ok {
		return workflow.Result{PushStatus: workflow.NoStatus}, fmt.Errorf("unexpected model type %T", final)
	}
	return m.IsDone()
}

// contextError 把超时和中断转换为带退出码的错误，其余错误原样返回
func contextError(err error, resolved config.Resolved) error {
	if errors.Is(err, context.Canceled) {
		return syncerrors.ErrInterrupted.WithCause(err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return syncerrors.Wrap(syncerrors.ErrTypeTimeout, fmt.Sprintf("run did not finish within %s", resolved.Timeout), err).
		WithSuggestion("raise --timeout or pass --timeout 0 to wait indefinitely")
}
