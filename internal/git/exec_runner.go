package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// WaitDelay bounds how long Run waits for git's output pipes after git was
// killed. ssh or credential helper grandchildren may keep them open.
const WaitDelay = 2 * time.Second

// ExecRunner shells out to the system git binary. Every invocation is
// prefixed with `-C <repo>` so the process working directory is never changed.
type ExecRunner struct {
	// Git is the git binary to execute. Defaults to "git" when empty.
	Git string

	// Output, if set, receives git's combined stdout/stderr as it is produced.
	Output io.Writer

	// Stdin is handed to git unchanged so it can prompt for credentials.
	Stdin *os.File

	// Interactive keeps git in the terminal's foreground process group.
	// Set by WithStdin when Stdin is a terminal.
	Interactive bool

	logger *zap.Logger
}

// NewExecRunner returns a Runner backed by system git commands.
func NewExecRunner(logger *zap.Logger, output io.Writer) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{Output: output, logger: logger}
}

// WithStdin 设置 git 的标准输入，并在其为终端时切换到交互模式
func (r *ExecRunner) WithStdin(f *os.File) *ExecRunner {
	r.Stdin = f
	r.Interactive = f != nil && isTerminal(f)
	return r
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (r *ExecRunner) gitBinary() string {
	if r.Git == "" {
		return "git"
	}
	return r.Git
}

// command 构造 git 进程，不启动
func (r *ExecRunner) command(ctx context.Context, repo string, args []string) *exec.Cmd {
	full := append([]string{"-C", repo}, args...)
	cmd := exec.CommandContext(ctx, r.gitBinary(), full...) //#nosec G204 -- args are built by the orchestrator
	setProcessGroup(cmd, r.Interactive)
	cmd.Cancel = func() error {
		terminateProcessGroup(cmd)
		return nil
	}
	cmd.WaitDelay = WaitDelay
	if r.Stdin != nil {
		cmd.Stdin = r.Stdin
	}
	return cmd
}

// Run executes git in repo. A non-zero exit status is returned in Result and
// is not an error; a binary that cannot be started yields ExitCodeNotRunnable.
// An error is returned only when ctx ended before git finished.
func (r *ExecRunner) Run(ctx context.Context, repo string, args ...string) (Result, error) {
	cmd := r.command(ctx, repo, args)

	var buf bytes.Buffer
	var w io.Writer = &buf
	if r.Output != nil {
		w = io.MultiWriter(&buf, r.Output)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	r.logger.Debug("Running git command",
		zap.String("repo", repo),
		zap.Strings("args", args),
		zap.Bool("interactive", r.Interactive))

	err := cmd.Run()
	res := Result{Args: args, Output: buf.String()}

	if err != nil {
		// git 正常结束时保留真实退出码，即便 ctx 恰好随后到期
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}

		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			res.ExitCode = exitErr.ExitCode()
		case cmd.ProcessState != nil:
			// git 已退出，但子进程仍占着输出管道（exec.ErrWaitDelay）
			res.ExitCode = cmd.ProcessState.ExitCode()
		default:
			// 无法启动 git（未安装或不可执行）
			res.ExitCode = ExitCodeNotRunnable
			res.Output = strings.TrimSpace(res.Output + "\n" + err.Error())
		}
	}

	r.logger.Debug("Git command finished",
		zap.Strings("args", args),
		zap.Int("exit_code", res.ExitCode),
		zap.Int("output_length", len(res.Output)))

	return res, nil
}
