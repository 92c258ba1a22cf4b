package e2e

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestHelper provides utilities for E2E tests
type TestHelper struct {
	t       *testing.T
	binPath string
	config  string
}

// NewTestHelper builds the binary and skips the test when git is unavailable
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	return &TestHelper{
		t:       t,
		binPath: buildBinary(t),
		config:  filepath.Join(t.TempDir(), "absent.yaml"),
	}
}

// buildBinary 构建 syncpush 可执行文件并返回路径。
func buildBinary(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "syncpush-bin")
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}

	cmd := exec.Command("go", "build", "-o", binPath, "github.com/penwyp/syncpush")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v, output: %s", err, string(out))
	}
	return binPath
}

// Fixture is a working clone with a bare remote named origin
type Fixture struct {
	Work   string
	Remote string
}

// CreateFixture creates a bare remote and a working repository on branch
// main that has pushed one commit to it
func (h *TestHelper) CreateFixture() Fixture {
	f := Fixture{Work: h.t.TempDir(), Remote: h.t.TempDir()}

	h.Git(f.Remote, "init", "--bare")
	h.Git(f.Remote, "symbolic-ref", "HEAD", "refs/heads/main")

	h.Git(f.Work, "init")
	h.Git(f.Work, "symbolic-ref", "HEAD", "refs/heads/main")
	h.Git(f.Work, "config", "user.email", "test@example.com")
	h.Git(f.Work, "config", "user.name", "Test User")
	h.Commit(f.Work, "README.md", "# Test Repository\n", "chore: initial commit")
	h.Git(f.Work, "remote", "add", "origin", f.Remote)
	h.Git(f.Work, "push", "origin", "main")
	return f
}

// Git executes a git command in dir and fails the test on error
func (h *TestHelper) Git(dir string, args ...string) string {
	h.t.Helper()
	out, err := h.TryGit(dir, args...)
	if err != nil {
		h.t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
	return out
}

// TryGit executes a git command in dir and returns its error
func (h *TestHelper) TryGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Commit writes a file and commits it
func (h *TestHelper) Commit(dir, filename, content, message string) {
	h.t.Helper()
	require.NoError(h.t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644))
	h.Git(dir, "add", filename)
	h.Git(dir, "commit", "-m", message)
}

// Head returns the commit hash of rev in dir
func (h *TestHelper) Head(dir, rev string) string {
	return h.Git(dir, "rev-parse", rev)
}

// RunResult captures one syncpush invocation
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunSyncpush executes the binary from dir with the given arguments and
// extra environment
func (h *TestHelper) RunSyncpush(dir string, args []string, env map[string]string) RunResult {
	h.t.Helper()
	cmd := h.command(dir, args, env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := RunResult{}
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case err != nil:
		h.t.Fatalf("failed to run syncpush: %v", err)
	}
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res
}

// command 构造 syncpush 进程，不启动
func (h *TestHelper) command(dir string, args []string, env map[string]string) *exec.Cmd {
	cmd := exec.Command(h.binPath, args...)
	cmd.Dir = dir

	cmdEnv := append(os.Environ(),
		"SYNCPUSH_CONFIG="+h.config,
		"GIT_TERMINAL_PROMPT=0",
	)
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cmdEnv = append(cmdEnv, fmt.Sprintf("%s=%s", k, env[k]))
	}
	cmd.Env = cmdEnv
	return cmd
}

// syncBuffer 可被子进程输出和测试并发读写
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Running is a syncpush process started in the background
type Running struct {
	Cmd    *exec.Cmd
	Output *syncBuffer
	done   chan struct{}
	err    error
}

// StartSyncpush starts the binary without waiting for it. Stdout and stderr
// are collected together.
func (h *TestHelper) StartSyncpush(dir string, args []string, env map[string]string) *Running {
	h.t.Helper()
	r := &Running{Cmd: h.command(dir, args, env), Output: &syncBuffer{}, done: make(chan struct{})}
	r.Cmd.Stdout = r.Output
	r.Cmd.Stderr = r.Output
	require.NoError(h.t, r.Cmd.Start())
	r.watch()
	h.t.Cleanup(func() {
		if !r.Exited() {
			_ = r.Cmd.Process.Kill()
			<-r.done
		}
	})
	return r
}

func (r *Running) watch() {
	go func() {
		r.err = r.Cmd.Wait()
		close(r.done)
	}()
}

// Exited reports whether the process has finished
func (r *Running) Exited() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// WaitForOutput polls until the collected output contains text
func (r *Running) WaitForOutput(text string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(r.Output.String(), text) {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

// WaitExit waits for the process and returns its exit code, or false when
// it is still running after timeout
func (r *Running) WaitExit(timeout time.Duration) (int, bool) {
	select {
	case <-r.done:
	case <-time.After(timeout):
		return 0, false
	}
	var exitErr *exec.ExitError
	if errors.As(r.err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, true
}

// MockCommand represents a mocked git response
type MockCommand struct {
	Output   string
	Error    string
	ExitCode int
	// Script, if set, is inserted as shell code before exit
	Script string
}

// CreateMockGit writes a bash script named git into a new directory and
// returns that directory, ready to be put first on PATH. Patterns are shell
// case patterns matched against all arguments.
func (h *TestHelper) CreateMockGit(commands map[string]MockCommand) string {
	h.t.Helper()
	if runtime.GOOS == "windows" {
		h.t.Skip("mock git requires bash")
	}
	dir := h.t.TempDir()

	patterns := make([]string, 0, len(commands))
	for p := range commands {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	var sb strings.Builder
	sb.WriteString("#!/bin/bash\nargs=\"$*\"\ncase \"$args\" in\n")
	for _, pattern := range patterns {
		cmd := commands[pattern]
		fmt.Fprintf(&sb, "  %s)\n", pattern)
		if cmd.Output != "" {
			fmt.Fprintf(&sb, "    echo '%s'\n", cmd.Output)
		}
		if cmd.Error != "" {
			fmt.Fprintf(&sb, "    echo '%s' >&2\n", cmd.Error)
		}
		if cmd.Script != "" {
			fmt.Fprintf(&sb, "    %s\n", cmd.Script)
		}
		fmt.Fprintf(&sb, "    exit %d\n    ;;\n", cmd.ExitCode)
	}
	sb.WriteString("  *)\n    exit 0\n    ;;\nesac\n")

	require.NoError(h.t, os.WriteFile(filepath.Join(dir, "git"), []byte(sb.String()), 0o755))
	return dir
}

// Lines splits output into lines without the trailing newline
func Lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
