//go:build linux

package e2e

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// openPty 打开一对伪终端
func openPty(t *testing.T) (master, slave *os.File) {
	t.Helper()
	master, err := os.OpenFile("/dev/ptmx", os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		t.Skipf("pseudo terminals not available: %v", err)
	}
	t.Cleanup(func() { _ = master.Close() })

	fd := int(master.Fd())
	require.NoError(t, unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0))
	n, err := unix.IoctlGetInt(fd, unix.TIOCGPTN)
	require.NoError(t, err)

	slave, err = os.OpenFile("/dev/pts/"+strconv.Itoa(n), os.O_RDWR|syscall.O_NOCTTY, 0)
	require.NoError(t, err)
	return master, slave
}

// startInTerminal 在新会话中启动 syncpush，伪终端作为它的控制终端
func (h *TestHelper) startInTerminal(dir string, args []string, env map[string]string) (*Running, *os.File) {
	h.t.Helper()
	master, slave := openPty(h.t)

	cmd := h.command(dir, args, env)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = slave, slave, slave
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true, Ctty: 0}

	run := &Running{Cmd: cmd, Output: &syncBuffer{}, done: make(chan struct{})}
	require.NoError(h.t, cmd.Start())
	_ = slave.Close()
	run.watch()
	go func() { _, _ = io.Copy(run.Output, master) }()

	h.t.Cleanup(func() {
		if !run.Exited() {
			_ = cmd.Process.Kill()
			<-run.done
		}
	})
	return run, master
}

func TestE2E_GitCanPromptOnTerminal(t *testing.T) {
	h := NewTestHelper(t)
	f := h.CreateFixture()
	mockDir := h.CreateMockGit(map[string]MockCommand{
		"*push*": {Script: `printf 'Username: ' >/dev/tty; read u </dev/tty; echo "got $u" >/dev/tty`},
	})
	env := map[string]string{"PATH": mockDir + string(os.PathListSeparator) + os.Getenv("PATH")}

	run, term := h.startInTerminal(f.Work, []string{"-r", f.Work}, env)
	require.True(t, run.WaitForOutput("Username:", 10*time.Second), run.Output.String())

	_, err := term.Write([]byte("alice\n"))
	require.NoError(t, err)

	code, exited := run.WaitExit(10 * time.Second)
	require.True(t, exited, "git was stopped while reading the terminal: %s", run.Output.String())
	assert.Equal(t, 0, code)
	assert.True(t, run.WaitForOutput("Push result: 0", 2*time.Second), run.Output.String())
	assert.Contains(t, run.Output.String(), "got alice")
}

func TestE2E_CtrlCOnTerminalStopsGit(t *testing.T) {
	h := NewTestHelper(t)
	f := h.CreateFixture()
	marker := filepath.Join(t.TempDir(), "fetch_completed")
	mockDir := h.CreateMockGit(map[string]MockCommand{
		"*fetch*": {Script: "sleep 3; touch '" + marker + "'"},
	})
	env := map[string]string{"PATH": mockDir + string(os.PathListSeparator) + os.Getenv("PATH")}

	run, term := h.startInTerminal(f.Work, []string{"-r", f.Work}, env)
	require.True(t, run.WaitForOutput("Fetching...", 10*time.Second), run.Output.String())

	// ^C 由终端转换为发给前台进程组的 SIGINT
	_, err := term.Write([]byte{0x03})
	require.NoError(t, err)

	code, exited := run.WaitExit(5 * time.Second)
	require.True(t, exited, "syncpush did not exit after Ctrl+C")
	assert.Equal(t, 130, code)

	time.Sleep(4 * time.Second)
	assert.NoFileExists(t, marker)
}
