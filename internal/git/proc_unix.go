//go:build unix

package git

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts git in its own process group so credential helpers
// and ssh children are terminated together with it.
//
// 交互模式下不分组：git 必须留在终端的前台进程组，否则读取 /dev/tty
// 时会收到 SIGTTIN 而被挂起。Ctrl+C 会直接送达同组的 git。
func setProcessGroup(cmd *exec.Cmd, interactive bool) {
	if cmd == nil || interactive {
		return
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

func terminateProcessGroup(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	// 未分组时 pgid 是我们自己的进程组，只能结束 git 本身
	if cmd.SysProcAttr == nil || !cmd.SysProcAttr.Setpgid {
		_ = cmd.Process.Kill()
		return
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		_ = cmd.Process.Kill()
		return
	}
	_ = syscall.Kill(-pgid, syscall.SIGKILL)
}
