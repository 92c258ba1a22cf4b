//go:build !unix

package git

import "os/exec"

func setProcessGroup(cmd *exec.Cmd, interactive bool) {}

func terminateProcessGroup(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
