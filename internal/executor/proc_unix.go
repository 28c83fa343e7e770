//go:build unix

package executor

import (
	"os/exec"
	"syscall"
)

// isolate starts the command in its own process group and makes cancellation
// kill the whole group, so children spawned by a shell die with it.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
