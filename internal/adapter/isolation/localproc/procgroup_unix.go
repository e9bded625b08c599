//go:build unix

package localproc

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the command in its own process group so that
// cancellation kills every descendant, not only the direct child.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
