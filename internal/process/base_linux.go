//go:build linux

package process

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr sets Linux-specific attributes on cmd. Pdeathsig
// delivers SIGTERM to the child when the launcher dies abruptly, so a
// crashed shell cannot leave a node server holding the port.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: syscall.SIGTERM,
	}
}
