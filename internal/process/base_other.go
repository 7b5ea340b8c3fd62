//go:build !linux

package process

import "os/exec"

// configureSysProcAttr is a no-op outside Linux. Pdeathsig is a Linux-only
// kernel feature; on other platforms the deterministic Stop at shutdown is
// the only orphan protection.
func configureSysProcAttr(_ *exec.Cmd) {}
