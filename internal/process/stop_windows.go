//go:build windows

package process

import (
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// stopWithDone terminates the process on Windows, where no graceful signal
// exists: TerminateProcess via cmd.Process.Kill, then a bounded drain of the
// pre-existing cmd.Wait channel. The timeout caps the drain.
//
// The caller clears cmd and the channel references after this returns.
func stopWithDone(cmd *exec.Cmd, done <-chan error, timeout time.Duration, name string) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if done == nil {
		return fmt.Errorf("%s: done channel must not be nil", name)
	}

	if err := cmd.Process.Kill(); err != nil {
		// Kill on an already-finished process fails; the wait goroutine
		// then has the exit status ready.
		ok, waitErr := drainDone(done, killDrainTimeout)
		if !ok {
			return fmt.Errorf("%s: timed out draining process after kill failure", name)
		}
		return expectSignalExit(waitErr, name)
	}

	ok, waitErr := drainDone(done, min(timeout, killDrainTimeout))
	if !ok {
		return fmt.Errorf("%s: timed out waiting for process to exit after kill", name)
	}
	return expectSignalExit(waitErr, name)
}

// expectSignalExit interprets a cmd.Wait error after we killed the process.
// Any plain exit-status error is the expected outcome of TerminateProcess
// and counts as a successful stop.
func expectSignalExit(err error, name string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}
