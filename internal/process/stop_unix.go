//go:build !windows

package process

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// termGracePeriod is how long a process gets to exit after SIGTERM before
// SIGKILL. Clamped to the caller's overall timeout.
const termGracePeriod = 5 * time.Second

// stopWithDone runs the SIGTERM-then-SIGKILL shutdown sequence against a
// pre-existing done channel whose goroutine already called cmd.Wait. Reusing
// that channel keeps the exactly-one-Wait invariant.
//
// Flow: SIGTERM, schedule SIGKILL via time.AfterFunc after the grace period
// (cancelled if the process exits first), then wait for exit or the total
// timeout. Worst-case blocking is timeout + killDrainTimeout when both the
// total timer and the post-kill drain run to their limits.
//
// The caller clears cmd and the channel references after this returns.
func stopWithDone(cmd *exec.Cmd, done <-chan error, timeout time.Duration, name string) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if done == nil {
		return fmt.Errorf("%s: done channel must not be nil", name)
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Signal failed: the process already exited. Drain the wait
		// goroutine with a bounded wait.
		ok, waitErr := drainDone(done, killDrainTimeout)
		if !ok {
			return fmt.Errorf("%s: timed out draining process after signal failure", name)
		}
		return expectSignalExit(waitErr, name)
	}

	// grace is clamped to timeout so the kill always fires while the total
	// timer still runs, leaving drainDone a window to collect the exit.
	grace := min(termGracePeriod, timeout)
	killTimer := time.AfterFunc(grace, func() {
		// Kill after the process already exited returns "process already
		// finished", which is harmless and discarded.
		_ = cmd.Process.Kill()
	})
	defer killTimer.Stop()

	totalTimer := time.NewTimer(timeout)
	defer totalTimer.Stop()

	select {
	case err := <-done:
		return expectSignalExit(err, name)
	case <-totalTimer.C:
		ok, waitErr := drainDone(done, killDrainTimeout)
		if !ok {
			return fmt.Errorf("%s: timed out waiting for process to exit after SIGKILL", name)
		}
		if err := expectSignalExit(waitErr, name); err != nil {
			return fmt.Errorf("%s stop timeout: %w", name, err)
		}
		return nil
	}
}

// expectSignalExit interprets a cmd.Wait error after we sent a termination
// signal. Exits caused by SIGTERM or SIGKILL are successful stops.
func expectSignalExit(err error, name string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			sig := status.Signal()
			if sig == syscall.SIGTERM || sig == syscall.SIGKILL {
				return nil
			}
		}
	}
	return fmt.Errorf("%s: %w", name, err)
}
