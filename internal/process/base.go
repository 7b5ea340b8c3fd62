package process

import (
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"missionctl/internal/sentinel"
)

// ErrAlreadyStarted is returned when SetupAndStart is called on a process
// that is already running. Stop it first.
const ErrAlreadyStarted = sentinel.Error("process already started")

// ErrNilCmd is returned when SetupAndStart is called with a nil *exec.Cmd.
const ErrNilCmd = sentinel.Error("cmd must not be nil")

// ErrEmptyCmdPath is returned when SetupAndStart is called with an empty cmd.Path.
const ErrEmptyCmdPath = sentinel.Error("cmd.Path must not be empty")

// ErrEmptyLogDir is returned when SetupAndStart is called with an empty log directory.
const ErrEmptyLogDir = sentinel.Error("log directory must not be empty")

// BaseProcess provides common child-process lifecycle management. Embed it in
// a concrete supervisor type to reuse the start/stop/close machinery.
//
// BaseProcess is not safe for concurrent use. The launcher serializes all
// calls: SetupAndStart during startup, Stop and Close during shutdown.
type BaseProcess struct {
	cmd         *exec.Cmd
	waitDone    <-chan error    // receives the cmd.Wait result; consumed once by Stop
	exited      <-chan struct{} // closed when the process exits; safe for many readers
	logFiles    LogFiles
	name        string
	log         *slog.Logger
	stopTimeout time.Duration // used by Close's auto-stop; zero means DefaultStopTimeout
}

// NewBaseProcess creates a BaseProcess. stopTimeout bounds the auto-stop in
// Close when the caller forgot to Stop; zero falls back to
// DefaultStopTimeout. A nil logger falls back to slog.Default(). Panics on an
// empty name, which would make every later log line and error useless.
func NewBaseProcess(name string, logger *slog.Logger, stopTimeout time.Duration) BaseProcess {
	if name == "" {
		panic("missionctl: process name must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return BaseProcess{name: name, log: logger, stopTimeout: stopTimeout}
}

// Stop terminates the process, bounded by timeout. After Stop returns,
// IsStarted reports false whether or not the stop succeeded: the process is
// no longer in a known-running state either way. Safe to call when nothing
// was started; returns nil immediately then.
func (b *BaseProcess) Stop(timeout time.Duration) error {
	if b.cmd == nil || b.cmd.Process == nil {
		b.cmd = nil
		b.waitDone = nil
		b.exited = nil
		return nil
	}
	pid := b.cmd.Process.Pid
	err := stopWithDone(b.cmd, b.waitDone, timeout, b.name)
	if err != nil {
		b.log.Warn("process stop failed; process may be orphaned",
			"process", b.name, "pid", pid, "error", err)
	}
	b.cmd = nil
	b.waitDone = nil
	b.exited = nil
	return err
}

// Close closes the capture files. If the process is still running it is
// stopped first, with a warning: callers should Stop before Close, and the
// auto-stop is only a leak guard.
func (b *BaseProcess) Close() {
	if b.cmd != nil {
		b.log.Warn("process.Close called without Stop; stopping automatically",
			"process", b.name)
		timeout := b.stopTimeout
		if timeout <= 0 {
			timeout = DefaultStopTimeout
		}
		if err := b.Stop(timeout); err != nil {
			b.log.Warn("auto-stop during Close failed",
				"process", b.name, "error", err)
		}
	}
	b.logFiles.Close()
}

// Logger returns the logger used by this process.
func (b *BaseProcess) Logger() *slog.Logger {
	return b.log
}

// Exited returns a channel closed when the process exits, or nil if nothing
// is running. Safe to select on from any number of goroutines.
func (b *BaseProcess) Exited() <-chan struct{} {
	return b.exited
}

// IsStarted reports whether the process has been started and not yet stopped.
func (b *BaseProcess) IsStarted() bool {
	return b.cmd != nil
}

// StdoutPath returns the stdout capture file path, or "" before start.
func (b *BaseProcess) StdoutPath() string {
	if b.logFiles.stdoutName == "" {
		return ""
	}
	return b.logFiles.StdoutPath()
}

// StderrPath returns the stderr capture file path, or "" before start.
func (b *BaseProcess) StderrPath() string {
	if b.logFiles.stderrName == "" {
		return ""
	}
	return b.logFiles.StderrPath()
}

// SetupAndStart starts cmd with its stdout/stderr captured to files in
// logDir. The cmd arrives fully built: Path, Args, Dir, and Env are the
// caller's responsibility (the working directory follows the locate rules,
// not the log location). Platform process attributes are applied here.
//
// A single goroutine calling cmd.Wait is started so exactly one Wait happens
// per process. It feeds two channels: waitDone (buffered, consumed by Stop)
// and exited (closed, broadcast to any observer).
func (b *BaseProcess) SetupAndStart(cmd *exec.Cmd, logDir string) error {
	if cmd == nil {
		return ErrNilCmd
	}
	if cmd.Path == "" {
		return ErrEmptyCmdPath
	}
	if logDir == "" {
		return ErrEmptyLogDir
	}
	if b.cmd != nil {
		return ErrAlreadyStarted
	}

	configureSysProcAttr(cmd)

	logFiles, err := StartCmd(cmd, logDir, b.name)
	if err != nil {
		return fmt.Errorf("start command: %w", err)
	}
	b.cmd = cmd
	b.logFiles = logFiles

	done := make(chan error, 1)
	exited := make(chan struct{})
	go func() {
		done <- cmd.Wait()
		close(exited)
	}()
	b.waitDone = done
	b.exited = exited

	return nil
}
