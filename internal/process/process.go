package process

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// LogFiles manages the stdout/stderr capture files for a child process. The
// child's output is captured, never inspected; the files give it a durable
// home next to the launcher's own log.
type LogFiles struct {
	stdoutFile *os.File
	stderrFile *os.File
	dir        string
	stdoutName string // e.g. "server-stdout.log"
	stderrName string // e.g. "server-stderr.log"
}

// create opens both capture files. The struct fields are assigned only after
// both creates succeed so a half-open pair is never observable.
func (l *LogFiles) create() error {
	stdoutFile, err := os.Create(l.StdoutPath())
	if err != nil {
		return fmt.Errorf("create stdout log: %w", err)
	}
	stderrFile, err := os.Create(l.StderrPath())
	if err != nil {
		_ = stdoutFile.Close()
		return fmt.Errorf("create stderr log: %w", err)
	}
	l.stdoutFile = stdoutFile
	l.stderrFile = stderrFile
	return nil
}

// Close closes both capture files and nils the handles to prevent double-close.
func (l *LogFiles) Close() {
	if l.stdoutFile != nil {
		_ = l.stdoutFile.Close()
		l.stdoutFile = nil
	}
	if l.stderrFile != nil {
		_ = l.stderrFile.Close()
		l.stderrFile = nil
	}
}

// StdoutPath returns the path of the stdout capture file.
func (l *LogFiles) StdoutPath() string {
	return filepath.Join(l.dir, l.stdoutName)
}

// StderrPath returns the path of the stderr capture file.
func (l *LogFiles) StderrPath() string {
	return filepath.Join(l.dir, l.stderrName)
}

// NewLogFiles creates the capture files for a named process inside dir.
// The name seeds the file names ("server" -> "server-stdout.log").
func NewLogFiles(dir, processName string) (LogFiles, error) {
	l := LogFiles{
		dir:        dir,
		stdoutName: processName + "-stdout.log",
		stderrName: processName + "-stderr.log",
	}
	if err := l.create(); err != nil {
		return LogFiles{}, err
	}
	return l, nil
}

// DefaultStopTimeout bounds a Stop when the caller has no opinion. Also used
// by Close when it has to auto-stop a still-running process.
const DefaultStopTimeout = 10 * time.Second

// killDrainTimeout is the hard upper bound for waiting on the done channel
// after the process has been killed (or found already exited). The kill
// cannot be refused, so cmd.Wait should return almost immediately; this
// timeout only guards against stuck I/O keeping Wait from returning.
const killDrainTimeout = 10 * time.Second

// drainDone reads from the done channel with timeout as a hard upper bound.
// Returns true and the cmd.Wait error if the channel delivered in time, or
// false and nil if the timeout elapsed.
func drainDone(done <-chan error, timeout time.Duration) (bool, error) {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case err := <-done:
		return true, err
	case <-t.C:
		return false, nil
	}
}

// StartCmd creates capture files in logDir, wires them to cmd, and starts it.
// On success the caller owns the LogFiles; on failure they are closed here.
func StartCmd(cmd *exec.Cmd, logDir, processName string) (LogFiles, error) {
	logFiles, err := NewLogFiles(logDir, processName)
	if err != nil {
		return LogFiles{}, fmt.Errorf("create %s logs: %w", processName, err)
	}

	cmd.Stdout = logFiles.stdoutFile
	cmd.Stderr = logFiles.stderrFile

	if err := cmd.Start(); err != nil {
		logFiles.Close()
		return LogFiles{}, fmt.Errorf("start %s process: %w", processName, err)
	}

	return logFiles, nil
}
