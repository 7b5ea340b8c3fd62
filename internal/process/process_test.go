package process

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestDrainDone(t *testing.T) {
	t.Parallel()

	t.Run("receives nil", func(t *testing.T) {
		t.Parallel()

		done := make(chan error, 1)
		done <- nil

		ok, err := drainDone(done, time.Second)
		if !ok {
			t.Fatal("expected ok=true when the channel has a value")
		}
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	})

	t.Run("receives wait error", func(t *testing.T) {
		t.Parallel()

		want := errors.New("process crashed")
		done := make(chan error, 1)
		done <- want

		ok, err := drainDone(done, time.Second)
		if !ok {
			t.Fatal("expected ok=true when the channel has a value")
		}
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	})

	t.Run("times out on empty channel", func(t *testing.T) {
		t.Parallel()

		done := make(chan error) // never written

		ok, err := drainDone(done, 10*time.Millisecond)
		if ok {
			t.Fatal("expected ok=false on timeout")
		}
		if err != nil {
			t.Fatalf("expected nil error on timeout, got %v", err)
		}
	})
}

func TestNewBaseProcess(t *testing.T) {
	t.Parallel()

	t.Run("populates name and logger", func(t *testing.T) {
		t.Parallel()

		bp := NewBaseProcess("server", nil, 0)
		if bp.name != "server" {
			t.Errorf("name = %q, want %q", bp.name, "server")
		}
		if bp.log == nil {
			t.Fatal("expected a fallback logger")
		}
		if bp.IsStarted() {
			t.Error("new process must not report started")
		}
	})

	t.Run("panics on empty name", func(t *testing.T) {
		t.Parallel()

		defer func() {
			if recover() == nil {
				t.Fatal("expected panic for empty name")
			}
		}()
		NewBaseProcess("", nil, 0)
	})
}

func TestBaseProcess_StopWhenNotStarted(t *testing.T) {
	t.Parallel()

	bp := NewBaseProcess("server", nil, 0)
	if err := bp.Stop(time.Second); err != nil {
		t.Fatalf("Stop on unstarted process: %v", err)
	}
}

func TestBaseProcess_CloseWhenNotStarted(t *testing.T) {
	t.Parallel()

	bp := NewBaseProcess("server", nil, 0)
	bp.Close() // must not panic
}

func TestBaseProcess_ExitedBeforeStart(t *testing.T) {
	t.Parallel()

	bp := NewBaseProcess("server", nil, 0)
	if bp.Exited() != nil {
		t.Error("Exited must be nil before start")
	}
}

func TestBaseProcess_PathsBeforeStart(t *testing.T) {
	t.Parallel()

	bp := NewBaseProcess("server", nil, 0)
	if got := bp.StdoutPath(); got != "" {
		t.Errorf("StdoutPath before start = %q, want empty", got)
	}
	if got := bp.StderrPath(); got != "" {
		t.Errorf("StderrPath before start = %q, want empty", got)
	}
}

func TestBaseProcess_SetupAndStartValidation(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cmd     *exec.Cmd
		logDir  string
		wantErr error
	}{
		"nil cmd":       {cmd: nil, logDir: "logs", wantErr: ErrNilCmd},
		"empty path":    {cmd: &exec.Cmd{}, logDir: "logs", wantErr: ErrEmptyCmdPath},
		"empty log dir": {cmd: &exec.Cmd{Path: "/bin/true"}, logDir: "", wantErr: ErrEmptyLogDir},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			bp := NewBaseProcess("server", nil, 0)
			err := bp.SetupAndStart(tc.cmd, tc.logDir)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("SetupAndStart error = %v, want %v", err, tc.wantErr)
			}
			if bp.IsStarted() {
				t.Error("failed start must leave the process unstarted")
			}
		})
	}
}

func TestLogFiles_Paths(t *testing.T) {
	t.Parallel()

	dir := filepath.Join("logs", "launch-1")
	lf := LogFiles{dir: dir, stdoutName: "server-stdout.log", stderrName: "server-stderr.log"}

	if got, want := lf.StdoutPath(), filepath.Join(dir, "server-stdout.log"); got != want {
		t.Errorf("StdoutPath() = %q, want %q", got, want)
	}
	if got, want := lf.StderrPath(), filepath.Join(dir, "server-stderr.log"); got != want {
		t.Errorf("StderrPath() = %q, want %q", got, want)
	}
}

func TestNewLogFiles_CreatesBothFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lf, err := NewLogFiles(dir, "server")
	if err != nil {
		t.Fatalf("NewLogFiles() error: %v", err)
	}
	defer lf.Close()

	for _, path := range []string{lf.StdoutPath(), lf.StderrPath()} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("stat %s: %v", path, err)
		}
	}
}

func TestNewLogFiles_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := NewLogFiles(filepath.Join(t.TempDir(), "nope"), "server")
	if err == nil {
		t.Fatal("expected error for a missing directory")
	}
}

func TestLogFiles_CloseIdempotent(t *testing.T) {
	t.Parallel()

	lf := LogFiles{}
	lf.Close()
	lf.Close() // second close must not panic
}

func TestStopCloseAndNil(t *testing.T) {
	t.Parallel()

	t.Run("nil pointer returns nil", func(t *testing.T) {
		t.Parallel()

		if err := StopCloseAndNil[*fakeStoppable](nil, time.Second); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("nil value returns nil", func(t *testing.T) {
		t.Parallel()

		var p *fakeStoppable
		if err := StopCloseAndNil(&p, time.Second); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("stops closes and nils", func(t *testing.T) {
		t.Parallel()

		f := &fakeStoppable{}
		p := f
		if err := StopCloseAndNil(&p, 5*time.Second); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p != nil {
			t.Error("pointer must be nil afterwards")
		}
		if !f.stopped || !f.closed {
			t.Errorf("stopped=%v closed=%v, want both true", f.stopped, f.closed)
		}
		if f.stopTimeout != 5*time.Second {
			t.Errorf("Stop timeout = %v, want 5s", f.stopTimeout)
		}
	})

	t.Run("closes and nils on stop error", func(t *testing.T) {
		t.Parallel()

		f := &fakeStoppable{stopErr: errors.New("stop failed")}
		p := f
		err := StopCloseAndNil(&p, time.Second)
		if err == nil || err.Error() != "stop failed" {
			t.Fatalf("error = %v, want stop failed", err)
		}
		if p != nil {
			t.Error("pointer must be nil even when Stop fails")
		}
		if !f.closed {
			t.Error("Close must run even when Stop fails")
		}
	})
}

// fakeStoppable is a test double for the Stoppable interface.
type fakeStoppable struct {
	stopped     bool
	closed      bool
	stopErr     error
	stopTimeout time.Duration
}

func (f *fakeStoppable) Stop(timeout time.Duration) error {
	f.stopped = true
	f.stopTimeout = timeout
	return f.stopErr
}

func (f *fakeStoppable) Close() {
	f.closed = true
}
