package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"missionctl/internal/fileutil"
)

// DirName is the log directory name inside the configuration directory.
const DirName = "logs"

// FileName is the shell's own log file inside the log directory.
const FileName = "missionctl.log"

// Setup builds the shell logger: a text handler at level writing to stderr
// and, when the log directory is usable, to FileName inside dir, truncated
// per launch. The logger is installed as the slog default so component
// loggers derive from it. File trouble degrades to stderr-only logging; the
// shell never refuses to start over its own log file.
//
// The returned close function releases the log file and is safe to call
// when logging is stderr-only.
func Setup(dir string, level slog.Level) (*slog.Logger, func()) {
	var out io.Writer = os.Stderr
	closeFn := func() {}

	file, err := openLogFile(dir)
	if err == nil {
		out = io.MultiWriter(os.Stderr, file)
		closeFn = func() {
			_ = file.Close()
		}
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err != nil {
		logger.Warn("shell log file unavailable, logging to stderr only",
			"dir", dir,
			"error", err,
		)
	}
	return logger, closeFn
}

func openLogFile(dir string) (*os.File, error) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening shell log file: %w", err)
	}
	return file, nil
}
