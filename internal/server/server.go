package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"strconv"
	"time"

	"missionctl/internal/locate"
	"missionctl/internal/process"
)

// productionEnv is appended to the child's environment so the server runs
// in production mode.
const productionEnv = "NODE_ENV=production"

// DefaultRuntime is the runtime binary the entry point is handed to.
const DefaultRuntime = "node"

// DefaultHost is the hostname the server is addressed by.
const DefaultHost = "localhost"

// Compile-time interface satisfaction check.
var _ process.Stoppable = (*Process)(nil)

// Config holds the configuration for the supervised server process.
type Config struct {
	// Location is the locate result: entry point and working directory.
	Location *locate.Location

	// LogDir receives the stdout/stderr capture files.
	LogDir string

	// Host the server answers on. Defaults to DefaultHost.
	Host string

	// Port the server listens on.
	Port int

	// Runtime is the binary that runs the entry point. Defaults to
	// DefaultRuntime.
	Runtime string

	// StopTimeout bounds the auto-stop in Close. Zero uses
	// process.DefaultStopTimeout.
	StopTimeout time.Duration

	// Logger (optional, defaults to slog.Default()).
	Logger *slog.Logger
}

// validate checks that all required Config fields are set and returns an
// error describing the first missing or invalid field.
func (c Config) validate() error {
	if c.Location == nil {
		return errors.New("location must not be nil")
	}
	if c.Location.EntryPoint == "" {
		return errors.New("location entry point must not be empty")
	}
	if c.Location.WorkDir == "" {
		return errors.New("location workdir must not be empty")
	}
	if c.LogDir == "" {
		return errors.New("log dir must not be empty")
	}
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

// Process manages the server child-process lifecycle.
type Process struct {
	config Config
	base   process.BaseProcess
}

// New creates a server Process from cfg, applying defaults for Host and
// Runtime. New performs no I/O; spawning happens in Start.
func New(cfg Config) (*Process, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Runtime == "" {
		cfg.Runtime = DefaultRuntime
	}
	return &Process{
		config: cfg,
		base:   process.NewBaseProcess("server", cfg.Logger, cfg.StopTimeout),
	}, nil
}

// Start spawns the server: the runtime binary with the entry point as its
// sole argument, the locate-derived working directory, the production-mode
// variable appended to the inherited environment, and output captured to
// files in LogDir.
//
// The command is deliberately not bound to ctx: the child's lifetime is
// owned by Stop, which terminates gracefully before escalating, where a
// context cancellation would kill outright. ctx only gates starting at all.
func (p *Process) Start(ctx context.Context) error {
	if p.base.IsStarted() {
		return process.ErrAlreadyStarted
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	cmd := exec.Command(p.config.Runtime, p.config.Location.EntryPoint)
	cmd.Dir = p.config.Location.WorkDir
	cmd.Env = append(os.Environ(), productionEnv)

	if err := p.base.SetupAndStart(cmd, p.config.LogDir); err != nil {
		return fmt.Errorf("setup and start server process: %w", err)
	}

	p.base.Logger().Info("server process started",
		"runtime", p.config.Runtime,
		"entry_point", p.config.Location.EntryPoint,
		"workdir", p.config.Location.WorkDir,
		"stdout_log", p.base.StdoutPath(),
		"stderr_log", p.base.StderrPath(),
	)
	return nil
}

// Exited returns a channel closed when the child exits, or nil before Start.
func (p *Process) Exited() <-chan struct{} {
	return p.base.Exited()
}

// IsStarted reports whether the child is running.
func (p *Process) IsStarted() bool {
	return p.base.IsStarted()
}

// StdoutPath returns the stdout capture file path, or "" before Start.
func (p *Process) StdoutPath() string {
	return p.base.StdoutPath()
}

// StderrPath returns the stderr capture file path, or "" before Start.
func (p *Process) StderrPath() string {
	return p.base.StderrPath()
}

// Stop terminates the child with the given timeout.
func (p *Process) Stop(timeout time.Duration) error {
	return p.base.Stop(timeout)
}

// Close releases the capture file handles.
func (p *Process) Close() {
	p.base.Close()
}

// BaseURL builds the server's root URL for host and port.
func BaseURL(host string, port int) string {
	if host == "" {
		host = DefaultHost
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// HealthURL builds the health endpoint URL for host and port.
func HealthURL(host string, port int) string {
	return BaseURL(host, port) + "/health"
}
