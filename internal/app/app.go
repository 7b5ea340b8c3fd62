package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"missionctl/internal/browser"
	"missionctl/internal/config"
	"missionctl/internal/fileutil"
	"missionctl/internal/gate"
	"missionctl/internal/intercept"
	"missionctl/internal/locate"
	"missionctl/internal/lock"
	"missionctl/internal/logging"
	"missionctl/internal/netutil"
	"missionctl/internal/process"
	"missionctl/internal/server"
	"missionctl/internal/window"
)

// Options configure the shell.
type Options struct {
	// ConfigDir overrides the platform configuration directory.
	ConfigDir string

	// Version is logged at startup.
	Version string
}

// Run boots the shell and blocks until the window closes or ctx is
// cancelled. It must run on the main goroutine with its OS thread locked;
// the native UI loop lives here.
//
// Startup order: load launcher config, take the single-instance lock, set up
// logging, export the server configuration path, locate and spawn the
// server, then hand the readiness gate to the background group while the UI
// loop waits for its reveal. Shutdown reverses it: cancel and join the
// group, stop the child, release the lock.
func Run(ctx context.Context, opts Options) error {
	configDir := opts.ConfigDir
	if configDir == "" {
		var err error
		configDir, err = config.Dir()
		if err != nil {
			return fmt.Errorf("resolving config dir: %w", err)
		}
	}

	cfg, err := config.Load(filepath.Join(configDir, config.LauncherConfigName))
	if err != nil {
		return err
	}

	// The lock file lives inside the config dir, which does not exist yet
	// on first launch.
	if err := fileutil.EnsureDir(configDir); err != nil {
		slog.Warn("creating config dir failed", "path", configDir, "error", err)
	}

	// The lock comes before log setup: the shell log file is truncated per
	// launch, and a duplicate launch must not clobber the running
	// instance's log.
	guard, err := lock.Acquire(ctx, filepath.Join(configDir, lock.FileName), 0, nil)
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			slog.Info("another instance is already running, exiting")
			return nil
		}
		slog.Warn("instance lock unavailable, continuing without it", "error", err)
	}
	defer guard.Release()

	logDir := filepath.Join(configDir, logging.DirName)
	logger, closeLogs := logging.Setup(logDir, cfg.LogLevel)
	defer closeLogs()

	logger.Info("mission control starting",
		"version", opts.Version,
		"port", cfg.Port,
		"config_dir", configDir,
	)

	if _, err := config.ExportServerPath(configDir); err != nil {
		logger.Warn("exporting server config path failed", "error", err)
	}

	appCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	proc := startServer(appCtx, cfg, logDir, logger)
	defer func() {
		if err := process.StopCloseAndNil(&proc, process.DefaultStopTimeout); err != nil {
			logger.Warn("stopping server process", "error", err)
		}
	}()

	prober := server.NewProber(
		server.HealthURL(server.DefaultHost, cfg.Port),
		logger.With("component", "prober"),
	)
	defer prober.Close()

	shell, err := window.New(window.Config{
		URL:    server.BaseURL(server.DefaultHost, cfg.Port),
		Title:  cfg.WindowTitle,
		Width:  cfg.WindowWidth,
		Height: cfg.WindowHeight,
		Logger: logger.With("component", "window"),
	})
	if err != nil {
		return fmt.Errorf("creating shell window: %w", err)
	}

	if err := shell.Bind(intercept.BindName, func(rawURL string) {
		openExternal(rawURL, browser.Open, logger)
	}); err != nil {
		logger.Warn("binding external-open failed, outbound links stay in the window", "error", err)
	}

	script, err := intercept.Script(netutil.LocalHosts(server.DefaultHost))
	if err != nil {
		logger.Warn("building interception script failed, links open in the window", "error", err)
		script = ""
	}

	g, err := gate.New(gate.Config{
		Prober: prober,
		Window: shell,
		Script: script,
		Policy: cfg.Policy(),
		Logger: logger.With("component", "gate"),
	})
	if err != nil {
		return fmt.Errorf("creating readiness gate: %w", err)
	}

	group, groupCtx := errgroup.WithContext(appCtx)

	group.Go(func() error {
		// The warm-up runs here rather than on the UI goroutine so the loop
		// is already waiting when the gate asks for the reveal.
		if err := sleep(groupCtx, cfg.WarmUp); err != nil {
			return nil
		}
		outcome := g.Run(groupCtx)
		if outcome == gate.OutcomeReady && script != "" && cfg.ReinjectEvery > 0 {
			reinject(groupCtx, shell, script, cfg.ReinjectEvery, logger)
		}
		return nil
	})

	if proc != nil {
		exited := proc.Exited()
		stdoutPath := proc.StdoutPath()
		stderrPath := proc.StderrPath()
		group.Go(func() error {
			watchExit(groupCtx, exited, stdoutPath, stderrPath, logger)
			return nil
		})
	}

	runErr := shell.Run(appCtx)

	cancel()
	if err := group.Wait(); err != nil {
		logger.Warn("background task failed", "error", err)
	}

	logger.Info("mission control stopping")
	return runErr
}

// startServer locates and spawns the companion server. Both failure modes
// are logged and swallowed: the shell continues without a confirmed child
// and the gate keeps probing, in case a server from an earlier run still
// owns the port.
func startServer(ctx context.Context, cfg config.Config, logDir string, log *slog.Logger) *server.Process {
	roots, err := locate.DefaultRoots()
	if err != nil {
		log.Warn("resolving candidate roots failed", "error", err)
		return nil
	}

	locator, err := locate.New(locate.Config{
		Roots:  roots,
		Logger: log.With("component", "locate"),
	})
	if err != nil {
		log.Warn("building server locator failed", "error", err)
		return nil
	}

	loc, err := locator.Find()
	if err != nil {
		log.Warn("server entry point not found", "error", err)
		return nil
	}

	proc, err := server.New(server.Config{
		Location: loc,
		LogDir:   logDir,
		Port:     cfg.Port,
		Logger:   log.With("component", "server"),
	})
	if err != nil {
		log.Warn("building server process failed", "error", err)
		return nil
	}

	if err := proc.Start(ctx); err != nil {
		log.Warn("spawning server process failed", "error", err)
		proc.Close()
		return nil
	}
	return proc
}

// openExternal routes rawURL to the system default handler. Any page code
// can call the bridge, not just the interception script, so unparsable and
// loopback URLs are dropped here; they belong in the window.
func openExternal(rawURL string, open func(string) error, log *slog.Logger) {
	u, err := url.Parse(rawURL)
	if err != nil || netutil.IsLoopbackHost(u.Hostname()) {
		log.Debug("ignoring external-open for local URL", "url", rawURL)
		return
	}
	if err := open(rawURL); err != nil {
		log.Debug("opening external URL failed", "url", rawURL, "error", err)
	}
}

// watchExit logs when the child dies before shutdown asked it to.
func watchExit(ctx context.Context, exited <-chan struct{}, stdoutPath, stderrPath string, log *slog.Logger) {
	if exited == nil {
		return
	}
	select {
	case <-exited:
		log.Warn("server process exited unexpectedly",
			"stdout_log", stdoutPath,
			"stderr_log", stderrPath,
		)
	case <-ctx.Done():
	}
}

// reinject periodically re-evaluates the interception script; the page may
// have navigated and dropped the listener. The marker guard makes repeat
// evaluation idempotent.
func reinject(ctx context.Context, shell window.Shell, script string, every time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := shell.Eval(script)
			if err != nil && !errors.Is(err, window.ErrNotRevealed) {
				log.Debug("re-injecting interception script failed", "error", err)
			}
		}
	}
}

// sleep waits d unless ctx ends first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
