package window

import (
	"context"
	"log/slog"
	"sync"

	"missionctl/internal/browser"
	"missionctl/internal/sentinel"
)

// DefaultTitle is the window chrome title where the platform surface has one.
const DefaultTitle = "Mission Control"

// DefaultWidth is the initial window width in pixels.
const DefaultWidth = 1280

// DefaultHeight is the initial window height in pixels.
const DefaultHeight = 800

// ErrEmptyURL is returned when New is called without a URL.
const ErrEmptyURL = sentinel.Error("window URL must not be empty")

// ErrEmptyBindName is returned when Bind is called with an empty name.
const ErrEmptyBindName = sentinel.Error("bind name must not be empty")

// ErrNilBindFunc is returned when Bind is called with a nil function.
const ErrNilBindFunc = sentinel.Error("bind function must not be nil")

// ErrDuplicateBind is returned when a name is bound twice.
const ErrDuplicateBind = sentinel.Error("bind name already registered")

// ErrNotRevealed is returned by Eval before the native window exists.
const ErrNotRevealed = sentinel.Error("window not revealed yet")

// Shell is the native surface showing the server UI.
//
// Bind registers page-callable host functions and must happen before Run.
// Reveal is safe from any goroutine and idempotent; the first call wins.
// Run drives the native event loop and must be called on the main goroutine
// with its OS thread locked.
type Shell interface {
	// Bind registers a host function the page can call by name once the
	// native window exists.
	Bind(name string, fn any) error

	// Reveal requests that the window become visible and focused, navigated
	// to the configured URL. A non-empty script is evaluated in the page
	// right after navigation.
	Reveal(script string)

	// Eval evaluates script in the live page. Returns ErrNotRevealed before
	// the native window exists, including in browser-fallback mode.
	Eval(script string) error

	// Run waits for Reveal or ctx cancellation, creates the native window,
	// and blocks until the window closes or ctx is cancelled.
	Run(ctx context.Context) error
}

// Config holds the configuration for the shell window.
type Config struct {
	// URL the window navigates to on reveal.
	URL string

	// Title of the window chrome. Defaults to DefaultTitle.
	Title string

	// Width and Height in pixels. Non-positive values use the defaults.
	Width  int
	Height int

	// Logger (optional, defaults to slog.Default()).
	Logger *slog.Logger
}

// latch is the reveal signal: the first request wins and carries its script
// to the waiting UI loop.
type latch struct {
	once sync.Once
	ch   chan string
}

func newLatch() *latch {
	return &latch{ch: make(chan string, 1)}
}

// request records the first reveal request; later calls are no-ops.
func (l *latch) request(script string) {
	l.once.Do(func() {
		l.ch <- script
	})
}

// wait blocks until a reveal request or ctx cancellation. The bool reports
// whether a request arrived.
func (l *latch) wait(ctx context.Context) (string, bool) {
	select {
	case script := <-l.ch:
		return script, true
	case <-ctx.Done():
		return "", false
	}
}

// shellState is the platform-independent half of a Shell: configuration,
// pending host bindings, and the reveal latch.
type shellState struct {
	cfg   Config
	log   *slog.Logger
	latch *latch

	mu       sync.Mutex
	bindings map[string]any
}

func newShellState(cfg Config) (*shellState, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyURL
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &shellState{
		cfg:      cfg,
		log:      log,
		latch:    newLatch(),
		bindings: make(map[string]any),
	}, nil
}

func (s *shellState) Bind(name string, fn any) error {
	if name == "" {
		return ErrEmptyBindName
	}
	if fn == nil {
		return ErrNilBindFunc
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bindings[name]; exists {
		return ErrDuplicateBind
	}
	s.bindings[name] = fn
	return nil
}

func (s *shellState) Reveal(script string) {
	s.latch.request(script)
}

// applyBindings registers every pending binding through bind. Failures are
// logged and skipped; the window still opens without the host function.
func (s *shellState) applyBindings(bind func(name string, fn any) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, fn := range s.bindings {
		if err := bind(name, fn); err != nil {
			s.log.Warn("binding host function failed", "name", name, "error", err)
		}
	}
}

// fallback opens the URL in the default browser and parks until shutdown.
func (s *shellState) fallback(ctx context.Context) error {
	s.log.Warn("native window unavailable, opening default browser", "url", s.cfg.URL)
	if err := browser.Open(s.cfg.URL); err != nil {
		s.log.Warn("browser fallback failed", "error", err)
	}
	<-ctx.Done()
	return nil
}
