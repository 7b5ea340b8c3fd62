package gate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"missionctl/internal/retry"
	"missionctl/internal/sentinel"
)

// DefaultInterval separates successive health probes.
const DefaultInterval = time.Second

// DefaultMaxAttempts bounds the probe count: one initial attempt plus thirty
// retries.
const DefaultMaxAttempts = 31

// ErrNilProber is returned when New is called without a prober.
const ErrNilProber = sentinel.Error("gate prober must not be nil")

// ErrNilWindow is returned when New is called without a window.
const ErrNilWindow = sentinel.Error("gate window must not be nil")

// Prober reports whether the server answered its health endpoint.
type Prober interface {
	Probe(ctx context.Context) bool
}

// Revealer makes the hidden window visible and focused. A non-empty script
// is evaluated in the page before the reveal.
type Revealer interface {
	Reveal(script string)
}

// Outcome is the terminal state of a gate run.
type Outcome int

const (
	// OutcomeReady means the server answered before the attempt ceiling.
	OutcomeReady Outcome = iota

	// OutcomeGaveUp means the ceiling was exhausted and the window was
	// revealed anyway.
	OutcomeGaveUp

	// OutcomeCancelled means shutdown interrupted the gate; the window was
	// not revealed.
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReady:
		return "ready"
	case OutcomeGaveUp:
		return "gave-up"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// DefaultPolicy returns the observed probe cadence: one probe per second up
// to DefaultMaxAttempts, no jitter.
func DefaultPolicy() retry.Policy {
	return retry.Policy{
		Interval:    DefaultInterval,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Config holds the configuration for a Gate.
type Config struct {
	// Prober answers whether the server is reachable.
	Prober Prober

	// Window is revealed on the terminal ready and gave-up paths.
	Window Revealer

	// Script is evaluated in the page on the ready path only; exhaustion
	// reveals without it.
	Script string

	// Policy sets the probe cadence. The zero value uses DefaultPolicy.
	Policy retry.Policy

	// Logger (optional, defaults to slog.Default()).
	Logger *slog.Logger
}

// Gate polls the server and reveals the window on the first answer, or on
// exhausting the attempt ceiling.
type Gate struct {
	prober Prober
	window Revealer
	script string
	policy retry.Policy
	log    *slog.Logger
}

// New creates a Gate from cfg.
func New(cfg Config) (*Gate, error) {
	if cfg.Prober == nil {
		return nil, ErrNilProber
	}
	if cfg.Window == nil {
		return nil, ErrNilWindow
	}

	policy := cfg.Policy
	if policy == (retry.Policy{}) {
		policy = DefaultPolicy()
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gate policy: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Gate{
		prober: cfg.Prober,
		window: cfg.Window,
		script: cfg.Script,
		policy: policy,
		log:    log,
	}, nil
}

// Run blocks until a terminal outcome. One interval elapses before the first
// probe, keeping the wait-then-probe cadence. The window is revealed exactly
// once on the ready and gave-up paths, and not at all when ctx is cancelled
// first.
func (g *Gate) Run(ctx context.Context) Outcome {
	if err := g.policy.Wait(ctx); err != nil {
		g.log.Info("readiness gate cancelled before first probe")
		return OutcomeCancelled
	}

	attempts := 0
	err := g.policy.Poll(ctx, func(ctx context.Context, attempt int) (bool, error) {
		attempts = attempt
		return g.prober.Probe(ctx), nil
	})

	switch {
	case err == nil:
		g.log.Info("server ready, revealing window",
			"outcome", OutcomeReady,
			"attempts", attempts,
		)
		g.window.Reveal(g.script)
		return OutcomeReady

	case retry.Exhausted(err):
		g.log.Warn("server never answered, revealing window anyway",
			"outcome", OutcomeGaveUp,
			"attempts", attempts,
		)
		g.window.Reveal("")
		return OutcomeGaveUp

	default:
		g.log.Info("readiness gate cancelled",
			"outcome", OutcomeCancelled,
			"attempts", attempts,
		)
		return OutcomeCancelled
	}
}
