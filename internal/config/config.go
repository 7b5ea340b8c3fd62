package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"missionctl/internal/retry"
)

// Config is the launcher configuration. Zero window fields mean "use the
// window package defaults".
type Config struct {
	// Port the companion server listens on.
	Port int

	// ProbeInterval separates successive readiness probes.
	ProbeInterval time.Duration

	// ProbeAttempts bounds the readiness probe count.
	ProbeAttempts int

	// ProbeJitter randomizes probe spacing; 0 keeps the fixed cadence.
	ProbeJitter float64

	// WarmUp is the pause between spawning the server and the first probe
	// cycle.
	WarmUp time.Duration

	// ReinjectEvery re-evaluates the link-interception script at this
	// interval once the window is up. 0 disables re-injection.
	ReinjectEvery time.Duration

	// WindowTitle, WindowWidth, WindowHeight size the shell window.
	WindowTitle  string
	WindowWidth  int
	WindowHeight int

	// LogLevel is the shell's log level.
	LogLevel slog.Level
}

// rawConfig mirrors the launcher.toml keys. Durations are strings in
// time.ParseDuration syntax.
type rawConfig struct {
	Port          int     `toml:"port"`
	ProbeInterval string  `toml:"probe_interval"`
	ProbeAttempts int     `toml:"probe_attempts"`
	ProbeJitter   float64 `toml:"probe_jitter"`
	WarmUp        string  `toml:"warm_up"`
	ReinjectEvery string  `toml:"reinject_every"`
	WindowTitle   string  `toml:"window_title"`
	WindowWidth   int     `toml:"window_width"`
	WindowHeight  int     `toml:"window_height"`
	LogLevel      string  `toml:"log_level"`
}

// Default returns the configuration used when no launcher.toml exists.
func Default() Config {
	return Config{
		Port:          DefaultPort,
		ProbeInterval: DefaultProbeInterval,
		ProbeAttempts: DefaultProbeAttempts,
		WarmUp:        DefaultWarmUp,
		LogLevel:      DefaultLogLevel,
	}
}

// Load reads the launcher configuration at path. An absent file yields
// Default() and no error; a malformed or invalid file is a startup error
// reporting every fault at once.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading launcher config %s: %w", path, err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parsing launcher config %s: %w", path, err)
	}

	if err := cfg.apply(raw); err != nil {
		return Config{}, fmt.Errorf("invalid launcher config %s: %w", path, err)
	}
	return cfg, nil
}

// apply overlays the set keys of raw onto c, then validates. Parse and
// validation faults are joined so one pass fixes them all.
func (c *Config) apply(raw rawConfig) error {
	var errs []error

	if raw.Port != 0 {
		c.Port = raw.Port
	}
	if raw.ProbeAttempts != 0 {
		c.ProbeAttempts = raw.ProbeAttempts
	}
	if raw.ProbeJitter != 0 {
		c.ProbeJitter = raw.ProbeJitter
	}
	if raw.WindowTitle != "" {
		c.WindowTitle = raw.WindowTitle
	}
	if raw.WindowWidth != 0 {
		c.WindowWidth = raw.WindowWidth
	}
	if raw.WindowHeight != 0 {
		c.WindowHeight = raw.WindowHeight
	}

	for _, field := range []struct {
		key   string
		value string
		dst   *time.Duration
	}{
		{key: "probe_interval", value: raw.ProbeInterval, dst: &c.ProbeInterval},
		{key: "warm_up", value: raw.WarmUp, dst: &c.WarmUp},
		{key: "reinject_every", value: raw.ReinjectEvery, dst: &c.ReinjectEvery},
	} {
		if field.value == "" {
			continue
		}
		d, err := time.ParseDuration(field.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field.key, err))
			continue
		}
		*field.dst = d
	}

	if raw.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(raw.LogLevel)); err != nil {
			errs = append(errs, fmt.Errorf("log_level: %w", err))
		} else {
			c.LogLevel = level
		}
	}

	return errors.Join(errors.Join(errs...), c.Validate())
}

// Validate checks the configuration and returns an error describing every
// violation found, joined so callers can fix all problems in a single pass.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is outside 1-65535", c.Port))
	}
	if c.ProbeInterval <= 0 {
		errs = append(errs, errors.New("probe interval must be positive"))
	}
	if c.ProbeAttempts <= 0 {
		errs = append(errs, errors.New("probe attempts must be positive"))
	}
	if c.ProbeJitter < 0 {
		errs = append(errs, errors.New("probe jitter must not be negative"))
	}
	if c.WarmUp < 0 {
		errs = append(errs, errors.New("warm-up must not be negative"))
	}
	if c.ReinjectEvery < 0 {
		errs = append(errs, errors.New("reinject interval must not be negative"))
	}
	if c.WindowWidth < 0 {
		errs = append(errs, errors.New("window width must not be negative"))
	}
	if c.WindowHeight < 0 {
		errs = append(errs, errors.New("window height must not be negative"))
	}

	return errors.Join(errs...)
}

// Policy returns the probe cadence as a retry policy.
func (c Config) Policy() retry.Policy {
	return retry.Policy{
		Interval:    c.ProbeInterval,
		MaxAttempts: c.ProbeAttempts,
		Jitter:      c.ProbeJitter,
	}
}
