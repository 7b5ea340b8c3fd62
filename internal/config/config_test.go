package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), LauncherConfigName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadAbsentFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), LauncherConfigName))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFullFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
port = 8080
probe_interval = "250ms"
probe_attempts = 10
probe_jitter = 0.5
warm_up = "1s"
reinject_every = "30s"
window_title = "Ops Console"
window_width = 1024
window_height = 768
log_level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Config{
		Port:          8080,
		ProbeInterval: 250 * time.Millisecond,
		ProbeAttempts: 10,
		ProbeJitter:   0.5,
		WarmUp:        time.Second,
		ReinjectEvery: 30 * time.Second,
		WindowTitle:   "Ops Console",
		WindowWidth:   1024,
		WindowHeight:  768,
		LogLevel:      slog.LevelDebug,
	}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
port = 9000
window_title = "Ops"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 9000 || cfg.WindowTitle != "Ops" {
		t.Fatalf("expected overrides applied, got %+v", cfg)
	}
	if cfg.ProbeInterval != DefaultProbeInterval {
		t.Fatalf("expected default probe interval, got %v", cfg.ProbeInterval)
	}
	if cfg.ProbeAttempts != DefaultProbeAttempts {
		t.Fatalf("expected default probe attempts, got %v", cfg.ProbeAttempts)
	}
	if cfg.WarmUp != DefaultWarmUp {
		t.Fatalf("expected default warm-up, got %v", cfg.WarmUp)
	}
	if cfg.ReinjectEvery != 0 {
		t.Fatalf("expected re-injection disabled by default, got %v", cfg.ReinjectEvery)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `port = [not toml`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed file")
	}
}

func TestLoadReportsAllFaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
port = 99999
probe_interval = "soon"
probe_attempts = -3
log_level = "loud"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid config")
	}

	msg := err.Error()
	for _, want := range []string{"port", "probe_interval", "probe attempts", "log_level"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected error to mention %q, got %q", want, msg)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	type testCase struct {
		mutate  func(*Config)
		wantErr bool
	}

	tests := map[string]testCase{
		"defaults pass": {
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		"zero port fails": {
			mutate:  func(c *Config) { c.Port = 0 },
			wantErr: true,
		},
		"port above range fails": {
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: true,
		},
		"zero probe interval fails": {
			mutate:  func(c *Config) { c.ProbeInterval = 0 },
			wantErr: true,
		},
		"negative jitter fails": {
			mutate:  func(c *Config) { c.ProbeJitter = -0.1 },
			wantErr: true,
		},
		"negative warm-up fails": {
			mutate:  func(c *Config) { c.WarmUp = -time.Second },
			wantErr: true,
		},
		"negative reinject interval fails": {
			mutate:  func(c *Config) { c.ReinjectEvery = -time.Minute },
			wantErr: true,
		},
		"negative window size fails": {
			mutate:  func(c *Config) { c.WindowWidth = -1 },
			wantErr: true,
		},
		"zero window size passes": {
			mutate:  func(c *Config) { c.WindowWidth = 0; c.WindowHeight = 0 },
			wantErr: false,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected nil, got %v", err)
			}
		})
	}
}

func TestPolicy(t *testing.T) {
	t.Parallel()

	cfg := Config{
		ProbeInterval: 2 * time.Second,
		ProbeAttempts: 7,
		ProbeJitter:   0.25,
	}

	policy := cfg.Policy()
	if policy.Interval != 2*time.Second || policy.MaxAttempts != 7 || policy.Jitter != 0.25 {
		t.Fatalf("unexpected policy %+v", policy)
	}
}
