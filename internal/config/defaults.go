package config

import (
	"log/slog"
	"time"

	"missionctl/internal/gate"
)

// DefaultPort is the port the companion server listens on.
const DefaultPort = 1337

// DefaultProbeInterval separates successive readiness probes.
const DefaultProbeInterval = gate.DefaultInterval

// DefaultProbeAttempts bounds the readiness probe count.
const DefaultProbeAttempts = gate.DefaultMaxAttempts

// DefaultWarmUp is the pause between spawning the server and the first
// probe cycle, giving the runtime a head start before polling begins.
const DefaultWarmUp = 2 * time.Second

// DefaultLogLevel is the shell's log level.
const DefaultLogLevel = slog.LevelInfo
