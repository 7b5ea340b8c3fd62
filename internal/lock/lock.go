package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"missionctl/internal/sentinel"
)

// FileName is the lock file name inside the configuration directory.
const FileName = "launcher.lock"

// ErrHeld is returned when another shell instance holds the lock.
const ErrHeld = sentinel.Error("another instance is already running")

// DefaultAcquireTimeout bounds the wait for the instance lock. A healthy
// holder keeps the lock for its whole lifetime, so the wait only needs to
// cover an instance that is shutting down right now.
const DefaultAcquireTimeout = 500 * time.Millisecond

// retryInterval is the pause between consecutive acquisition attempts.
const retryInterval = 50 * time.Millisecond

// Guard holds the acquired single-instance lock until Release.
type Guard struct {
	fl  *flock.Flock
	log *slog.Logger
}

// Acquire takes an exclusive lock on the file at path, waiting up to timeout
// (DefaultAcquireTimeout when non-positive) for a dying holder to let go.
// Returns ErrHeld when the lock stays held.
func Acquire(ctx context.Context, path string, timeout time.Duration, logger *slog.Logger) (*Guard, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultAcquireTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, retryInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w (lock file %s)", ErrHeld, path)
		}
		return nil, fmt.Errorf("acquiring instance lock %s: %w", path, err)
	}
	if !locked {
		// TryLockContext reports failures through err; a bare false means
		// the context raced the acquire.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring instance lock %s: %w", path, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring instance lock %s: lock not acquired", path)
	}

	logger.Debug("instance lock acquired", "path", path)
	return &Guard{fl: fl, log: logger}, nil
}

// Path returns the lock file path, or "" after Release.
func (g *Guard) Path() string {
	if g == nil || g.fl == nil {
		return ""
	}
	return g.fl.Path()
}

// Release lets the lock go. The lock file stays on disk; removing it could
// invalidate a lock concurrently acquired by another process. Close unlocks
// and closes the descriptor in one step. Safe to call more than once.
func (g *Guard) Release() {
	if g == nil || g.fl == nil {
		return
	}
	if err := g.fl.Close(); err != nil {
		g.log.Debug("releasing instance lock failed", "path", g.fl.Path(), "error", err)
	}
	g.fl = nil
}
