package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// Sentinel errors returned by Poll for invalid policies. Callers can match
// these with errors.Is through wrapped error chains.
var (
	// ErrIntervalNotPositive indicates a non-positive poll interval.
	ErrIntervalNotPositive = errors.New("interval must be positive")

	// ErrAttemptsNotPositive indicates a non-positive attempt ceiling.
	ErrAttemptsNotPositive = errors.New("attempt ceiling must be positive")

	// ErrJitterNegative indicates a negative jitter factor.
	ErrJitterNegative = errors.New("jitter must not be negative")
)

// Condition is polled by Policy.Poll until it reports done.
// The attempt parameter is 1-based. Returning a non-nil error aborts the
// loop; returning (false, nil) schedules another attempt if any remain.
type Condition func(ctx context.Context, attempt int) (done bool, err error)

// Policy describes a bounded retry loop: up to MaxAttempts condition calls,
// Interval apart, each sleep stretched by up to Jitter*Interval when Jitter
// is positive. The zero value is invalid; construct explicitly.
type Policy struct {
	// Interval is the base delay between consecutive attempts.
	Interval time.Duration

	// MaxAttempts is the total number of condition calls, first one included.
	MaxAttempts int

	// Jitter randomizes each delay to between Interval and
	// Interval*(1+Jitter). Zero disables jitter.
	Jitter float64
}

// Validate checks the policy fields.
func (p Policy) Validate() error {
	if p.Interval <= 0 {
		return ErrIntervalNotPositive
	}
	if p.MaxAttempts <= 0 {
		return ErrAttemptsNotPositive
	}
	if p.Jitter < 0 {
		return ErrJitterNegative
	}
	return nil
}

// backoff maps the policy onto wait.Backoff. Factor 1.0 keeps the interval
// fixed; Steps bounds the number of condition calls.
func (p Policy) backoff() wait.Backoff {
	return wait.Backoff{
		Duration: p.Interval,
		Factor:   1.0,
		Jitter:   p.Jitter,
		Steps:    p.MaxAttempts,
	}
}

// Poll calls cond up to MaxAttempts times, Interval apart, until it reports
// done or returns an error. There is no sleep after the final attempt.
//
// The returned error is nil when cond reported done; the cond error when cond
// aborted; ctx.Err() when the context ended the loop; otherwise the ceiling
// was reached, which Exhausted reports distinctly.
func (p Policy) Poll(ctx context.Context, cond Condition) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("retry policy: %w", err)
	}

	// attempt needs no synchronization: the wait loop invokes the condition
	// sequentially, each call completing before the next is scheduled.
	attempt := 0
	return wait.ExponentialBackoffWithContext(ctx, p.backoff(), func(pollCtx context.Context) (bool, error) {
		attempt++
		return cond(pollCtx, attempt)
	})
}

// Wait blocks for one interval (with jitter applied) or until ctx is done.
// Used by callers whose observed behavior is delay-then-probe rather than
// the probe-then-delay shape Poll implements.
func (p Policy) Wait(ctx context.Context) error {
	d := p.Interval
	if p.Jitter > 0 {
		d = wait.Jitter(d, p.Jitter)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Exhausted reports whether err from Poll means the attempt ceiling was
// reached without the condition ever holding. Context cancellation and
// condition errors are not exhaustion.
func Exhausted(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return wait.Interrupted(err)
}
