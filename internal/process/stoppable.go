package process

import (
	"time"
)

// Stoppable is a process that can be stopped and have its resources closed.
type Stoppable interface {
	Stop(timeout time.Duration) error
	Close()
}

// StopCloseAndNil stops, closes, and nils a Stoppable pointer in one cleanup
// step. Safe with a nil p or a nil *p; both return nil immediately.
//
// P is constrained to both *E and Stoppable so only pointer types that
// implement Stoppable compile, and *p compares to nil without reflection.
// Close and the nil-out run even when Stop fails: after a failed Stop the
// process state is unknown, but the capture files must still be closed and
// the stale pointer cleared. The Stop error is returned either way.
//
//	var srv *server.Process
//	// ... start srv ...
//	err := process.StopCloseAndNil(&srv, 10*time.Second)
func StopCloseAndNil[P interface {
	*E
	Stoppable
}, E any](p *P, timeout time.Duration) error {
	if p == nil || *p == nil {
		return nil
	}
	defer func() {
		(*p).Close()
		*p = nil
	}()
	return (*p).Stop(timeout)
}
