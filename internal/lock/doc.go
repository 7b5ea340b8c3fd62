// Package lock enforces the single-instance rule: a second shell would
// spawn a second server that loses the port race and a second window racing
// the first one's readiness gate.
package lock
