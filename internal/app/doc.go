// Package app wires the shell together: configuration, single-instance
// lock, server supervision, readiness gate, and the native window loop.
package app
