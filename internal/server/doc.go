// Package server supervises the companion node server process.
//
// Process owns the spawned child: start with captured output, deterministic
// SIGTERM-then-SIGKILL stop at shutdown, and an exit channel for observers.
// Prober issues the health-endpoint GET the readiness gate polls; any
// completed response counts as ready, whatever the status code says.
package server
