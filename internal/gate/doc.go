// Package gate delays window reveal until the supervised server answers its
// health endpoint, or a bounded number of probes has failed. Exhaustion
// reveals anyway: a server that never becomes healthy must not leave the
// user staring at nothing.
package gate
