// Package config resolves the per-user configuration directory, exports the
// server configuration path through the environment, and reads the optional
// launcher.toml. The launcher file is read-only and optional; an absent file
// means the stock behavior, a malformed one is a startup error.
package config
