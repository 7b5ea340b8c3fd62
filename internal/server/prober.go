package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// probeTimeout bounds a single health-endpoint request.
const probeTimeout = 5 * time.Second

// Prober issues health-endpoint requests against the server.
//
// A Prober is independent of Process: the readiness gate keeps polling even
// when the spawn itself failed, in case a server is already listening on the
// port from an earlier run.
type Prober struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

// NewProber creates a Prober for the given health endpoint URL.
func NewProber(healthURL string, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		url: healthURL,
		client: &http.Client{
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
			Timeout: probeTimeout,
		},
		log: logger,
	}
}

// Probe reports whether the server answered the health endpoint. Any
// completed HTTP response counts as ready regardless of status code; only
// transport-level failures report not ready. Transport errors are logged at
// debug level and never escalated, since an unreachable server is the
// expected state while it boots.
func (p *Prober) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.log.Debug("building health request failed", "url", p.url, "error", err)
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug("health endpoint not reachable", "url", p.url, "error", err)
		return false
	}

	// Drain so the transport can release the connection promptly.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	p.log.Debug("health endpoint answered", "url", p.url, "status", resp.StatusCode)
	return true
}

// Close releases idle connections held by the probe client.
func (p *Prober) Close() {
	p.client.CloseIdleConnections()
}
