package netutil

import (
	"net"
	"strings"
)

// LoopbackHosts returns the hostnames under which a loopback server is
// commonly addressed. The slice is a fresh copy; callers may append to it.
func LoopbackHosts() []string {
	return []string{"localhost", "127.0.0.1", "::1"}
}

// IsLoopbackHost reports whether host names the local machine. It accepts
// "localhost" (any case, including *.localhost names, which resolvers pin to
// loopback), literal IPs, and bracketed IPv6 literals as produced by
// net.JoinHostPort.
func IsLoopbackHost(host string) bool {
	h := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"))
	if h == "localhost" || strings.HasSuffix(h, ".localhost") {
		return true
	}
	if ip := net.ParseIP(h); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// LocalHosts returns the deduplicated union of the loopback set and any
// extra hostnames the server is configured to answer on. Order is stable:
// loopback names first, extras after, first occurrence wins.
func LocalHosts(extra ...string) []string {
	hosts := LoopbackHosts()
	seen := make(map[string]struct{}, len(hosts)+len(extra))
	for _, h := range hosts {
		seen[h] = struct{}{}
	}
	for _, h := range extra {
		h = strings.ToLower(h)
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		hosts = append(hosts, h)
	}
	return hosts
}
