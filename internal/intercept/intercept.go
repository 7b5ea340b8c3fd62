package intercept

import (
	"encoding/json"
	"fmt"
	"strings"

	"missionctl/internal/sentinel"
)

// BindName is the page-global function the shell binds; the installed
// listener calls it with the resolved absolute URL of an outbound link.
const BindName = "openExternal"

// Marker is the window property the script sets on first run so a repeat
// injection finds the listener already installed and backs out.
const Marker = "__missionControlLinksHooked"

// ErrNoHosts is returned when Script is called without any internal host.
const ErrNoHosts = sentinel.Error("at least one internal host is required")

// scriptTemplate slots: 1 marker, 2 internal hosts JSON array, 3 bind name.
const scriptTemplate = `(function () {
	if (window.%[1]s) {
		return;
	}
	window.%[1]s = true;
	var internalHosts = %[2]s;
	document.addEventListener("click", function (event) {
		var anchor = event.target && event.target.closest ? event.target.closest("a[href]") : null;
		if (!anchor) {
			return;
		}
		var href = anchor.getAttribute("href");
		if (!href || href.charAt(0) === "#") {
			return;
		}
		var resolved;
		try {
			resolved = new URL(href, window.location.href);
		} catch (err) {
			return;
		}
		if (internalHosts.indexOf(resolved.hostname) !== -1) {
			return;
		}
		event.preventDefault();
		if (typeof window.%[3]s === "function") {
			window.%[3]s(resolved.href);
		}
	}, true);
})();`

// Script renders the click-interception script with hosts as the set of
// hostnames considered internal to the shell. A click on an anchor whose
// href resolves to any other hostname is suppressed and the resolved
// absolute URL is passed to the BindName function. Same-page fragments and
// malformed hrefs are left to the page.
func Script(hosts []string) (string, error) {
	page := pageHosts(hosts)
	if len(page) == 0 {
		return "", ErrNoHosts
	}
	encoded, err := json.Marshal(page)
	if err != nil {
		return "", fmt.Errorf("encoding internal hosts: %w", err)
	}
	return fmt.Sprintf(scriptTemplate, Marker, string(encoded), BindName), nil
}

// pageHosts normalizes hosts for comparison against URL.hostname, which
// keeps the brackets around IPv6 literals; each IPv6 entry therefore gets a
// bracketed twin.
func pageHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, host := range hosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host == "" {
			continue
		}
		out = append(out, host)
		if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
			out = append(out, "["+host+"]")
		}
	}
	return out
}
