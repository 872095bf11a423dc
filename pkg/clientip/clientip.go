package clientip

import (
	"net"
	"net/http"
	"strings"
)

// GetIP returns the client address of r. Proxy headers are consulted in
// order: CF-Connecting-IP, the first valid X-Forwarded-For entry, X-Real-IP.
// RemoteAddr is the fallback. Malformed values are skipped, and the result is
// empty only when nothing parses.
func GetIP(r *http.Request) string {
	if ip := parseIP(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	for candidate := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := parseIP(candidate); ip != "" {
			return ip
		}
	}

	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP returns the canonical form of s, or "" if it is not an address.
func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
