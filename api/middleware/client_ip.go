package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the caller address, honoring proxy headers. Falls back
// to loopback when nothing usable is present so the gateway always receives
// an IP.
func ClientIP(r *http.Request) string {
	if r == nil {
		return "127.0.0.1"
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "127.0.0.1"
}
