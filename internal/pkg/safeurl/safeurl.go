// Package safeurl validates outbound fetch targets so server-side
// requests can never be steered at internal infrastructure.
package safeurl

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

var (
	ErrNotHTTP     = errors.New("target must be an absolute http(s) url")
	ErrBlockedHost = errors.New("target host is not allowed")
)

// Validate enforces the SSRF guard: only absolute http(s) URLs, and
// never loopback, link-local, or private-range hosts. The check runs
// before any upstream fetch is attempted.
func Validate(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNotHTTP
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrNotHTTP
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, ErrNotHTTP
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return nil, ErrBlockedHost
	}
	if ip := net.ParseIP(host); ip != nil && isBlockedIP(ip) {
		return nil, ErrBlockedHost
	}

	return u, nil
}

func isBlockedIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
