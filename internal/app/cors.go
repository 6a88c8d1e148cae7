package app

import (
	"net/url"
	"strings"
)

// originAllowed reports whether an Origin header value matches any of the
// configured patterns. Patterns cover three shapes: an exact host,
// "*.example.com" for any subdomain, and "localhost:*" for any port.
func originAllowed(patterns []string, origin string) bool {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Host
	}
	for _, pattern := range patterns {
		if matchOriginPattern(pattern, host) {
			return true
		}
	}
	return false
}

func matchOriginPattern(pattern, host string) bool {
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
