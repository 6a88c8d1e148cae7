package ai

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultRateLimitWait is reported when a backend signals throttling
// without naming a wait time.
const DefaultRateLimitWait = 30

// RateLimitError tells the caller how long to hold off before retrying
// the same backend.
type RateLimitError struct {
	BackendID string
	Wait      int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("backend %s is rate limited, retry in %d seconds", e.BackendID, e.Wait)
}

// AsRateLimit unwraps err into a RateLimitError when possible.
func AsRateLimit(err error) (*RateLimitError, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle, true
	}
	return nil, false
}

// Wait-time phrasings seen across OpenAI-wire providers. Seconds may be
// fractional ("try again in 1.2s"); those round up.
var rateLimitWaitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)wait\s+(\d+(?:\.\d+)?)\s*seconds?`),
	regexp.MustCompile(`(?i)try again in\s+(\d+(?:\.\d+)?)\s*s(?:ec(?:onds?)?)?\b`),
	regexp.MustCompile(`(?i)retry[-\s]?after[:\s]+(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*seconds? remaining`),
}

// ParseRateLimitWait pulls a wait time in whole seconds out of a
// provider error message. The second return is false when no wait time
// is present.
func ParseRateLimitWait(message string) (int, bool) {
	for _, pattern := range rateLimitWaitPatterns {
		match := pattern.FindStringSubmatch(message)
		if len(match) < 2 {
			continue
		}
		secs, err := strconv.ParseFloat(match[1], 64)
		if err != nil || secs < 0 {
			continue
		}
		wait := int(math.Ceil(secs))
		if wait < 1 {
			wait = 1
		}
		return wait, true
	}
	return 0, false
}

// looksRateLimited reports whether a provider error is a throttling
// signal even if it carries no explicit wait time.
func looksRateLimited(message string) bool {
	lowered := strings.ToLower(message)
	return strings.Contains(lowered, "rate limit") ||
		strings.Contains(lowered, "too many requests") ||
		strings.Contains(lowered, "429") ||
		strings.Contains(lowered, "quota exceeded")
}

// classifyBackendError turns a raw provider error into either a
// RateLimitError with a concrete wait or passes it through untouched.
func classifyBackendError(backendID string, err error) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if wait, ok := ParseRateLimitWait(message); ok {
		return &RateLimitError{BackendID: backendID, Wait: wait}
	}
	if looksRateLimited(message) {
		return &RateLimitError{BackendID: backendID, Wait: DefaultRateLimitWait}
	}
	return err
}
