package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/researchhub/core/internal/config"
)

var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)

// LooksLikeLinkFooter reports whether extracted text is junk output: the
// kind of short URL-dominated fragment a text layer yields on scanned or
// certificate-style PDFs where only a footer line plus a verification
// link survives. Junk text is rejected so the pipeline falls through to
// the next stage.
//
// The minimum-length gate is NOT applied here; it belongs to the caller
// (see Usable). Rules, in order:
//  1. at most 2 non-empty lines, at least 1 URL, and under
//     FooterMaxLength runes total: classic single-line footer + link
//  2. at least 1 URL, under MostlyLinkMaxLength runes total, and the
//     whitespace-collapsed non-URL remainder under NonURLFloor runes:
//     mostly-link document
func LooksLikeLinkFooter(text string, cfg config.ExtractionConfig) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	length := utf8.RuneCountInString(trimmed)
	urls := len(urlPattern.FindAllString(trimmed, -1))
	if urls == 0 {
		return false
	}

	if countNonEmptyLines(trimmed) <= 2 && length < cfg.FooterMaxLength {
		return true
	}
	if length < cfg.MostlyLinkMaxLength {
		stripped := urlPattern.ReplaceAllString(trimmed, " ")
		stripped = strings.Join(strings.Fields(stripped), " ")
		if utf8.RuneCountInString(stripped) < cfg.NonURLFloor {
			return true
		}
	}
	return false
}

// Usable applies the full acceptance check for one stage's output: the
// absolute minimum-length gate first, then the link-footer heuristic.
func Usable(text string, cfg config.ExtractionConfig) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < cfg.MinAcceptLength {
		return false
	}
	return !LooksLikeLinkFooter(trimmed, cfg)
}

func countNonEmptyLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
