package extraction

import (
	"strings"
	"testing"

	"github.com/researchhub/core/internal/config"
)

func defaultExtractionConfig() config.ExtractionConfig {
	return config.ExtractionConfig{
		MinAcceptLength:     200,
		FooterMaxLength:     160,
		MostlyLinkMaxLength: 220,
		NonURLFloor:         40,
		MaxOCRPages:         8,
		OCRDPI:              144,
	}
}

func TestUsableRejectsShortTextRegardlessOfContent(t *testing.T) {
	cfg := defaultExtractionConfig()

	cases := []string{
		"",
		"   ",
		"A perfectly fine sentence that is simply too short.",
		strings.Repeat("x", 199),
	}
	for _, text := range cases {
		if Usable(text, cfg) {
			t.Errorf("Usable(%q...) = true, want false for text under %d chars", head(text, 30), cfg.MinAcceptLength)
		}
	}
}

func TestLinkFooterRejectsSentencePlusURL(t *testing.T) {
	cfg := defaultExtractionConfig()

	// one short sentence followed by one URL, total under 160 chars
	text := "Verify this certificate online.\nhttps://example.com/verify/abc123"
	if !LooksLikeLinkFooter(text, cfg) {
		t.Errorf("LooksLikeLinkFooter(%q) = false, want true", text)
	}
}

func TestLinkFooterRejectsTwoLineFooter(t *testing.T) {
	cfg := defaultExtractionConfig()

	// the classic failure mode: 2 non-empty lines, ~90 chars, one URL
	text := "Certificate of Completion awarded to J. Doe\nwww.certs.example.com/check/9f8e7d"
	if !LooksLikeLinkFooter(text, cfg) {
		t.Errorf("LooksLikeLinkFooter(%q) = false, want true", text)
	}
}

func TestLinkFooterAcceptsProse(t *testing.T) {
	cfg := defaultExtractionConfig()

	prose := strings.Repeat("The study examines the long-term effects of spaced repetition on retention. ", 7)
	if len(prose) < 500 {
		t.Fatalf("test fixture too short: %d chars", len(prose))
	}
	if LooksLikeLinkFooter(prose, cfg) {
		t.Error("LooksLikeLinkFooter rejected 500 chars of URL-free prose")
	}
	if !Usable(prose, cfg) {
		t.Error("Usable rejected 500 chars of URL-free prose")
	}
}

func TestLinkFooterRejectsMostlyLinkText(t *testing.T) {
	cfg := defaultExtractionConfig()

	// three lines (so rule 1 does not fire), under 220 chars total,
	// with almost nothing left once URLs are stripped
	text := "See:\nhttps://example.com/a/very/long/path/to/the/document/resource/1234567890\nhttps://example.com/another/very/long/path/to/a/mirror/of/the/document/abcdef"
	if !LooksLikeLinkFooter(text, cfg) {
		t.Errorf("LooksLikeLinkFooter(%q) = false, want true for mostly-link text", text)
	}
}

func TestLinkFooterAcceptsLongTextWithURL(t *testing.T) {
	cfg := defaultExtractionConfig()

	// plenty of prose around a URL must not be classified as a footer
	text := strings.Repeat("A substantive paragraph discussing the methodology in detail. ", 6) +
		"Supplementary data at https://example.com/data."
	if LooksLikeLinkFooter(text, cfg) {
		t.Error("LooksLikeLinkFooter rejected long prose containing one URL")
	}
}

func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
