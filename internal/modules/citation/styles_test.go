package citation

import (
	"strings"
	"testing"

	"github.com/researchhub/core/internal/models"
)

var sampleMeta = models.CitationMeta{
	Title:     "Thinking, Fast and Slow",
	Authors:   []string{"Kahneman, Daniel"},
	Publisher: "Farrar, Straus and Giroux",
	Year:      "2011",
}

func TestRenderAPA(t *testing.T) {
	got := Render("apa", sampleMeta)
	want := "Kahneman, D. (2011). Thinking, Fast and Slow. Farrar, Straus and Giroux."
	if got != want {
		t.Errorf("Render(apa) = %q, want %q", got, want)
	}
}

func TestRenderAPATwoAuthorsWithDOI(t *testing.T) {
	meta := models.CitationMeta{
		Title:   "Retrieval Practice",
		Authors: []string{"Roediger, Henry L.", "Karpicke, Jeffrey D."},
		Year:    "2006",
		DOI:     "10.1111/j.1467-9280.2006.01693.x",
	}

	got := Render("apa", meta)
	if !strings.HasPrefix(got, "Roediger, H. L., & Karpicke, J. D. (2006).") {
		t.Errorf("Render(apa) author block wrong: %q", got)
	}
	if !strings.HasSuffix(got, "https://doi.org/10.1111/j.1467-9280.2006.01693.x") {
		t.Errorf("Render(apa) missing doi link: %q", got)
	}
}

func TestRenderMLA(t *testing.T) {
	got := Render("mla", sampleMeta)
	want := "Kahneman, Daniel. Thinking, Fast and Slow. Farrar, Straus and Giroux, 2011."
	if got != want {
		t.Errorf("Render(mla) = %q, want %q", got, want)
	}
}

func TestRenderMLAThreeAuthorsEtAl(t *testing.T) {
	meta := models.CitationMeta{
		Title:   "Make It Stick",
		Authors: []string{"Brown, Peter C.", "Roediger, Henry L.", "McDaniel, Mark A."},
		Year:    "2014",
	}

	got := Render("mla", meta)
	if !strings.Contains(got, "et al") {
		t.Errorf("Render(mla) with 3 authors should collapse to et al: %q", got)
	}
}

func TestRenderHarvard(t *testing.T) {
	got := Render("harvard", sampleMeta)
	if !strings.HasPrefix(got, "Kahneman, D. (2011) Thinking, Fast and Slow.") {
		t.Errorf("Render(harvard) = %q", got)
	}
}

func TestRenderUnknownStyleFallsBack(t *testing.T) {
	if Render("vancouver", sampleMeta) != Render(DefaultStyle, sampleMeta) {
		t.Error("unknown style did not fall back to the default rendering")
	}
}

func TestRenderHandlesSparseMetadata(t *testing.T) {
	meta := models.CitationMeta{Title: "Untitled Manuscript"}
	for _, style := range StyleNames() {
		got := Render(style, meta)
		if strings.TrimSpace(got) == "" {
			t.Errorf("Render(%s) empty for title-only metadata", style)
		}
	}
}
