package ai

import (
	"strings"
	"testing"

	"github.com/researchhub/core/internal/models"
)

func TestUnmarshalAIJSONToleratesCodeFences(t *testing.T) {
	cases := []string{
		`{"title":"On Memory","authors":["Ebbinghaus, Hermann"]}`,
		"```json\n{\"title\":\"On Memory\",\"authors\":[\"Ebbinghaus, Hermann\"]}\n```",
		"```\n{\"title\":\"On Memory\",\"authors\":[\"Ebbinghaus, Hermann\"]}\n```",
		"Here is the metadata you asked for:\n{\"title\":\"On Memory\",\"authors\":[\"Ebbinghaus, Hermann\"]}",
	}

	for _, raw := range cases {
		var meta models.CitationMeta
		if err := unmarshalAIJSON(raw, &meta); err != nil {
			t.Errorf("unmarshalAIJSON(%q) error: %v", raw, err)
			continue
		}
		if meta.Title != "On Memory" {
			t.Errorf("Title = %q, want %q", meta.Title, "On Memory")
		}
	}
}

func TestUnmarshalAIJSONRejectsGarbage(t *testing.T) {
	var meta models.CitationMeta
	if err := unmarshalAIJSON("I could not find any metadata, sorry!", &meta); err == nil {
		t.Error("unmarshalAIJSON accepted non-JSON output")
	}
}

func TestTruncateTextIsRuneSafe(t *testing.T) {
	text := strings.Repeat("ü", 100)
	got := truncateText(text, 10)
	if !strings.HasPrefix(got, strings.Repeat("ü", 10)) || !strings.HasSuffix(got, "...") {
		t.Errorf("truncateText = %q", got)
	}
	if short := truncateText("abc", 10); short != "abc" {
		t.Errorf("truncateText left short text alone: %q", short)
	}
}

func TestNormalizeChatEndpoint(t *testing.T) {
	cases := map[string]string{
		"":                              "https://api.openai.com",
		"https://api.openai.com":        "https://api.openai.com",
		"https://api.openai.com/":       "https://api.openai.com",
		"https://api.openai.com/v1":     "https://api.openai.com",
		"https://llm.example.com/v1/":   "https://llm.example.com",
		"https://llm.example.com/proxy": "https://llm.example.com/proxy",
	}
	for in, want := range cases {
		if got := normalizeChatEndpoint(in); got != want {
			t.Errorf("normalizeChatEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFlattenHistory(t *testing.T) {
	history := []Message{
		{Role: models.RoleUser, Content: "What is the main claim?"},
		{Role: models.RoleAssistant, Content: "The paper argues for spaced repetition."},
		{Role: models.RoleUser, Content: "And the evidence?"},
	}

	got := flattenHistory(history)
	want := "User: What is the main claim?\n\nAssistant: The paper argues for spaced repetition.\n\nUser: And the evidence?"
	if got != want {
		t.Errorf("flattenHistory = %q, want %q", got, want)
	}
}
