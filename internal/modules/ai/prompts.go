package ai

import (
	"fmt"
	"strings"
)

// Character budgets for document text handed to a backend. Prompts stay
// well inside the smallest context window of the configured backends.
const (
	ChatContextBudget  = 10000
	SummaryBudget      = 8000
	ParaphraseBudget   = 6000
	ExplainBudget      = 3000
	CitationTextBudget = 4000
	VisionPromptBudget = 500
)

const chatSystemTemplate = `You are a research assistant answering questions about a document the user has uploaded.
Document title: %s

Use only the document excerpt below to answer. If the excerpt does not contain the answer, say so plainly instead of guessing.

--- DOCUMENT EXCERPT ---
%s
--- END EXCERPT ---`

const summaryTemplate = `Summarize the following document text in %s. Keep the summary faithful to the source, cover the main arguments, and stay under 300 words. Return only the summary, no preamble.

%s`

const paraphraseTemplate = `Paraphrase the following passage in a %s register. Preserve the meaning exactly, do not add or drop claims, and return only the paraphrased text.

%s`

const explainTemplate = `Explain the following passage from a research document in plain language a first-year student would follow. Define any technical terms you use.

Passage:
%s

Surrounding context:
%s`

const citationTemplate = `Extract bibliographic metadata from the beginning of this document. Respond with ONLY a JSON object, no markdown fences and no commentary, using exactly these keys (empty string for anything you cannot find): title, authors (array of strings, each "Family, Given"), publisher, year, edition, isbn, doi, url.

Document text:
%s`

const visionOCRPrompt = `Transcribe all text visible in this page image. Preserve the reading order and paragraph breaks. Output only the transcribed text with no commentary. If the page contains no legible text, output nothing.`

func buildChatSystemPrompt(title, contextText string) string {
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf(chatSystemTemplate, title, truncateText(contextText, ChatContextBudget))
}

func buildSummaryPrompt(language, text string) string {
	if strings.TrimSpace(language) == "" {
		language = "English"
	}
	return fmt.Sprintf(summaryTemplate, language, truncateText(text, SummaryBudget))
}

func buildParaphrasePrompt(style, text string) string {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "casual":
		style = "casual, conversational"
	case "concise":
		style = "concise, compressed"
	default:
		style = "formal academic"
	}
	return fmt.Sprintf(paraphraseTemplate, style, truncateText(text, ParaphraseBudget))
}

func buildExplainPrompt(selection, contextText string) string {
	if strings.TrimSpace(contextText) == "" {
		contextText = "(none provided)"
	}
	return fmt.Sprintf(explainTemplate, truncateText(selection, ExplainBudget), truncateText(contextText, ExplainBudget))
}

func buildCitationPrompt(text string) string {
	return fmt.Sprintf(citationTemplate, truncateText(text, CitationTextBudget))
}
