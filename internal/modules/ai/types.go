package ai

// BackendInfo is the client-visible view of a configured backend.
// Credentials never leave the server.
type BackendInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Model           string `json:"model"`
	AcceptsHistory  bool   `json:"accepts_history"`
	SupportsVision  bool   `json:"supports_vision"`
	CooldownSeconds int    `json:"cooldown_seconds"`
}

// SummarizeDTO asks for a summary of a document or of pasted text.
// Exactly one of DocumentID and Text must be set.
type SummarizeDTO struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	Language   string `json:"language"`
	Backend    string `json:"backend"`
	SaveAsNote bool   `json:"save_as_note"`
}

// ParaphraseDTO rewrites a passage in a chosen register.
type ParaphraseDTO struct {
	Text       string `json:"text" binding:"required"`
	Style      string `json:"style"` // formal | casual | concise
	Backend    string `json:"backend"`
	DocumentID string `json:"document_id"`
	SaveAsNote bool   `json:"save_as_note"`
}

// ExplainDTO asks for a plain-language explanation of a selection.
type ExplainDTO struct {
	Selection  string `json:"selection" binding:"required"`
	Context    string `json:"context"`
	Backend    string `json:"backend"`
	DocumentID string `json:"document_id"`
}

// GenerationResult carries the completion plus the note created when the
// caller asked to keep it.
type GenerationResult struct {
	Text   string `json:"text"`
	NoteID string `json:"note_id,omitempty"`
}
