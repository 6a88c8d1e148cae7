package document

import "github.com/researchhub/core/internal/models"

// RegisterDTO creates a document record pointing at an external URL
// instead of an uploaded file.
type RegisterDTO struct {
	Title     string                  `json:"title" binding:"required"`
	Authors   []string                `json:"authors"`
	SourceURL string                  `json:"source_url" binding:"required"`
	FileType  models.DocumentFileType `json:"file_type" binding:"required"`
}

// UpdateDTO mutates the editable fields of a document. Progress is a
// reading-position percentage and is clamped to 0..100.
type UpdateDTO struct {
	Title    *string   `json:"title"`
	Authors  *[]string `json:"authors"`
	Progress *float64  `json:"progress"`
}
