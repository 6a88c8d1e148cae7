package models

import "time"

// ExtractionMethod names the strategy that produced an extraction.
type ExtractionMethod string

const (
	MethodPDFCo     ExtractionMethod = "pdfco"
	MethodTextLayer ExtractionMethod = "text-layer"
	MethodOCR       ExtractionMethod = "ocr"
)

// ExtractedTextModel holds the machine-readable text of a document.
// At most one row per document; a re-extraction replaces the prior one.
type ExtractedTextModel struct {
	Base
	DocumentID  string           `json:"document_id" gorm:"type:char(36);uniqueIndex;not null"`
	Text        string           `json:"text"        gorm:"type:longtext"`
	Method      ExtractionMethod `json:"method"      gorm:"type:varchar(16);not null"`
	WordCount   int              `json:"word_count"`
	CharCount   int              `json:"char_count"`
	Language    string           `json:"language,omitempty" gorm:"type:varchar(8)"`
	ExtractedAt time.Time        `json:"extracted_at"`
}

func (ExtractedTextModel) TableName() string { return "extracted_texts" }
