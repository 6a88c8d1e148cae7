package models

// CitationMeta is the bibliographic record all citation styles are
// derived from. Styles are pure functions of this struct and are never
// stored; only the default rendering is.
type CitationMeta struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Publisher string   `json:"publisher,omitempty"`
	Year      string   `json:"year,omitempty"`
	Edition   string   `json:"edition,omitempty"`
	ISBN      string   `json:"isbn,omitempty"`
	DOI       string   `json:"doi,omitempty"`
	URL       string   `json:"url,omitempty"`
}

// CitationModel is a generated bibliographic entry for a document.
// Metadata is immutable once generated; the only edit path is
// delete + regenerate.
type CitationModel struct {
	Owned
	DocumentID string       `json:"document_id" gorm:"type:char(36);index;not null;uniqueIndex:idx_doc_citation_no"`
	Number     int          `json:"number"      gorm:"not null;uniqueIndex:idx_doc_citation_no"`
	Rendered   string       `json:"rendered"    gorm:"type:text"` // default style, pre-rendered
	Meta       CitationMeta `json:"meta"        gorm:"type:longtext;serializer:json"`
}

func (CitationModel) TableName() string { return "citations" }
