package models

// DocumentFileType is the declared upload format of a document.
type DocumentFileType string

const (
	FileTypePDF  DocumentFileType = "pdf"
	FileTypeEPUB DocumentFileType = "epub"
	FileTypeTXT  DocumentFileType = "txt"
)

// DocumentModel is an uploaded or linked research document.
type DocumentModel struct {
	Owned
	Title      string           `json:"title"       gorm:"not null"`
	Authors    []string         `json:"authors"     gorm:"type:longtext;serializer:json"`
	SourceURL  string           `json:"source_url"  gorm:"type:varchar(2048)"`
	StorageKey string           `json:"storage_key" gorm:"type:varchar(512)"` // set when the file lives in our bucket
	FileType   DocumentFileType `json:"file_type"   gorm:"type:varchar(8);not null"`
	SizeBytes  int64            `json:"size"`
	Progress   float64          `json:"progress"    gorm:"default:0"` // reading progress, 0..100
}

func (DocumentModel) TableName() string { return "documents" }

// ValidFileType reports whether t is one of the supported formats.
func ValidFileType(t DocumentFileType) bool {
	switch t {
	case FileTypePDF, FileTypeEPUB, FileTypeTXT:
		return true
	}
	return false
}
