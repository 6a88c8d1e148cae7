package models

// AINoteType tags notes produced by an AI feature.
type AINoteType string

const (
	AINoteSummary     AINoteType = "summary"
	AINoteParaphrase  AINoteType = "paraphrase"
	AINoteExplanation AINoteType = "explanation"
)

// NoteModel is a free-text note attached to a document.
type NoteModel struct {
	Owned
	DocumentID  string     `json:"document_id"  gorm:"type:char(36);index;not null"`
	Content     string     `json:"content"      gorm:"type:longtext"`
	Tags        []string   `json:"tags"         gorm:"type:longtext;serializer:json"`
	AIGenerated bool       `json:"ai_generated" gorm:"default:false"`
	AIType      AINoteType `json:"ai_type,omitempty" gorm:"type:varchar(16)"`
}

func (NoteModel) TableName() string { return "notes" }
