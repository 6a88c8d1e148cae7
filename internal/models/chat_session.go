package models

import "time"

// ChatRole tags a chat message sender.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn inside a session's message list.
type ChatMessage struct {
	Role    ChatRole  `json:"role"`
	Content string    `json:"content"`
	Created time.Time `json:"created"`
}

// ChatSessionModel is a Q&A conversation grounded on one document.
type ChatSessionModel struct {
	Owned
	DocumentID      string        `json:"document_id" gorm:"type:char(36);index;not null"`
	Title           string        `json:"title"`
	ModelID         string        `json:"model_id"    gorm:"type:varchar(64)"`
	Messages        []ChatMessage `json:"messages"    gorm:"type:longtext;serializer:json"`
	ContextSnapshot string        `json:"-"           gorm:"type:longtext"` // cached extracted-text excerpt
}

func (ChatSessionModel) TableName() string { return "chat_sessions" }
