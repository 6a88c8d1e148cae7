package models

// FeedbackModel is in-app product feedback.
type FeedbackModel struct {
	Owned
	Rating  int    `json:"rating"  gorm:"not null"` // 1..5
	Message string `json:"message" gorm:"type:text"`
	Page    string `json:"page,omitempty" gorm:"type:varchar(256)"` // where it was submitted from
}

func (FeedbackModel) TableName() string { return "feedbacks" }

// ContactMessageModel is a message from the public contact form.
// No owning user: the form is reachable without an account.
type ContactMessageModel struct {
	Base
	Name    string `json:"name"    gorm:"type:varchar(128);not null"`
	Email   string `json:"email"   gorm:"type:varchar(256);not null"`
	Subject string `json:"subject" gorm:"type:varchar(256)"`
	Message string `json:"message" gorm:"type:text;not null"`
}

func (ContactMessageModel) TableName() string { return "contact_messages" }
