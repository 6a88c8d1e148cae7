package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is the base model for all entities.
// ID is a UUID string so records keep stable identifiers across exports.
type Base struct {
	ID        string         `json:"id"       gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time      `json:"created"`
	UpdatedAt time.Time      `json:"modified"`
	DeletedAt gorm.DeletedAt `json:"-"        gorm:"index"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// Owned adds the owning user to records that are scoped per account.
// The account itself lives in the external auth provider; only the
// subject id from its tokens is persisted here.
type Owned struct {
	Base
	UserID string `json:"user_id" gorm:"type:char(64);index;not null"`
}
