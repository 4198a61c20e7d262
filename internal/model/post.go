package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a status update with optional image and video link attachments.
type Post struct {
	ID       uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	ImageURL string    `json:"imageUrl" gorm:"size:512;not null;default:''"`
	Youtube  string    `json:"youtube" gorm:"size:512;not null;default:''"`
	// UserID is always the authenticated author, never a client-supplied value.
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `json:"date" gorm:"index"`
}

// BeforeCreate assigns a time-ordered UUID before creating the record.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		p.ID = id
	}
	return nil
}
