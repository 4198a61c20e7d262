package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a reply attached to a post by reference. The post is not
// required to exist unless the comment service is configured to check it.
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	PostID    uuid.UUID `json:"postId" gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `json:"date" gorm:"index"`
}

// BeforeCreate assigns a time-ordered UUID before creating the record.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		c.ID = id
	}
	return nil
}
