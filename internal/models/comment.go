package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post in the SenseShare application.
// Comments are immutable once created except for soft-delete by their author.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	AuthorID  string         `gorm:"not null;size:64" json:"author_id"`
	Author    Profile        `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
