package models

import "time"

// ReactionTag is a community-contributed short label with a vote count,
// scoped to a single post. The (post_id, tag) pair is unique; concurrent
// voters go through an atomic server-side upsert, never read-then-write.
type ReactionTag struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_tag" json:"-"`
	Tag       string    `gorm:"not null;uniqueIndex:idx_post_tag" json:"tag"`
	Count     int       `gorm:"not null;default:1" json:"count"`
	CreatedAt time.Time `json:"-"`
}
