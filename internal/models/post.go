package models

import (
	"time"

	"gorm.io/gorm"
)

// Post type values.
const (
	PostTypeBest  = "best"
	PostTypeWorst = "worst"
)

// Post represents a best/worst experience entry in the SenseShare application.
type Post struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Category   string  `json:"category"`
	Type       string  `gorm:"not null" json:"type"`
	Situation  string  `gorm:"type:text;not null" json:"situation"`
	Sensation  string  `gorm:"type:text;not null" json:"sensation"`
	EmotionTag string  `json:"emotion_tag"`
	AuthorID   string  `gorm:"not null;index;size:64" json:"author_id"`
	Author     Profile `gorm:"foreignKey:AuthorID" json:"author"`
	// Likes, AgreeCount and DisagreeCount are anonymous monotonic counters
	// written as absolute values (last-writer-wins under concurrent clients).
	Likes         int `gorm:"not null;default:0" json:"likes"`
	AgreeCount    int `gorm:"not null;default:0" json:"agree_count"`
	DisagreeCount int `gorm:"not null;default:0" json:"disagree_count"`
	// CommentsCount is not persisted; computed at query time so it always
	// equals len(Comments) at the refetch boundary
	CommentsCount int            `gorm:"->" json:"comments_count"`
	Comments      []Comment      `gorm:"foreignKey:PostID" json:"comments"`
	ReactionTags  []ReactionTag  `gorm:"foreignKey:PostID" json:"reaction_tags"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TotalVotes returns the combined agree/disagree tally.
func (p *Post) TotalVotes() int {
	return p.AgreeCount + p.DisagreeCount
}

// Clone returns a shallow copy of the post with its own comment and tag
// slices, so optimistic mutations never alias a published snapshot.
func (p *Post) Clone() *Post {
	cp := *p
	cp.Comments = append([]Comment(nil), p.Comments...)
	cp.ReactionTags = append([]ReactionTag(nil), p.ReactionTags...)
	return &cp
}
