// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Profile represents a user profile in the SenseShare application.
// The ID is the subject identifier issued by the external identity service.
type Profile struct {
	ID          string         `gorm:"primaryKey;size:64" json:"id"`
	DisplayName *string        `json:"display_name"`
	AvatarURL   *string        `json:"avatar_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IdenticonURL builds the deterministic identicon address for an ID. It is
// the default avatar for profiles that never uploaded one.
func IdenticonURL(id string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/identicon/svg?seed=%s", id)
}
