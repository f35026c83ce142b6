// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Comment belongs to exactly one post and one author. Comments are never
// edited or deleted on their own; they disappear when their post does.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Post      Post      `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
