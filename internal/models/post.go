// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// DateLayout is the display format posts are stamped with at creation time,
// e.g. "August 28, 2026". The stamp never changes on edit.
const DateLayout = "January 2, 2006"

// Post represents a blog post. Posts are hard-deleted; comments go with them.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"uniqueIndex;not null" json:"title"`
	Subtitle  string    `gorm:"not null" json:"subtitle"`
	Date      string    `gorm:"not null" json:"date"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	ImgURL    string    `gorm:"not null" json:"img_url"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	Comments  []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (Post) TableName() string {
	return "blog_posts"
}
