package models

import (
	"time"

	"gorm.io/gorm"
)

// AnonymousAuthor is the sentinel shown in place of the real author when a
// post or comment is anonymous. Masking happens at query time; the stored
// UserID is untouched and still drives ownership checks.
const AnonymousAuthor = "anonymous"

// Post represents a forum post inside a category.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	UserID     uint      `gorm:"not null;index" json:"-"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	CategoryID uint      `gorm:"not null;index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"-"`
	Anonymous  bool      `gorm:"not null;default:false" json:"anonymous"`

	// Author and AuthorID are not persisted; computed at query time with the
	// anonymity mask already applied (admin queries skip the mask).
	Author   string `gorm:"->" json:"author"`
	AuthorID *uint  `gorm:"->" json:"author_id"`
	// CategoryName is not persisted; joined at query time
	CategoryName string `gorm:"->" json:"category_name"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
