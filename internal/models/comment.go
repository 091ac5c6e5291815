package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Anonymity and soft-delete rules
// mirror Post, scoped to the parent post.
type Comment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Content   string `gorm:"type:text;not null" json:"content"`
	UserID    uint   `gorm:"not null;index" json:"-"`
	User      *User  `gorm:"foreignKey:UserID" json:"-"`
	PostID    uint   `gorm:"not null;index" json:"post_id"`
	Post      *Post  `gorm:"foreignKey:PostID" json:"-"`
	Anonymous bool   `gorm:"not null;default:false" json:"anonymous"`

	// Author and AuthorID are not persisted; computed at query time with the
	// anonymity mask already applied (admin queries skip the mask).
	Author   string `gorm:"->" json:"author"`
	AuthorID *uint  `gorm:"->" json:"author_id"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
