package models

import "time"

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique; the database
// constraint, not application logic, resolves concurrent duplicate inserts.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentLike represents a user's like on a comment, unique per
// (UserID, CommentID) pair under the same constraint-first rule as Like.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_likes_user_comment" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_likes_user_comment" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}
