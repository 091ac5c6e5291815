package models

import "time"

// Category groups posts by topic. Deleting a category is blocked while
// posts (including soft-deleted ones) still reference it.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Posts       []Post    `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"posts,omitempty"`
}
