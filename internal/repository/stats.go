package repository

import (
	"context"

	"github.com/RYAHE/Ruche-RS/internal/models"

	"gorm.io/gorm"
)

// Stats holds the aggregate counters exposed to administrators.
type Stats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalPosts        int64 `json:"total_posts"`
	AnonymousPosts    int64 `json:"anonymous_posts"`
	TotalComments     int64 `json:"total_comments"`
	AnonymousComments int64 `json:"anonymous_comments"`
	TotalLikes        int64 `json:"total_likes"`
}

// StatsRepository collects aggregate statistics for the admin dashboard.
type StatsRepository interface {
	Collect(ctx context.Context) (*Stats, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository returns a new StatsRepository implementation.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Collect counts non-deleted users, posts and comments, the anonymous subset
// of each content type, and every like (post and comment likes combined).
func (r *statsRepository) Collect(ctx context.Context) (*Stats, error) {
	db := r.db.WithContext(ctx)
	stats := &Stats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, db.Model(&models.User{})},
		{&stats.TotalPosts, db.Model(&models.Post{})},
		{&stats.AnonymousPosts, db.Model(&models.Post{}).Where("anonymous = ?", true)},
		{&stats.TotalComments, db.Model(&models.Comment{})},
		{&stats.AnonymousComments, db.Model(&models.Comment{}).Where("anonymous = ?", true)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	var postLikes, commentLikes int64
	if err := db.Model(&models.Like{}).Count(&postLikes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.CommentLike{}).Count(&commentLikes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	stats.TotalLikes = postLikes + commentLikes

	return stats, nil
}
