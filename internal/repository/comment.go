package repository

import (
	"context"
	"errors"

	"github.com/RYAHE/Ruche-RS/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	GetByPostID(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error)
	Update(ctx context.Context, id uint, content string, anonymous bool) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, commentID uint) (bool, error)
	Like(ctx context.Context, userID, commentID uint) error
	Unlike(ctx context.Context, userID, commentID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		if isForeignKeyConstraintError(err) {
			return models.NewNotFoundError("Post", comment.PostID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// applyCommentDetails adds the masked author columns and the like count
// subquery, mirroring the post query shape.
func (r *commentRepository) applyCommentDetails(db *gorm.DB) *gorm.DB {
	return db.Select("comments.*, "+
		"CASE WHEN comments.anonymous THEN ? ELSE users.username END AS author, "+
		"CASE WHEN comments.anonymous THEN NULL ELSE users.id END AS author_id, "+
		"(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) AS likes_count",
		models.AnonymousAuthor).
		Joins("LEFT JOIN users ON users.id = comments.user_id")
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.applyCommentDetails(r.db.WithContext(ctx)).
		Where("comments.id = ?", id).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) GetByPostID(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.applyCommentDetails(r.db.WithContext(ctx)).
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, id uint, content string, anonymous bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":   content,
			"anonymous": anonymous,
		})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

func (r *commentRepository) IsLiked(ctx context.Context, userID, commentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *commentRepository) Like(ctx context.Context, userID, commentID uint) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO comment_likes (user_id, comment_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, comment_id) DO NOTHING`,
		userID, commentID,
	)
	if result.Error != nil {
		if isForeignKeyConstraintError(result.Error) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return models.NewInternalError(result.Error)
	}
	return nil
}

func (r *commentRepository) Unlike(ctx context.Context, userID, commentID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&models.CommentLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
