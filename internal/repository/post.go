package repository

import (
	"context"
	"errors"
	"time"

	"github.com/RYAHE/Ruche-RS/internal/models"

	"gorm.io/gorm"
)

// SearchOptions collects the optional filters of an advanced post search.
// Zero values mean "not filtered". SortBy and Order are validated against an
// allow-list; anything else falls back to newest-first.
type SearchOptions struct {
	Term       string
	CategoryID uint
	DateFrom   *time.Time
	DateTo     *time.Time
	SortBy     string
	Order      string
}

// Sort fields accepted by SearchAdvanced.
const (
	SortByCreatedAt     = "created_at"
	SortByLikesCount    = "likes_count"
	SortByCommentsCount = "comments_count"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByIDForAdmin(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListForAdmin(ctx context.Context, limit, offset int, excludeCategory uint) ([]*models.Post, error)
	GetByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Post, error)
	GetByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	Search(ctx context.Context, term string, limit, offset int) ([]*models.Post, error)
	SearchAdvanced(ctx context.Context, opts SearchOptions, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, id uint, title, content string, categoryID uint, anonymous bool) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isForeignKeyConstraintError(err) {
			return models.NewNotFoundError("Category", post.CategoryID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// applyPostDetails adds the joined author/category columns and count
// subqueries in a single query. When masked, anonymous posts expose the
// sentinel author and a NULL author id; the stored user_id is untouched
// and still drives ownership checks.
func (r *postRepository) applyPostDetails(db *gorm.DB, masked bool) *gorm.DB {
	selectQuery := "posts.*, " +
		"categories.name AS category_name, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) AS comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count"

	if masked {
		db = db.Select(selectQuery+
			", CASE WHEN posts.anonymous THEN ? ELSE users.username END AS author"+
			", CASE WHEN posts.anonymous THEN NULL ELSE users.id END AS author_id",
			models.AnonymousAuthor)
	} else {
		db = db.Select(selectQuery +
			", users.username AS author" +
			", users.id AS author_id")
	}

	return db.
		Joins("LEFT JOIN users ON users.id = posts.user_id").
		Joins("LEFT JOIN categories ON categories.id = posts.category_id")
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), true).
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// GetByIDForAdmin returns a post without the anonymity mask, including
// soft-deleted rows.
func (r *postRepository) GetByIDForAdmin(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx).Unscoped(), false).
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), true).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListForAdmin(ctx context.Context, limit, offset int, excludeCategory uint) ([]*models.Post, error) {
	var posts []*models.Post
	query := r.applyPostDetails(r.db.WithContext(ctx).Unscoped(), false)
	if excludeCategory != 0 {
		query = query.Where("posts.category_id <> ?", excludeCategory)
	}
	err := query.
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), true).
		Where("posts.category_id = ?", categoryID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), true).
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Search(ctx context.Context, term string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + term + "%"
	err := r.applyPostDetails(r.db.WithContext(ctx), true).
		Where("posts.title ILIKE ? OR posts.content ILIKE ?", like, like).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applySort appends the ORDER BY clause for the requested sort field and
// direction. Unknown values silently fall back to newest-first; the sort
// expression is assembled only from allow-listed strings, never from input.
func (r *postRepository) applySort(db *gorm.DB, sortBy, order string) *gorm.DB {
	direction := "DESC"
	if order == "asc" || order == "ASC" {
		direction = "ASC"
	}

	// likes_count and comments_count are SELECT aliases from applyPostDetails;
	// PostgreSQL allows referencing them in ORDER BY within the same query level.
	switch sortBy {
	case SortByLikesCount:
		return db.Order("likes_count " + direction)
	case SortByCommentsCount:
		return db.Order("comments_count " + direction)
	case SortByCreatedAt:
		return db.Order("posts.created_at " + direction)
	default:
		return db.Order("posts.created_at " + direction)
	}
}

func (r *postRepository) SearchAdvanced(ctx context.Context, opts SearchOptions, limit, offset int) ([]*models.Post, error) {
	query := r.applyPostDetails(r.db.WithContext(ctx), true)

	if opts.Term != "" {
		like := "%" + opts.Term + "%"
		query = query.Where("posts.title ILIKE ? OR posts.content ILIKE ?", like, like)
	}
	if opts.CategoryID != 0 {
		query = query.Where("posts.category_id = ?", opts.CategoryID)
	}
	if opts.DateFrom != nil {
		query = query.Where("posts.created_at >= ?", *opts.DateFrom)
	}
	if opts.DateTo != nil {
		query = query.Where("posts.created_at <= ?", *opts.DateTo)
	}

	var posts []*models.Post
	err := r.applySort(query, opts.SortBy, opts.Order).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, id uint, title, content string, categoryID uint, anonymous bool) error {
	// The default scope filters deleted_at IS NULL, so updating a
	// soft-deleted post reports not-found instead of resurrecting it.
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":       title,
			"content":     content,
			"category_id": categoryID,
			"anonymous":   anonymous,
		})
	if result.Error != nil {
		if isForeignKeyConstraintError(result.Error) {
			return models.NewNotFoundError("Category", categoryID)
		}
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING is atomic: under concurrent duplicate
	// requests the first writer wins and the second observes zero rows
	// affected, which is still a success.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if result.Error != nil {
		if isForeignKeyConstraintError(result.Error) {
			return models.NewNotFoundError("Post", postID)
		}
		return models.NewInternalError(result.Error)
	}
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
