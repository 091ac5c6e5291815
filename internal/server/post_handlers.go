package server

import (
	"time"

	"github.com/RYAHE/Ruche-RS/internal/models"
	"github.com/RYAHE/Ruche-RS/internal/observability"
	"github.com/RYAHE/Ruche-RS/internal/repository"
	"github.com/RYAHE/Ruche-RS/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID uint   `json:"category_id"`
	Anonymous  bool   `json:"anonymous"`
}

func (s *Server) validatePostRequest(c *fiber.Ctx, req *postRequest) error {
	if err := validation.ValidateTitle(req.Title); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
		return errResponseWritten
	}
	if err := validation.ValidateContent(req.Content); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
		return errResponseWritten
	}
	if req.CategoryID == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title, content and category are required"))
		return errResponseWritten
	}
	return nil
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validatePostRequest(c, &req); err != nil {
		return nil
	}

	if _, err := s.categoryRepo.GetByID(c.Context(), req.CategoryID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	user := s.currentUser(c)
	post := &models.Post{
		Title:      req.Title,
		Content:    req.Content,
		UserID:     user.ID,
		CategoryID: req.CategoryID,
		Anonymous:  req.Anonymous,
	}
	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	// Re-read through the masked query so the response carries the computed
	// author and count columns.
	created, err := s.postRepo.GetByID(c.Context(), post.ID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	observability.ContentCreated.WithLabelValues(observability.ContentPost).Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    created,
	})
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 10)

	posts, err := s.postRepo.List(c.Context(), p.Limit, p.Offset())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Posts retrieved successfully",
		"page":    p.Page,
		"limit":   p.Limit,
		"posts":   posts,
	})
}

// GetPost handles GET /api/posts/:id and includes the post's first page of comments.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	comments, err := s.commentRepo.GetByPostID(c.Context(), id, 20, 0)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message":  "Post retrieved successfully",
		"post":     post,
		"comments": comments,
	})
}

// UpdatePost handles PUT /api/posts/:id. Only the author may edit, checked
// against the currently persisted row; a soft-deleted post reads as not-found
// before the ownership check ever runs.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if post.UserID != s.currentUser(c).ID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You are not allowed to edit this post"))
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validatePostRequest(c, &req); err != nil {
		return nil
	}

	if updateErr := s.postRepo.Update(c.Context(), id, req.Title, req.Content, req.CategoryID, req.Anonymous); updateErr != nil {
		return models.RespondWithError(c, models.StatusForError(updateErr), updateErr)
	}

	updated, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Post updated successfully",
		"post":    updated,
	})
}

// DeletePost handles DELETE /api/posts/:id (soft delete, owner only).
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if post.UserID != s.currentUser(c).ID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You are not allowed to delete this post"))
	}

	if deleteErr := s.postRepo.Delete(c.Context(), id); deleteErr != nil {
		return models.RespondWithError(c, models.StatusForError(deleteErr), deleteErr)
	}

	return c.JSON(fiber.Map{
		"message": "Post deleted successfully",
		"id":      id,
	})
}

// LikePost handles POST /api/posts/:id/like. The handler pre-checks so a
// duplicate like surfaces as a conflict; the unique constraint stays the
// authority if two first likes race past the pre-check.
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.postRepo.GetByID(c.Context(), id); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	userID := s.currentUser(c).ID
	liked, err := s.postRepo.IsLiked(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if liked {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("You have already liked this post"))
	}

	if likeErr := s.postRepo.Like(c.Context(), userID, id); likeErr != nil {
		return models.RespondWithError(c, models.StatusForError(likeErr), likeErr)
	}
	observability.ContentCreated.WithLabelValues(observability.ContentLike).Inc()

	return c.JSON(fiber.Map{
		"message": "Like added successfully",
	})
}

// UnlikePost handles DELETE /api/posts/:id/like.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := s.currentUser(c).ID
	liked, err := s.postRepo.IsLiked(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if !liked {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You have not liked this post"))
	}

	if unlikeErr := s.postRepo.Unlike(c.Context(), userID, id); unlikeErr != nil {
		return models.RespondWithError(c, models.StatusForError(unlikeErr), unlikeErr)
	}

	return c.JSON(fiber.Map{
		"message": "Like removed successfully",
	})
}

// CheckPostLike handles GET /api/posts/:id/like/check. It reports whether
// the authenticated user has liked the post, so clients can render like
// state without replaying the toggle.
func (s *Server) CheckPostLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.postRepo.GetByID(c.Context(), id); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	liked, err := s.postRepo.IsLiked(c.Context(), s.currentUser(c).ID, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"liked": liked,
	})
}

// GetPostsByCategory handles GET /api/posts/category/:categoryId
func (s *Server) GetPostsByCategory(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "categoryId")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 10)

	posts, listErr := s.postRepo.GetByCategory(c.Context(), categoryID, p.Limit, p.Offset())
	if listErr != nil {
		return models.RespondWithError(c, models.StatusForError(listErr), listErr)
	}

	return c.JSON(fiber.Map{
		"message": "Posts retrieved successfully",
		"page":    p.Page,
		"limit":   p.Limit,
		"posts":   posts,
	})
}

// GetPostsByUser handles GET /api/posts/user/:userId. Anonymous posts stay
// masked here too, even when the listed user is the one reading.
func (s *Server) GetPostsByUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 10)

	posts, listErr := s.postRepo.GetByUser(c.Context(), userID, p.Limit, p.Offset())
	if listErr != nil {
		return models.RespondWithError(c, models.StatusForError(listErr), listErr)
	}

	return c.JSON(fiber.Map{
		"message": "Posts retrieved successfully",
		"page":    p.Page,
		"limit":   p.Limit,
		"posts":   posts,
	})
}

// SearchPosts handles GET /api/posts/search?q=term
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	term := c.Query("q")
	if term == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search term is required"))
	}
	p := parsePagination(c, 10)

	posts, err := s.postRepo.Search(c.Context(), term, p.Limit, p.Offset())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Search completed successfully",
		"page":    p.Page,
		"limit":   p.Limit,
		"term":    term,
		"posts":   posts,
	})
}

// SearchPostsAdvanced handles GET /api/posts/search/advanced. All filters are
// optional; out-of-allow-list sort hints silently fall back to newest-first.
func (s *Server) SearchPostsAdvanced(c *fiber.Ctx) error {
	opts := repository.SearchOptions{
		Term:   c.Query("q"),
		SortBy: c.Query("sortBy"),
		Order:  c.Query("order"),
	}

	if categoryID := c.QueryInt("categoryId", 0); categoryID > 0 {
		opts.CategoryID = uint(categoryID)
	}

	if from := c.Query("dateFrom"); from != "" {
		parsed, err := parseDateParam(from)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid dateFrom parameter"))
		}
		opts.DateFrom = &parsed
	}
	if to := c.Query("dateTo"); to != "" {
		parsed, err := parseDateParam(to)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid dateTo parameter"))
		}
		opts.DateTo = &parsed
	}

	p := parsePagination(c, 10)

	posts, err := s.postRepo.SearchAdvanced(c.Context(), opts, p.Limit, p.Offset())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Search completed successfully",
		"page":    p.Page,
		"limit":   p.Limit,
		"posts":   posts,
	})
}

// parseDateParam accepts RFC3339 timestamps or bare dates (2006-01-02).
func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
