package server

import (
	"github.com/RYAHE/Ruche-RS/internal/models"
	"github.com/RYAHE/Ruche-RS/internal/observability"
	"github.com/RYAHE/Ruche-RS/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content   string `json:"content"`
	Anonymous bool   `json:"anonymous"`
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateContent(req.Content); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Commenting on a soft-deleted post reads as post not found.
	if _, err := s.postRepo.GetByID(c.Context(), postID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	comment := &models.Comment{
		Content:   req.Content,
		UserID:    s.currentUser(c).ID,
		PostID:    postID,
		Anonymous: req.Anonymous,
	}
	if err := s.commentRepo.Create(c.Context(), comment); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	created, err := s.commentRepo.GetByID(c.Context(), comment.ID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	observability.ContentCreated.WithLabelValues(observability.ContentComment).Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment created successfully",
		"comment": created,
	})
}

// GetPostComments handles GET /api/posts/:id/comments
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.postRepo.GetByID(c.Context(), postID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	p := parsePagination(c, 20)

	comments, listErr := s.commentRepo.GetByPostID(c.Context(), postID, p.Limit, p.Offset())
	if listErr != nil {
		return models.RespondWithError(c, models.StatusForError(listErr), listErr)
	}

	return c.JSON(fiber.Map{
		"message":  "Comments retrieved successfully",
		"page":     p.Page,
		"limit":    p.Limit,
		"comments": comments,
	})
}

// UpdateComment handles PUT /api/comments/:id (author only).
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if comment.UserID != s.currentUser(c).ID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You are not allowed to edit this comment"))
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateContent(req.Content); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if updateErr := s.commentRepo.Update(c.Context(), id, req.Content, req.Anonymous); updateErr != nil {
		return models.RespondWithError(c, models.StatusForError(updateErr), updateErr)
	}

	updated, err := s.commentRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment updated successfully",
		"comment": updated,
	})
}

// DeleteComment handles DELETE /api/comments/:id (soft delete, author only).
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if comment.UserID != s.currentUser(c).ID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You are not allowed to delete this comment"))
	}

	if deleteErr := s.commentRepo.Delete(c.Context(), id); deleteErr != nil {
		return models.RespondWithError(c, models.StatusForError(deleteErr), deleteErr)
	}

	return c.JSON(fiber.Map{
		"message": "Comment deleted successfully",
		"id":      id,
	})
}

// LikeComment handles POST /api/comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.commentRepo.GetByID(c.Context(), id); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	userID := s.currentUser(c).ID
	liked, err := s.commentRepo.IsLiked(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if liked {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("You have already liked this comment"))
	}

	if likeErr := s.commentRepo.Like(c.Context(), userID, id); likeErr != nil {
		return models.RespondWithError(c, models.StatusForError(likeErr), likeErr)
	}
	observability.ContentCreated.WithLabelValues(observability.ContentLike).Inc()

	return c.JSON(fiber.Map{
		"message": "Like added successfully",
	})
}

// UnlikeComment handles DELETE /api/comments/:id/like
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := s.currentUser(c).ID
	liked, err := s.commentRepo.IsLiked(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if !liked {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You have not liked this comment"))
	}

	if unlikeErr := s.commentRepo.Unlike(c.Context(), userID, id); unlikeErr != nil {
		return models.RespondWithError(c, models.StatusForError(unlikeErr), unlikeErr)
	}

	return c.JSON(fiber.Map{
		"message": "Like removed successfully",
	})
}

// CheckCommentLike handles GET /api/comments/:id/like/check.
func (s *Server) CheckCommentLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.commentRepo.GetByID(c.Context(), id); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	liked, err := s.commentRepo.IsLiked(c.Context(), s.currentUser(c).ID, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"liked": liked,
	})
}
