package server

import (
	"github.com/RYAHE/Ruche-RS/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminGetPosts handles GET /api/admin/posts. Soft-deleted posts are included
// and authorship is never masked. An optional excludeCategory query filter
// hides one category from the moderation feed.
func (s *Server) AdminGetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	var excludeCategory uint
	if v := c.QueryInt("excludeCategory", 0); v > 0 {
		excludeCategory = uint(v)
	}

	posts, err := s.postRepo.ListForAdmin(c.Context(), p.Limit, p.Offset(), excludeCategory)
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

// AdminGetPost handles GET /api/admin/posts/:id, unmasked and including
// soft-deleted rows.
func (s *Server) AdminGetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, getErr := s.postRepo.GetByIDForAdmin(c.Context(), id)
	if getErr != nil {
		return models.RespondWithError(c, models.StatusForError(getErr), getErr)
	}

	return c.JSON(fiber.Map{
		"message": "Post retrieved successfully",
		"post":    post,
	})
}

// AdminGetUsers handles GET /api/admin/users
func (s *Server) AdminGetUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, err := s.userRepo.List(c.Context(), p.Limit, p.Offset())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Users retrieved successfully",
		"page":    p.Page,
		"limit":   p.Limit,
		"users":   users,
	})
}

// PromoteUser handles PUT /api/admin/users/:userId/promote
func (s *Server) PromoteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	user, setErr := s.userRepo.SetAdmin(c.Context(), id, true)
	if setErr != nil {
		return models.RespondWithError(c, models.StatusForError(setErr), setErr)
	}

	return c.JSON(fiber.Map{
		"message": "User promoted to admin",
		"user":    user,
	})
}

// DemoteUser handles PUT /api/admin/users/:userId/demote. Admins cannot
// demote themselves, that would let the last admin lock everyone out.
func (s *Server) DemoteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if id == s.currentUser(c).ID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot demote yourself"))
	}

	user, setErr := s.userRepo.SetAdmin(c.Context(), id, false)
	if setErr != nil {
		return models.RespondWithError(c, models.StatusForError(setErr), setErr)
	}

	return c.JSON(fiber.Map{
		"message": "Admin rights removed",
		"user":    user,
	})
}

// AdminDeleteUser handles DELETE /api/admin/users/:userId (soft delete). The
// user's posts and comments stay in place; their author shows as withdrawn
// once the join finds no live user row.
func (s *Server) AdminDeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if id == s.currentUser(c).ID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot delete your own account"))
	}

	if deleteErr := s.userRepo.Delete(c.Context(), id); deleteErr != nil {
		return models.RespondWithError(c, models.StatusForError(deleteErr), deleteErr)
	}

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
		"id":      id,
	})
}

// GetStats handles GET /api/admin/stats
func (s *Server) GetStats(c *fiber.Ctx) error {
	stats, err := s.statsRepo.Collect(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Stats retrieved successfully",
		"stats":   stats,
	})
}
