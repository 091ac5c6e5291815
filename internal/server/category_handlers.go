package server

import (
	"strings"

	"github.com/RYAHE/Ruche-RS/internal/models"

	"github.com/gofiber/fiber/v2"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message":    "Categories retrieved successfully",
		"categories": categories,
	})
}

// GetCategory handles GET /api/categories/:id
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	category, getErr := s.categoryRepo.GetByID(c.Context(), id)
	if getErr != nil {
		return models.RespondWithError(c, models.StatusForError(getErr), getErr)
	}

	return c.JSON(fiber.Map{
		"message":  "Category retrieved successfully",
		"category": category,
	})
}

// CreateCategory handles POST /api/categories (admin only).
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Category name is required"))
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categoryRepo.Create(c.Context(), category); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Category created successfully",
		"category": category,
	})
}

// UpdateCategory handles PUT /api/categories/:id (admin only).
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Category name is required"))
	}

	category, updateErr := s.categoryRepo.Update(c.Context(), id, req.Name, req.Description)
	if updateErr != nil {
		return models.RespondWithError(c, models.StatusForError(updateErr), updateErr)
	}

	return c.JSON(fiber.Map{
		"message":  "Category updated successfully",
		"category": category,
	})
}

// DeleteCategory handles DELETE /api/categories/:id (admin only). Categories
// still referenced by posts, soft-deleted ones included, refuse to go.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if deleteErr := s.categoryRepo.Delete(c.Context(), id); deleteErr != nil {
		return models.RespondWithError(c, models.StatusForError(deleteErr), deleteErr)
	}

	return c.JSON(fiber.Map{
		"message": "Category deleted successfully",
		"id":      id,
	})
}
