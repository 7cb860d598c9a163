package server

import (
	"rigforge/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateThread handles POST /api/forum/threads
func (s *Server) CreateThread(c *fiber.Ctx) error {
	var req struct {
		Category string `json:"category"`
		Title    string `json:"title"`
		Content  string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thread, err := s.store.CreateThread(c.Context(), s.currentUserID(c), req.Category, req.Title, req.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

// GetThreads handles GET /api/forum/threads?category=<id|all>
func (s *Server) GetThreads(c *fiber.Ctx) error {
	category := c.Query("category", "all")
	threads, err := s.store.GetThreadsByCategory(c.Context(), category)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(threads)
}

// AddThreadComment handles POST /api/forum/threads/:id/comments
func (s *Server) AddThreadComment(c *fiber.Ctx) error {
	threadID, err := s.paramString(c, "id", "thread ID")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if bErr := c.BodyParser(&req); bErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, sErr := s.store.AddComment(c.Context(), threadID, s.currentUserID(c), req.Content)
	if sErr != nil {
		return fail(c, sErr)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
