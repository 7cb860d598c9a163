package server

import (
	"rigforge/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendChatMessage handles POST /api/chat/messages
func (s *Server) SendChatMessage(c *fiber.Ctx) error {
	var req struct {
		ToUserID string `json:"toUserId"`
		Message  string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msg, err := s.store.SendChatMessage(c.Context(), s.currentUserID(c), req.ToUserID, req.Message)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetConversations handles GET /api/chat/conversations
func (s *Server) GetConversations(c *fiber.Ctx) error {
	conversations, err := s.store.GetUserConversations(c.Context(), s.currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(conversations)
}

// GetConversationHandler handles GET /api/chat/conversations/:userId.
// Fetching a conversation marks the partner's messages to the caller as read.
func (s *Server) GetConversationHandler(c *fiber.Ctx) error {
	partnerID, err := s.paramString(c, "userId", "user ID")
	if err != nil {
		return nil
	}
	messages, sErr := s.store.GetConversation(c.Context(), s.currentUserID(c), partnerID)
	if sErr != nil {
		return fail(c, sErr)
	}
	return c.JSON(messages)
}
