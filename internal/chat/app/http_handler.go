package app

import (
	"errors"

	errprocess "marketplace_service/pkg/err"
	"marketplace_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// ChatHTTPHandler REST surface over ConversationUseCase
type ChatHTTPHandler struct {
	convUC *ConversationUseCase
}

// NewChatHTTPHandler create ChatHTTPHandler
func NewChatHTTPHandler(convUC *ConversationUseCase) *ChatHTTPHandler {
	return &ChatHTTPHandler{convUC: convUC}
}

// fiberError map the error taxonomy onto HTTP statuses
func fiberError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errprocess.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, errprocess.ErrForbidden):
		status = fiber.StatusForbidden
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

type createConversationRequest struct {
	To string `json:"to"`
}

// CreateConversation POST /conversations
func (h *ChatHTTPHandler) CreateConversation(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	var req createConversationRequest
	if err := c.BodyParser(&req); err != nil || req.To == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to is required"})
	}

	conv, err := h.convUC.StartConversation(c.Context(), userID, req.To)
	if err != nil {
		return fiberError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(conv)
}

// ListConversations GET /conversations
func (h *ChatHTTPHandler) ListConversations(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	convs, err := h.convUC.GetConversations(c.Context(), userID)
	if err != nil {
		return fiberError(c, err)
	}
	return c.JSON(convs)
}

// ListMessages GET /conversations/:id/messages
func (h *ChatHTTPHandler) ListMessages(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	msgs, err := h.convUC.GetMessages(c.Context(), c.Params("id"), userID)
	if err != nil {
		return fiberError(c, err)
	}
	return c.JSON(msgs)
}

type postMessageRequest struct {
	Text string `json:"text"`
}

// PostMessage POST /conversations/:id/messages
func (h *ChatHTTPHandler) PostMessage(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	var req postMessageRequest
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is required"})
	}

	msg, err := h.convUC.PostMessage(c.Context(), c.Params("id"), userID, req.Text)
	if err != nil {
		return fiberError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
