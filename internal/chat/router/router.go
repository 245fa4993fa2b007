package router

import (
	"context"

	"marketplace_service/internal/chat/app"
	"marketplace_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes register conversation routes
func RegisterRoutes(
	r *fiber.App,
	httpHandler *app.ChatHTTPHandler,
	sseHandler *app.ChatSSEHandler,
	wsHandler *app.ChatWebsocketHandler,
) {
	r.Use(middlewares.JWTMiddleware())

	r.Post("/conversations", httpHandler.CreateConversation)
	r.Get("/conversations", httpHandler.ListConversations)
	r.Get("/conversations/:id/messages", httpHandler.ListMessages)
	r.Post("/conversations/:id/messages", httpHandler.PostMessage)
	r.Get("/conversations/:id/events", sseHandler.Stream)

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHandler.HandleConnection(context.Background(), c)
	}))
}
