package router

import (
	"marketplace_service/internal/user/app"
	"marketplace_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes register user routes
func RegisterRoutes(r *fiber.App, h *app.UserHandler) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/session", h.Session)
	r.Post("/auth/reconnect", h.Reconnect)

	// /users/me must land before the :id wildcard
	r.Get("/users/me", middlewares.JWTMiddleware(), h.Me)
	r.Get("/users/:id", h.GetUser)
}
