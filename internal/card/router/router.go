package router

import (
	"marketplace_service/internal/card/app"
	"marketplace_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes register card routes. Listings are public, mutations
// go through the JWT middleware.
func RegisterRoutes(r *fiber.App, h *app.CardHandler) {
	r.Get("/cards", h.ListCards)
	r.Get("/cards/featured", h.FeaturedCards)
	r.Get("/cards/category/:category", h.CardsByCategory)
	r.Get("/cards/:id", h.GetCard)

	authed := r.Group("/", middlewares.JWTMiddleware())
	authed.Post("/cards", h.CreateCard)
	authed.Put("/cards/:id", h.UpdateCard)
	authed.Delete("/cards/:id", h.DeleteCard)
}
