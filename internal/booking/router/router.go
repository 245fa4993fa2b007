package router

import (
	"marketplace_service/internal/booking/app"
	"marketplace_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes register booking routes
func RegisterRoutes(r *fiber.App, h *app.BookingHandler) {
	r.Use(middlewares.JWTMiddleware())

	r.Post("/bookings", h.CreateBooking)
	r.Get("/bookings", h.ListBookings)
	r.Patch("/bookings/:id/status", h.UpdateStatus)
}
