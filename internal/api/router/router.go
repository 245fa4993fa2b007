package router

import (
	"marketplace_service/internal/api/handlers"
	"marketplace_service/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes register gateway routes
// @title Marketplace Service API
// @version 1.0
// @description API documentation for Marketplace Service
// @host localhost:8080
// @BasePath /
func RegisterRoutes(app *fiber.App, cfg config.APIGateway) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	userProxy := handlers.ServiceProxy(cfg.UserService)
	app.All("/auth/*", userProxy)
	app.All("/users", userProxy)
	app.All("/users/*", userProxy)

	cardProxy := handlers.ServiceProxy(cfg.CardService)
	app.All("/cards", cardProxy)
	app.All("/cards/*", cardProxy)

	// websocket upgrades don't survive the proxy, chat clients hit
	// the chat service's /ws endpoint directly
	chatProxy := handlers.ServiceProxy(cfg.ChatService)
	app.All("/conversations", chatProxy)
	app.All("/conversations/*", chatProxy)

	bookingProxy := handlers.ServiceProxy(cfg.BookingService)
	app.All("/bookings", bookingProxy)
	app.All("/bookings/*", bookingProxy)
}
