package main

import (
	"marketplace_service/internal/api/router"
	"marketplace_service/pkg/config"

	"github.com/gofiber/fiber/v2"
)

// services are split into their own binaries, this entry only exists
// so swag can walk the gateway routes
// swag init output ./docs
func main() {
	app := fiber.New()

	router.RegisterRoutes(app, config.APIGateway{})
}
