package handlers

import (
	"marketplace_service/pkg/config"
	"marketplace_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"go.uber.org/zap"
)

// ServiceProxy forward the request to the backing service with path
// and query kept intact
func ServiceProxy(svc config.ServiceConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		target := "http://" + svc.IP + ":" + svc.Port + c.OriginalURL()
		if err := proxy.Do(c, target); err != nil {
			logger.Log.Error("proxy "+svc.Name, zap.Error(err))
			return c.SendStatus(fiber.StatusBadGateway)
		}
		c.Response().Header.Del(fiber.HeaderServer)
		return nil
	}
}
