package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"marketplace_service/internal/booking/app"
	"marketplace_service/internal/booking/domain"
	"marketplace_service/internal/booking/repository"
	"marketplace_service/internal/booking/router"
	"marketplace_service/pkg/config"
	"marketplace_service/pkg/database"
	"marketplace_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.BookingService, config.EnvConfig.BookingServiceLogPath)
	cfg := config.LoadConfig[config.Booking](config.EnvConfig.BookingService, config.EnvConfig.BookingServiceYAMLPath)

	connectStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	db, err := database.NewGormConnection(database.Connection{
		ConnectStr:    connectStr,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", connectStr)),
			zap.Error(err),
		)
	}
	if err := db.AutoMigrate(&domain.Booking{}); err != nil {
		logger.Log.Fatal(fmt.Sprintf("migrate bookings err : %v", err))
	}

	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	bookingRepo := repository.NewBookingRepository(db)
	bookingUC := app.NewBookingUseCase(bookingRepo, database.NewRedisStore(redisClient), cfg.Cache)

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.BookingServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, app.NewBookingHandler(bookingUC))

	port := ":" + cfg.Port
	log.Printf("Booking Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
