package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"marketplace_service/internal/card/app"
	carddomain "marketplace_service/internal/card/domain"
	"marketplace_service/internal/card/repository"
	"marketplace_service/internal/card/router"
	"marketplace_service/pkg/config"
	"marketplace_service/pkg/database"
	"marketplace_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.CardService, config.EnvConfig.CardServiceLogPath)
	cfg := config.LoadConfig[config.Card](config.EnvConfig.CardService, config.EnvConfig.CardServiceYAMLPath)

	ctx := context.Background()
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval),
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", uri)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	instanceID := uuid.New().String()
	kafkaConn := database.KafkaConnection{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		// per-instance group so every instance sees every mutation
		GroupID:       cfg.Kafka.GroupID + "-" + instanceID,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
	}
	writer, err := database.NewKafkaWriterWithRetry(kafkaConn)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect kafka err : %v", err))
	}
	bus := app.NewKafkaInvalidationBus(writer, database.NewKafkaReader(kafkaConn), instanceID)
	defer bus.Close()

	cardRepo := repository.NewMongoCardRepository(mongo.Database)
	cardUC := app.NewCardUseCase(cardRepo, database.NewRedisStore(redisClient), bus, cfg.Cache)

	busCtx, stopBus := context.WithCancel(ctx)
	defer stopBus()
	go bus.Consume(busCtx, func(mutation carddomain.CardMutation) {
		cardUC.ApplyMutation(busCtx, mutation)
	})

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.CardServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, app.NewCardHandler(cardUC))

	port := ":" + cfg.Port
	log.Printf("Card Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
