package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/draftverse/draftroom/internal/broadcast"
	"github.com/draftverse/draftroom/internal/common/clock"
	"github.com/draftverse/draftroom/internal/common/roomcode"
	"github.com/draftverse/draftroom/internal/common/uuid"
	"github.com/draftverse/draftroom/internal/httpapi"
	"github.com/draftverse/draftroom/internal/models"
	catalogRepo "github.com/draftverse/draftroom/internal/repositories/catalog"
	roomRepo "github.com/draftverse/draftroom/internal/repositories/room"
	userRepo "github.com/draftverse/draftroom/internal/repositories/user"
	roomService "github.com/draftverse/draftroom/internal/services/room"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	logger, err := newLogger(getEnv("APP_ENV", "development"))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Initialize repositories
	rooms, err := roomRepo.NewRedis(&roomRepo.Config{
		RedisClient:   redisClient,
		CodeGenerator: roomcode.New(&roomcode.Config{}),
	})
	if err != nil {
		logger.Fatal("Failed to create room repository", zap.Error(err))
	}

	users, err := userRepo.NewRedis(&userRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal("Failed to create user repository", zap.Error(err))
	}

	catalog, err := catalogRepo.NewRedis(&catalogRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal("Failed to create catalog repository", zap.Error(err))
	}

	// Initialize broadcaster
	broadcaster, err := broadcast.NewRedis(&broadcast.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal("Failed to create broadcaster", zap.Error(err))
	}

	// Initialize room service
	roomSvc, err := roomService.New(&roomService.Config{
		MaxActivePlayers: models.MaxActivePlayers,
		RoomRepo:         rooms,
		UserRepo:         users,
		Broadcaster:      broadcaster,
		Clock:            clock.New(),
		UUIDGenerator:    uuid.New(),
		Logger:           logger,
	})
	if err != nil {
		logger.Fatal("Failed to create room service", zap.Error(err))
	}

	// Initialize the HTTP API
	api, err := httpapi.New(&httpapi.Config{
		RoomService: roomSvc,
		CatalogRepo: catalog,
		Broadcaster: broadcaster,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("Failed to create API", zap.Error(err))
	}

	addr := getEnv("LISTEN_ADDR", ":8080")
	server := &http.Server{
		Addr:              addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", zap.Error(err))
	}

	logger.Info("Server has been shut down")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
