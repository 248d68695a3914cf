// Command seed imports a character catalog from a JSON file into Redis.
// The file holds an array of characters; entries missing role stats get
// deterministic ones derived from their identity, so reseeding is
// repeatable.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/draftverse/draftroom/internal/models"
	catalogRepo "github.com/draftverse/draftroom/internal/repositories/catalog"
)

func main() {
	_ = godotenv.Load()

	var file string
	flag.StringVar(&file, "file", "characters.json", "path to the catalog JSON file")
	flag.Parse()

	data, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("Failed to read catalog file: %v", err)
	}

	var characters []*models.Character
	if err := json.Unmarshal(data, &characters); err != nil {
		log.Fatalf("Failed to parse catalog file: %v", err)
	}

	if len(characters) == 0 {
		log.Fatal("Catalog file contains no characters")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	catalog, err := catalogRepo.NewRedis(&catalogRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create catalog repository: %v", err)
	}

	if err := catalog.SaveCharacters(ctx, &catalogRepo.SaveCharactersInput{
		Characters: characters,
	}); err != nil {
		log.Fatalf("Failed to save characters: %v", err)
	}

	log.Printf("Seeded %d characters from %s", len(characters), file)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
