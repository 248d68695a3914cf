package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/draftverse/draftroom/internal/models"
)

const (
	// Key prefixes for Redis
	characterKeyPrefix = "character:"
	byFavoritesKey     = "catalog:by_favorites"
	universesKey       = "catalog:universes"
)

// ErrCharacterNotFound is returned when a catalog entry is not found
var ErrCharacterNotFound = errors.New("character not found")

// Config holds configuration for the Redis catalog repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed catalog repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveCharacters persists a batch of catalog entries to Redis
func (r *redisRepository) SaveCharacters(ctx context.Context, input *SaveCharactersInput) error {
	if input == nil || len(input.Characters) == 0 {
		return errors.New("input and characters cannot be empty")
	}

	pipe := r.client.Pipeline()

	for _, char := range input.Characters {
		if char == nil || char.ID == 0 {
			return errors.New("character and character ID cannot be empty")
		}

		charJSON, err := json.Marshal(char)
		if err != nil {
			return fmt.Errorf("failed to marshal character %d: %w", char.ID, err)
		}

		charKey := fmt.Sprintf("%s%d", characterKeyPrefix, char.ID)
		pipe.Set(ctx, charKey, charJSON, 0)

		pipe.ZAdd(ctx, byFavoritesKey, redis.Z{
			Score:  float64(char.Stats.Favorites),
			Member: strconv.Itoa(char.ID),
		})

		if char.Universe != "" {
			pipe.SAdd(ctx, universesKey, char.Universe)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save characters: %w", err)
	}

	return nil
}

// GetCharacter retrieves a single catalog entry by ID from Redis
func (r *redisRepository) GetCharacter(ctx context.Context, input *GetCharacterInput) (*models.Character, error) {
	if input == nil || input.CharacterID == 0 {
		return nil, errors.New("input and character ID cannot be empty")
	}

	charKey := fmt.Sprintf("%s%d", characterKeyPrefix, input.CharacterID)
	charJSON, err := r.client.Get(ctx, charKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var char models.Character
	if err := json.Unmarshal([]byte(charJSON), &char); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}

	normalize(&char)
	return &char, nil
}

// ListCharacters retrieves catalog entries ordered by popularity from Redis
func (r *redisRepository) ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error) {
	limit := DefaultListLimit
	if input != nil && input.Limit > 0 {
		limit = input.Limit
	}

	ids, err := r.client.ZRevRange(ctx, byFavoritesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	if len(ids) == 0 {
		return &ListCharactersOutput{Characters: []*models.Character{}}, nil
	}

	// Fetch all entries in one round trip
	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		charKey := fmt.Sprintf("%s%s", characterKeyPrefix, id)
		cmds[i] = pipe.Get(ctx, charKey)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}

	characters := make([]*models.Character, 0, len(ids))
	for i, cmd := range cmds {
		charJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Entry was deleted between the index read and the fetch
				continue
			}
			return nil, fmt.Errorf("failed to get character %s: %w", ids[i], err)
		}

		var char models.Character
		if err := json.Unmarshal([]byte(charJSON), &char); err != nil {
			return nil, fmt.Errorf("failed to unmarshal character %s: %w", ids[i], err)
		}

		normalize(&char)
		characters = append(characters, &char)
	}

	return &ListCharactersOutput{Characters: characters}, nil
}

// ListUniverses retrieves the distinct catalog partitions from Redis
func (r *redisRepository) ListUniverses(ctx context.Context, input *ListUniversesInput) (*ListUniversesOutput, error) {
	universes, err := r.client.SMembers(ctx, universesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list universes: %w", err)
	}

	sort.Strings(universes)

	return &ListUniversesOutput{Universes: universes}, nil
}

// normalize fills in derived role stats for entries imported without
// ratings, so every client computes the same values for the same entry
func normalize(char *models.Character) {
	if char.Stats.RoleStats.IsZero() {
		char.Stats.RoleStats = models.DeriveRoleStats(char.ID, char.Name)
	}
}
