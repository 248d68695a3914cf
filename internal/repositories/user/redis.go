package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/draftverse/draftroom/internal/models"
)

const (
	// Key prefixes for Redis
	userKeyPrefix  = "user:"
	statsKeyPrefix = "user_stats:"
	leaderboardKey = "leaderboard:wins"
)

// defaultLeaderboardLimit is used when no limit is given
const defaultLeaderboardLimit = 10

// ErrUserNotFound is returned when a user is not found
var ErrUserNotFound = errors.New("user not found")

// Config holds configuration for the Redis user repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed user repository
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

// SaveUser persists a user record to Redis. Win/loss counters live in a
// separate stats hash so they can be incremented without read-modify-write.
func (r *redisRepository) SaveUser(ctx context.Context, input *SaveUserInput) error {
	if input == nil || input.User == nil {
		return errors.New("input and user cannot be nil")
	}

	user := input.User
	if user.ID == "" {
		return errors.New("user ID cannot be empty")
	}

	record := *user
	record.Wins = 0
	record.Losses = 0

	userJSON, err := json.Marshal(&record)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	userKey := fmt.Sprintf("%s%s", userKeyPrefix, user.ID)
	if err := r.client.Set(ctx, userKey, userJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID from Redis
func (r *redisRepository) GetUser(ctx context.Context, input *GetUserInput) (*models.User, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	userKey := fmt.Sprintf("%s%s", userKeyPrefix, input.UserID)
	userJSON, err := r.client.Get(ctx, userKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	statsKey := fmt.Sprintf("%s%s", statsKeyPrefix, input.UserID)
	stats, err := r.client.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	user.Wins = parseCounter(stats["wins"])
	user.Losses = parseCounter(stats["losses"])

	return &user, nil
}

// RecordOutcome increments a user's win or loss counter in Redis
func (r *redisRepository) RecordOutcome(ctx context.Context, input *RecordOutcomeInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	if input.Outcome != OutcomeWin && input.Outcome != OutcomeLoss {
		return errors.New("outcome must be win or loss")
	}

	statsKey := fmt.Sprintf("%s%s", statsKeyPrefix, input.UserID)

	pipe := r.client.Pipeline()
	if input.Outcome == OutcomeWin {
		pipe.HIncrBy(ctx, statsKey, "wins", 1)
		pipe.ZIncrBy(ctx, leaderboardKey, 1, input.UserID)
	} else {
		pipe.HIncrBy(ctx, statsKey, "losses", 1)
		// Losers still appear on the board with their current win count
		pipe.ZIncrBy(ctx, leaderboardKey, 0, input.UserID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	return nil
}

// GetLeaderboard retrieves the top users by wins from Redis
func (r *redisRepository) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	limit := defaultLeaderboardLimit
	if input != nil && input.Limit > 0 {
		limit = input.Limit
	}

	userIDs, err := r.client.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	users := make([]*models.User, 0, len(userIDs))
	for _, userID := range userIDs {
		user, err := r.GetUser(ctx, &GetUserInput{UserID: userID})
		if err != nil {
			// Skip users whose record was deleted
			if errors.Is(err, ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}

	return &GetLeaderboardOutput{Users: users}, nil
}

func parseCounter(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
