package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/draftverse/draftroom/internal/common/roomcode"
	"github.com/draftverse/draftroom/internal/models"
)

const (
	// Key prefixes for Redis
	roomKeyPrefix  = "room:"
	codeKeyPrefix  = "room_code:"
	stateKeyPrefix = "room_state:"
)

// codeAttempts bounds the retry loop for code collisions
const codeAttempts = 10

// ErrRoomNotFound is returned when a room is not found
var ErrRoomNotFound = errors.New("room not found")

// ErrStateNotFound is returned when a room has no shared state blob yet
var ErrStateNotFound = errors.New("game state not found")

// Config holds configuration for the Redis room repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// CodeGenerator produces short join codes
	CodeGenerator roomcode.Generator
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	codes  roomcode.Generator
}

// NewRedis creates a new Redis-backed room repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if cfg.CodeGenerator == nil {
		return nil, errors.New("code generator cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		codes:  cfg.CodeGenerator,
	}, nil
}

// CreateRoom creates a new room with a generated ID and unique code
func (r *redisRepository) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil || input.HostID == "" {
		return nil, errors.New("input and host ID cannot be empty")
	}

	roomID := uuid.New().String()
	now := time.Now()

	// Claim a unique code. SETNX on the code key makes the claim atomic,
	// so concurrent creates can never share a code.
	var code string
	for i := 0; i < codeAttempts; i++ {
		candidate := r.codes.NewCode()
		codeKey := fmt.Sprintf("%s%s", codeKeyPrefix, candidate)
		ok, err := r.client.SetNX(ctx, codeKey, roomID, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to claim room code: %w", err)
		}
		if ok {
			code = candidate
			break
		}
	}
	if code == "" {
		return nil, errors.New("failed to generate a unique room code")
	}

	room := &models.Room{
		ID:        roomID,
		Code:      code,
		HostID:    input.HostID,
		Status:    models.RoomStatusWaiting,
		CreatedAt: now,
		Players: []*models.RoomPlayer{
			{
				RoomID:      roomID,
				UserID:      input.HostID,
				IsSpectator: false,
				JoinedAt:    now,
			},
		},
	}

	if err := r.SaveRoom(ctx, &SaveRoomInput{Room: room}); err != nil {
		return nil, err
	}

	return &CreateRoomOutput{Room: room}, nil
}

// SaveRoom persists a room record to Redis
func (r *redisRepository) SaveRoom(ctx context.Context, input *SaveRoomInput) error {
	if input == nil || input.Room == nil {
		return errors.New("input and room cannot be nil")
	}

	if input.Room.ID == "" {
		return errors.New("room ID cannot be empty")
	}

	// The state blob is persisted under its own key, not inside the room
	// record, so it never rides along on membership writes
	record := *input.Room
	record.GameState = nil

	roomJSON, err := json.Marshal(&record)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	pipe := r.client.Pipeline()

	roomKey := fmt.Sprintf("%s%s", roomKeyPrefix, record.ID)
	pipe.Set(ctx, roomKey, roomJSON, 0) // No expiration for now

	if record.Code != "" {
		codeKey := fmt.Sprintf("%s%s", codeKeyPrefix, record.Code)
		pipe.Set(ctx, codeKey, record.ID, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	return nil
}

// GetRoom retrieves a room by ID from Redis
func (r *redisRepository) GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	roomKey := fmt.Sprintf("%s%s", roomKeyPrefix, input.RoomID)
	roomJSON, err := r.client.Get(ctx, roomKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var room models.Room
	if err := json.Unmarshal([]byte(roomJSON), &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	// Attach the state blob when one exists
	state, err := r.GetGameState(ctx, &GetGameStateInput{RoomID: room.ID})
	if err != nil && !errors.Is(err, ErrStateNotFound) {
		return nil, err
	}
	room.GameState = state

	return &room, nil
}

// GetRoomByCode retrieves a room by its short join code from Redis
func (r *redisRepository) GetRoomByCode(ctx context.Context, input *GetRoomByCodeInput) (*models.Room, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	codeKey := fmt.Sprintf("%s%s", codeKeyPrefix, input.Code)
	roomID, err := r.client.Get(ctx, codeKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to resolve room code: %w", err)
	}

	return r.GetRoom(ctx, &GetRoomInput{RoomID: roomID})
}

// DeleteRoom removes a room from Redis
func (r *redisRepository) DeleteRoom(ctx context.Context, input *DeleteRoomInput) error {
	if input == nil || input.RoomID == "" {
		return errors.New("input and room ID cannot be empty")
	}

	// Get the room first to find its code
	room, err := r.GetRoom(ctx, &GetRoomInput{RoomID: input.RoomID})
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()

	roomKey := fmt.Sprintf("%s%s", roomKeyPrefix, input.RoomID)
	pipe.Del(ctx, roomKey)

	stateKey := fmt.Sprintf("%s%s", stateKeyPrefix, input.RoomID)
	pipe.Del(ctx, stateKey)

	if room.Code != "" {
		codeKey := fmt.Sprintf("%s%s", codeKeyPrefix, room.Code)
		pipe.Del(ctx, codeKey)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return nil
}

// AddPlayer adds a member to a room
func (r *redisRepository) AddPlayer(ctx context.Context, input *AddPlayerInput) (*AddPlayerOutput, error) {
	if input == nil || input.RoomID == "" || input.UserID == "" {
		return nil, errors.New("input, room ID and user ID cannot be empty")
	}

	room, err := r.GetRoom(ctx, &GetRoomInput{RoomID: input.RoomID})
	if err != nil {
		return nil, err
	}

	// Joining twice is a no-op
	if room.Player(input.UserID) != nil {
		return &AddPlayerOutput{Room: room, AlreadyMember: true}, nil
	}

	room.Players = append(room.Players, &models.RoomPlayer{
		RoomID:      input.RoomID,
		UserID:      input.UserID,
		IsSpectator: input.IsSpectator,
		JoinedAt:    time.Now(),
	})

	if err := r.SaveRoom(ctx, &SaveRoomInput{Room: room}); err != nil {
		return nil, fmt.Errorf("failed to save room with new player: %w", err)
	}

	return &AddPlayerOutput{Room: room}, nil
}

// RemovePlayer removes a member from a room
func (r *redisRepository) RemovePlayer(ctx context.Context, input *RemovePlayerInput) error {
	if input == nil || input.RoomID == "" || input.UserID == "" {
		return errors.New("input, room ID and user ID cannot be empty")
	}

	room, err := r.GetRoom(ctx, &GetRoomInput{RoomID: input.RoomID})
	if err != nil {
		return err
	}

	kept := make([]*models.RoomPlayer, 0, len(room.Players))
	for _, p := range room.Players {
		if p.UserID != input.UserID {
			kept = append(kept, p)
		}
	}
	room.Players = kept

	return r.SaveRoom(ctx, &SaveRoomInput{Room: room})
}

// SetGameState overwrites the room's shared state blob in Redis
func (r *redisRepository) SetGameState(ctx context.Context, input *SetGameStateInput) error {
	if input == nil || input.RoomID == "" || input.State == nil {
		return errors.New("input, room ID and state cannot be empty")
	}

	stateJSON, err := json.Marshal(input.State)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	stateKey := fmt.Sprintf("%s%s", stateKeyPrefix, input.RoomID)
	if err := r.client.Set(ctx, stateKey, stateJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}

	return nil
}

// InitGameState writes the blob only if none exists
func (r *redisRepository) InitGameState(ctx context.Context, input *InitGameStateInput) (*InitGameStateOutput, error) {
	if input == nil || input.RoomID == "" || input.State == nil {
		return nil, errors.New("input, room ID and state cannot be empty")
	}

	stateJSON, err := json.Marshal(input.State)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game state: %w", err)
	}

	stateKey := fmt.Sprintf("%s%s", stateKeyPrefix, input.RoomID)
	created, err := r.client.SetNX(ctx, stateKey, stateJSON, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize game state: %w", err)
	}

	return &InitGameStateOutput{Created: created}, nil
}

// GetGameState retrieves the room's shared state blob from Redis
func (r *redisRepository) GetGameState(ctx context.Context, input *GetGameStateInput) (*models.GameState, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	stateKey := fmt.Sprintf("%s%s", stateKeyPrefix, input.RoomID)
	stateJSON, err := r.client.Get(ctx, stateKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	var state models.GameState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	return &state, nil
}

// ClearGameState removes the room's shared state blob from Redis
func (r *redisRepository) ClearGameState(ctx context.Context, input *ClearGameStateInput) error {
	if input == nil || input.RoomID == "" {
		return errors.New("input and room ID cannot be empty")
	}

	stateKey := fmt.Sprintf("%s%s", stateKeyPrefix, input.RoomID)
	if err := r.client.Del(ctx, stateKey).Err(); err != nil {
		return fmt.Errorf("failed to clear game state: %w", err)
	}

	return nil
}
