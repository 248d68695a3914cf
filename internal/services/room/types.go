package room

import (
	"go.uber.org/zap"

	"github.com/draftverse/draftroom/internal/broadcast"
	"github.com/draftverse/draftroom/internal/common/clock"
	"github.com/draftverse/draftroom/internal/common/uuid"
	"github.com/draftverse/draftroom/internal/models"
	roomRepo "github.com/draftverse/draftroom/internal/repositories/room"
	userRepo "github.com/draftverse/draftroom/internal/repositories/user"
)

// Config holds configuration for the room service
type Config struct {
	// Maximum number of non-spectator players per room
	MaxActivePlayers int

	// Repository dependencies
	RoomRepo roomRepo.Repository
	UserRepo userRepo.Repository

	// Broadcaster delivers best-effort room events
	Broadcaster broadcast.Broadcaster

	// Service dependencies
	Clock         clock.Clock
	UUIDGenerator uuid.UUID

	// Logger for service-level events
	Logger *zap.Logger
}

// CreateRoomInput contains parameters for creating a room
type CreateRoomInput struct {
	// HostID is the user ID of the room creator
	HostID string
}

// CreateRoomOutput contains the result of creating a room
type CreateRoomOutput struct {
	// Room is the created room, with the host already a member
	Room *models.Room
}

// JoinRoomInput contains parameters for joining a room
type JoinRoomInput struct {
	// Code is the short join code
	Code string

	// UserID is the joining user
	UserID string

	// IsSpectator marks a join that takes no player slot
	IsSpectator bool
}

// JoinRoomOutput contains the result of joining a room
type JoinRoomOutput struct {
	Room *models.Room

	// AlreadyMember indicates the caller was in the room before the call
	AlreadyMember bool
}

// LeaveRoomInput contains parameters for leaving a room
type LeaveRoomInput struct {
	RoomID string
	UserID string
}

// LeaveRoomOutput contains the result of leaving a room
type LeaveRoomOutput struct {
	// Departed indicates the leave happened mid-draft and was recorded
	// in the shared state
	Departed bool
}

// GetRoomStateInput contains parameters for fetching a room
type GetRoomStateInput struct {
	RoomID string
}

// GetRoomStateOutput contains a room with players and shared state
type GetRoomStateOutput struct {
	Room *models.Room
}

// StartGameInput contains parameters for starting a game
type StartGameInput struct {
	RoomID string

	// CallerID must be the room host
	CallerID string
}

// StartGameOutput contains the result of starting a game
type StartGameOutput struct {
	Room *models.Room
}

// InitStateInput contains parameters for initializing shared state
type InitStateInput struct {
	RoomID string

	// CallerID must be the room host
	CallerID string

	// State is the initial blob to write if none exists
	State *models.GameState
}

// InitStateOutput contains the result of initializing shared state
type InitStateOutput struct {
	// Created is false when another client initialized the state first
	Created bool

	// State is the blob now persisted, whether ours or the winner's
	State *models.GameState
}

// UpdateStateInput contains parameters for replacing the shared state
type UpdateStateInput struct {
	RoomID string

	// CallerID must be a room member
	CallerID string

	// State is the full replacement blob
	State *models.GameState
}

// UpdateStateOutput contains the result of replacing the shared state
type UpdateStateOutput struct {
	State *models.GameState
}

// EndGameInput contains parameters for finishing a match
type EndGameInput struct {
	RoomID string

	// CallerID must be a room member
	CallerID string

	// Result is the client-computed final outcome
	Result *models.MatchResult
}

// EndGameOutput contains the result of finishing a match
type EndGameOutput struct {
	Room *models.Room
}

// PostChatMessageInput contains parameters for posting a chat message
type PostChatMessageInput struct {
	RoomID string

	// UserID must be a room member
	UserID string

	// Content is the message body
	Content string
}

// PostChatMessageOutput contains the posted message
type PostChatMessageOutput struct {
	Message *models.ChatMessage
}

// GetLeaderboardInput contains parameters for the leaderboard
type GetLeaderboardInput struct {
	// Limit caps the number of entries; defaults to 10
	Limit int
}

// GetLeaderboardOutput contains the leaderboard entries
type GetLeaderboardOutput struct {
	Users []*models.User
}
