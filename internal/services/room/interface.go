package room

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/draftverse/draftroom/internal/services/room Service

import (
	"context"
)

// Service coordinates room lifecycle, membership, shared state
// replication, and match bookkeeping
type Service interface {
	// CreateRoom creates a room with the caller as host
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// JoinRoom adds the caller to a room found by code; idempotent for
	// existing members
	JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error)

	// LeaveRoom removes the caller from a room; a mid-draft departure is
	// recorded in the shared state so the turn cannot strand on them
	LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*LeaveRoomOutput, error)

	// GetRoomState retrieves a room with its players and shared state
	GetRoomState(ctx context.Context, input *GetRoomStateInput) (*GetRoomStateOutput, error)

	// StartGame is the host-only WAITING to DRAFTING transition; it wipes
	// any existing shared state blob
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// InitState writes the initial shared state only if none exists
	InitState(ctx context.Context, input *InitStateInput) (*InitStateOutput, error)

	// UpdateState overwrites the persisted blob and broadcasts it
	UpdateState(ctx context.Context, input *UpdateStateInput) (*UpdateStateOutput, error)

	// EndGame records the final results and updates every active
	// player's win/loss counters
	EndGame(ctx context.Context, input *EndGameInput) (*EndGameOutput, error)

	// PostChatMessage appends to the room's bounded chat list
	PostChatMessage(ctx context.Context, input *PostChatMessageInput) (*PostChatMessageOutput, error)

	// GetLeaderboard lists the top users by wins
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)
}
