package room

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/draftverse/draftroom/internal/repositories/room Repository

import (
	"context"

	"github.com/draftverse/draftroom/internal/models"
)

// Repository defines the interface for room data persistence
type Repository interface {
	// CreateRoom creates a new room with a generated ID and unique code
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// SaveRoom persists a room record
	SaveRoom(ctx context.Context, input *SaveRoomInput) error

	// GetRoom retrieves a room by ID, including its players and game state
	GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error)

	// GetRoomByCode retrieves a room by its short join code
	GetRoomByCode(ctx context.Context, input *GetRoomByCodeInput) (*models.Room, error)

	// DeleteRoom removes a room, its memberships, and its game state
	DeleteRoom(ctx context.Context, input *DeleteRoomInput) error

	// AddPlayer adds a member to a room; idempotent for existing members
	AddPlayer(ctx context.Context, input *AddPlayerInput) (*AddPlayerOutput, error)

	// RemovePlayer removes a member from a room
	RemovePlayer(ctx context.Context, input *RemovePlayerInput) error

	// SetGameState overwrites the room's shared state blob
	SetGameState(ctx context.Context, input *SetGameStateInput) error

	// InitGameState writes the blob only if none exists yet, so two hosts
	// racing to initialize cannot clobber each other
	InitGameState(ctx context.Context, input *InitGameStateInput) (*InitGameStateOutput, error)

	// GetGameState retrieves the room's shared state blob
	GetGameState(ctx context.Context, input *GetGameStateInput) (*models.GameState, error)

	// ClearGameState removes the room's shared state blob
	ClearGameState(ctx context.Context, input *ClearGameStateInput) error
}
