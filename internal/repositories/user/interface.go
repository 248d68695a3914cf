package user

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/draftverse/draftroom/internal/repositories/user Repository

import (
	"context"

	"github.com/draftverse/draftroom/internal/models"
)

// Repository defines the interface for user data persistence
type Repository interface {
	// SaveUser persists a user record
	SaveUser(ctx context.Context, input *SaveUserInput) error

	// GetUser retrieves a user by ID, including win/loss counters
	GetUser(ctx context.Context, input *GetUserInput) (*models.User, error)

	// RecordOutcome increments a user's win or loss counter
	RecordOutcome(ctx context.Context, input *RecordOutcomeInput) error

	// GetLeaderboard retrieves the top users ordered by wins
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)
}
