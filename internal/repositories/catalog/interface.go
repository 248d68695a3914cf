package catalog

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/draftverse/draftroom/internal/repositories/catalog Repository

import (
	"context"

	"github.com/draftverse/draftroom/internal/models"
)

// Repository defines the interface for the character catalog
type Repository interface {
	// SaveCharacters persists a batch of catalog entries
	SaveCharacters(ctx context.Context, input *SaveCharactersInput) error

	// GetCharacter retrieves a single catalog entry by ID
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*models.Character, error)

	// ListCharacters retrieves catalog entries ordered by popularity
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)

	// ListUniverses retrieves the distinct catalog partitions
	ListUniverses(ctx context.Context, input *ListUniversesInput) (*ListUniversesOutput, error)
}
