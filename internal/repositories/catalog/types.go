package catalog

import "github.com/draftverse/draftroom/internal/models"

// DefaultListLimit matches the pool size clients fetch per session
const DefaultListLimit = 500

type SaveCharactersInput struct {
	Characters []*models.Character
}

type GetCharacterInput struct {
	CharacterID int
}

type ListCharactersInput struct {
	// Limit caps the number of entries; defaults to DefaultListLimit
	Limit int
}

type ListCharactersOutput struct {
	Characters []*models.Character
}

type ListUniversesInput struct {
}

type ListUniversesOutput struct {
	Universes []string
}
