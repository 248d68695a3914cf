package user

import "github.com/draftverse/draftroom/internal/models"

// Outcome is the result of a match from one user's perspective
type Outcome string

const (
	// OutcomeWin increments the win counter
	OutcomeWin Outcome = "win"

	// OutcomeLoss increments the loss counter
	OutcomeLoss Outcome = "loss"
)

type SaveUserInput struct {
	User *models.User
}

type GetUserInput struct {
	UserID string
}

type RecordOutcomeInput struct {
	UserID  string
	Outcome Outcome
}

type GetLeaderboardInput struct {
	// Limit caps the number of entries; defaults to 10
	Limit int
}

type GetLeaderboardOutput struct {
	Users []*models.User
}
