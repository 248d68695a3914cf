package models

// User represents a registered or anonymous player identity
type User struct {
	// ID is the opaque stable identifier for the user
	ID string `json:"id"`

	// Username is the display name of the user
	Username string `json:"username"`

	// AvatarURL points at the user's avatar image
	AvatarURL string `json:"avatarUrl,omitempty"`

	// Wins is the user's lifetime match win count
	Wins int `json:"wins"`

	// Losses is the user's lifetime match loss count
	Losses int `json:"losses"`
}
