package models

import (
	"time"
)

// RoomStatus represents the coarse lifecycle state of a persisted room
type RoomStatus string

const (
	// RoomStatusWaiting indicates a room is open for players to join
	RoomStatusWaiting RoomStatus = "WAITING"

	// RoomStatusDrafting indicates the room's draft has started
	RoomStatusDrafting RoomStatus = "DRAFTING"

	// RoomStatusFinished indicates the room's match has completed
	RoomStatusFinished RoomStatus = "FINISHED"
)

// MaxActivePlayers caps non-spectator seats in a room
const MaxActivePlayers = 4

// Room represents a multiplayer match lobby
type Room struct {
	// ID is the unique identifier for the room
	ID string `json:"id"`

	// Code is the human-entered short join code
	Code string `json:"code"`

	// HostID is the user ID of the room host
	HostID string `json:"hostId"`

	// Status is the coarse lifecycle state of the room record
	Status RoomStatus `json:"status"`

	// Players are the room members in join order
	Players []*RoomPlayer `json:"players"`

	// GameState is the shared state blob, nil until the host initializes it
	GameState *GameState `json:"gameState,omitempty"`

	// CreatedAt is when the room was created
	CreatedAt time.Time `json:"createdAt"`

	// StartedAt is when the draft started, nil while waiting
	StartedAt *time.Time `json:"startedAt,omitempty"`
}

// RoomPlayer represents a user's membership in a room
type RoomPlayer struct {
	// RoomID is the room the membership belongs to
	RoomID string `json:"roomId"`

	// UserID is the member's user ID
	UserID string `json:"userId"`

	// IsSpectator marks members who watch without drafting
	IsSpectator bool `json:"isSpectator"`

	// JoinedAt is when the user joined the room
	JoinedAt time.Time `json:"joinedAt"`
}

// ActivePlayers returns the non-spectator members in join order. Every
// client derives turn order from this same sequence, so ordering must be
// stable.
func (r *Room) ActivePlayers() []*RoomPlayer {
	active := make([]*RoomPlayer, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.IsSpectator {
			active = append(active, p)
		}
	}
	return active
}

// Player returns the membership entry for a user, or nil
func (r *Room) Player(userID string) *RoomPlayer {
	for _, p := range r.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}
