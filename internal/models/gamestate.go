package models

import (
	"time"
)

// GameStatus represents the in-match state held inside the shared blob.
// It is finer grained than the room record's RoomStatus.
type GameStatus string

const (
	// GameStatusSetup indicates the host is still configuring the pool
	GameStatusSetup GameStatus = "SETUP"

	// GameStatusDrafting indicates the draft is in progress
	GameStatusDrafting GameStatus = "DRAFTING"

	// GameStatusGrading indicates scoring is in progress
	GameStatusGrading GameStatus = "GRADING"

	// GameStatusFinished indicates the match is over and results are frozen
	GameStatusFinished GameStatus = "FINISHED"
)

// MatchResult is the final outcome of a draft, present only once the
// game status is FINISHED
type MatchResult struct {
	// WinnerID is the user ID of the winning player
	WinnerID string `json:"winnerId"`

	// Scores maps each player's user ID to their role points
	Scores map[string]int `json:"scores"`

	// Logs is the human-readable scoring trace, in order
	Logs []string `json:"logs"`
}

// ChatMessage is a single entry in a room's bounded chat list
type ChatMessage struct {
	// ID is the unique identifier for the message
	ID string `json:"id"`

	// UserID is the sender's user ID
	UserID string `json:"userId"`

	// Content is the message body
	Content string `json:"content"`

	// SentAt is when the message was posted
	SentAt time.Time `json:"sentAt"`
}

// MaxChatMessages bounds the in-blob chat list
const MaxChatMessages = 200

// GameState is the replicated shared state blob. Every client holds a
// local copy, mutates it on its own turn, and pushes the whole document;
// receivers merge it last-write-wins per top-level field.
type GameState struct {
	// Status is the in-match lifecycle state
	Status GameStatus `json:"status"`

	// Round counts draft passes, 1 through MaxRounds
	Round int `json:"round"`

	// CurrentTurn indexes into TurnOrder
	CurrentTurn int `json:"currentTurn"`

	// TurnOrder is the active-player ordering, fixed at draft start
	TurnOrder []string `json:"turnOrder"`

	// Departed marks turn-order positions whose player left mid-draft
	Departed map[string]bool `json:"departed,omitempty"`

	// PlayerTeams maps each user ID to their five roster slots; a nil
	// entry is an empty slot
	PlayerTeams map[string][]*Character `json:"playerTeams"`

	// SkipsRemaining maps each user ID to their remaining skip budget
	SkipsRemaining map[string]int `json:"skipsRemaining"`

	// CurrentDraw is the character held by the active player, not yet placed
	CurrentDraw *Character `json:"currentDraw,omitempty"`

	// SelectedUniverses is the host-chosen subset of catalog partitions,
	// only meaningful before the draft starts
	SelectedUniverses []string `json:"selectedUniverses,omitempty"`

	// Results is the final outcome, present only when Status is FINISHED
	Results *MatchResult `json:"results,omitempty"`

	// ChatMessages is the bounded in-blob chat list
	ChatMessages []ChatMessage `json:"chatMessages,omitempty"`
}

// MaxRounds is the number of draft passes in a match, one per roster slot
const MaxRounds = 5

// InitialSkips is each player's skip budget at draft start
const InitialSkips = 2

// ActiveCount returns the number of turn-order positions still occupied
func (g *GameState) ActiveCount() int {
	n := 0
	for _, id := range g.TurnOrder {
		if !g.Departed[id] {
			n++
		}
	}
	return n
}

// Team returns the roster for a user, synthesizing an empty one if the
// blob arrived without an entry for that player
func (g *GameState) Team(userID string) []*Character {
	if g.PlayerTeams == nil {
		g.PlayerTeams = make(map[string][]*Character)
	}
	team, ok := g.PlayerTeams[userID]
	if !ok || len(team) != RoleCount {
		team = make([]*Character, RoleCount)
		g.PlayerTeams[userID] = team
	}
	return team
}

// FilledSlots counts non-empty roster slots across all players
func (g *GameState) FilledSlots() int {
	n := 0
	for _, team := range g.PlayerTeams {
		for _, c := range team {
			if c != nil {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the state. Characters are immutable
// catalog entities, so their pointers are shared.
func (g *GameState) Clone() *GameState {
	if g == nil {
		return nil
	}

	c := *g

	c.TurnOrder = append([]string(nil), g.TurnOrder...)
	c.SelectedUniverses = append([]string(nil), g.SelectedUniverses...)
	c.ChatMessages = append([]ChatMessage(nil), g.ChatMessages...)

	if g.Departed != nil {
		c.Departed = make(map[string]bool, len(g.Departed))
		for k, v := range g.Departed {
			c.Departed[k] = v
		}
	}

	if g.PlayerTeams != nil {
		c.PlayerTeams = make(map[string][]*Character, len(g.PlayerTeams))
		for k, team := range g.PlayerTeams {
			c.PlayerTeams[k] = append([]*Character(nil), team...)
		}
	}

	if g.SkipsRemaining != nil {
		c.SkipsRemaining = make(map[string]int, len(g.SkipsRemaining))
		for k, v := range g.SkipsRemaining {
			c.SkipsRemaining[k] = v
		}
	}

	if g.Results != nil {
		res := *g.Results
		res.Scores = make(map[string]int, len(g.Results.Scores))
		for k, v := range g.Results.Scores {
			res.Scores[k] = v
		}
		res.Logs = append([]string(nil), g.Results.Logs...)
		c.Results = &res
	}

	return &c
}

// DraftedIDs returns the set of character IDs already placed on any
// roster or currently held as the pending draw
func (g *GameState) DraftedIDs() map[int]bool {
	ids := make(map[int]bool)
	for _, team := range g.PlayerTeams {
		for _, c := range team {
			if c != nil {
				ids[c.ID] = true
			}
		}
	}
	if g.CurrentDraw != nil {
		ids[g.CurrentDraw.ID] = true
	}
	return ids
}
