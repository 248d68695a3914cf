package broadcast

import "encoding/json"

// Event names the kinds of room broadcasts
type Event string

const (
	// EventGameStarted announces the host started the draft
	EventGameStarted Event = "game-started"

	// EventStateUpdated carries a new shared state snapshot
	EventStateUpdated Event = "state-updated"

	// EventGameEnded announces the final results
	EventGameEnded Event = "game-ended"

	// EventPlayerJoined announces a new room member
	EventPlayerJoined Event = "player-joined"

	// EventPlayerLeft announces a departed room member
	EventPlayerLeft Event = "player-left"

	// EventChatMessage carries one chat entry
	EventChatMessage Event = "chat-message"
)

// MaxPayloadBytes is the broadcast payload ceiling. Oversized payloads
// are dropped; subscribers recover from the persisted state instead.
const MaxPayloadBytes = 10 * 1024

// Message is one delivered room event
type Message struct {
	// RoomID is the room the event belongs to
	RoomID string `json:"roomId"`

	// Event is the kind of broadcast
	Event Event `json:"event"`

	// SenderID identifies the user whose action produced the event, so
	// clients can ignore echoes of their own writes
	SenderID string `json:"senderId,omitempty"`

	// Payload is the JSON-encoded event body
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Subscription is an open event stream for one room
type Subscription struct {
	// Messages delivers events until the subscription is cancelled
	Messages <-chan Message

	// Cancel closes the stream and the Messages channel
	Cancel func()
}

type PublishInput struct {
	RoomID string
	Event  Event

	// SenderID is the acting user, carried through to subscribers
	SenderID string

	// Payload is marshaled to JSON; nil sends an empty body
	Payload any
}

type SubscribeInput struct {
	RoomID string
}
