package room

// RoomError is a custom error type for room-related errors
type RoomError string

// Error implements the error interface
func (e RoomError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrRoomNotFound   RoomError = "room not found"
	ErrRoomNotWaiting RoomError = "game already started"
	ErrRoomFull       RoomError = "room is full"
	ErrNotHost        RoomError = "only the host can do that"
	ErrNotMember      RoomError = "caller is not a member of the room"
	ErrNoGameState    RoomError = "room has no game state yet"
	ErrEmptyMessage   RoomError = "chat message cannot be empty"
	ErrNilConfig      RoomError = "config cannot be nil"
	ErrNilRoomRepo    RoomError = "room repository cannot be nil"
	ErrNilUserRepo    RoomError = "user repository cannot be nil"
	ErrNilBroadcaster RoomError = "broadcaster cannot be nil"
	ErrNilClock       RoomError = "clock cannot be nil"
	ErrNilUUID        RoomError = "UUID generator cannot be nil"
	ErrNilLogger      RoomError = "logger cannot be nil"
)
