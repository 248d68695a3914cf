package client

// ClientError is a custom error type for replica errors
type ClientError string

// Error implements the error interface
func (e ClientError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig      ClientError = "config cannot be nil"
	ErrNilService     ClientError = "room service cannot be nil"
	ErrNilMachine     ClientError = "draft machine cannot be nil"
	ErrNilBroadcaster ClientError = "broadcaster cannot be nil"
	ErrNilLogger      ClientError = "logger cannot be nil"
	ErrEmptyRoomID    ClientError = "room ID cannot be empty"
	ErrEmptyUserID    ClientError = "user ID cannot be empty"
	ErrNotStarted     ClientError = "replica has not been started"
	ErrNoState        ClientError = "no shared state is available yet"
)
