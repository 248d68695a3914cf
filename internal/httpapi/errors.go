package httpapi

// APIError represents an API configuration error
type APIError string

func (e APIError) Error() string {
	return string(e)
}

const (
	// ErrNilConfig is returned when a nil config is provided
	ErrNilConfig = APIError("config cannot be nil")

	// ErrNilService is returned when the room service is missing
	ErrNilService = APIError("room service cannot be nil")

	// ErrNilCatalog is returned when the catalog repository is missing
	ErrNilCatalog = APIError("catalog repository cannot be nil")

	// ErrNilBroadcaster is returned when the broadcaster is missing
	ErrNilBroadcaster = APIError("broadcaster cannot be nil")

	// ErrNilLogger is returned when the logger is missing
	ErrNilLogger = APIError("logger cannot be nil")
)
