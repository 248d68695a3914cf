package httpapi

import (
	"go.uber.org/zap"

	"github.com/draftverse/draftroom/internal/broadcast"
	catalogRepo "github.com/draftverse/draftroom/internal/repositories/catalog"
	roomService "github.com/draftverse/draftroom/internal/services/room"
)

// Config holds configuration for the HTTP API
type Config struct {
	// RoomService is the room lifecycle API
	RoomService roomService.Service

	// CatalogRepo serves the character pool and universe list
	CatalogRepo catalogRepo.Repository

	// Broadcaster feeds the websocket event stream
	Broadcaster broadcast.Broadcaster

	// ChatLimiter bounds chat posts per user; defaults to
	// DefaultChatLimit per DefaultChatWindow when nil
	ChatLimiter *RateLimiter

	// Logger for request-level events
	Logger *zap.Logger
}

type createRoomRequest struct {
	HostID string `json:"hostId"`
}

type joinRoomRequest struct {
	Code      string `json:"code"`
	UserID    string `json:"userId"`
	Spectator bool   `json:"spectator"`
}

type leaveRoomRequest struct {
	UserID string `json:"userId"`
}

type startGameRequest struct {
	UserID string `json:"userId"`
}

type chatRequest struct {
	UserID  string `json:"userId"`
	Content string `json:"content"`
}

type errorResponse struct {
	Error string `json:"error"`
}
