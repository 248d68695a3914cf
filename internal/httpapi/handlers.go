// Package httpapi exposes the room lifecycle, catalog, and leaderboard
// over HTTP, plus a websocket stream of room events.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/draftverse/draftroom/internal/broadcast"
	catalogRepo "github.com/draftverse/draftroom/internal/repositories/catalog"
	roomService "github.com/draftverse/draftroom/internal/services/room"
)

// API serves the HTTP surface
type API struct {
	rooms       roomService.Service
	catalog     catalogRepo.Repository
	broadcaster broadcast.Broadcaster
	chatLimiter *RateLimiter
	logger      *zap.Logger
}

// New creates a new API
func New(cfg *Config) (*API, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.RoomService == nil {
		return nil, ErrNilService
	}

	if cfg.CatalogRepo == nil {
		return nil, ErrNilCatalog
	}

	if cfg.Broadcaster == nil {
		return nil, ErrNilBroadcaster
	}

	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	limiter := cfg.ChatLimiter
	if limiter == nil {
		limiter = NewRateLimiter(DefaultChatLimit, DefaultChatWindow, nil)
	}

	return &API{
		rooms:       cfg.RoomService,
		catalog:     cfg.CatalogRepo,
		broadcaster: cfg.Broadcaster,
		chatLimiter: limiter,
		logger:      cfg.Logger,
	}, nil
}

// Routes builds the router
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", a.healthz)
	r.Post("/rooms", a.createRoom)
	r.Post("/rooms/join", a.joinRoom)
	r.Get("/rooms/{roomID}", a.getRoom)
	r.Post("/rooms/{roomID}/leave", a.leaveRoom)
	r.Post("/rooms/{roomID}/start", a.startGame)
	r.Post("/rooms/{roomID}/chat", a.postChat)
	r.Get("/rooms/{roomID}/events", a.roomEvents)
	r.Get("/characters", a.listCharacters)
	r.Get("/universes", a.listUniverses)
	r.Get("/leaderboard", a.leaderboard)

	return r
}

func (a *API) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (a *API) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HostID == "" {
		a.writeError(w, http.StatusBadRequest, "hostId is required")
		return
	}

	out, err := a.rooms.CreateRoom(r.Context(), &roomService.CreateRoomInput{HostID: req.HostID})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, out.Room)
}

func (a *API) joinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" || req.UserID == "" {
		a.writeError(w, http.StatusBadRequest, "code and userId are required")
		return
	}

	out, err := a.rooms.JoinRoom(r.Context(), &roomService.JoinRoomInput{
		Code:        req.Code,
		UserID:      req.UserID,
		IsSpectator: req.Spectator,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, out.Room)
}

func (a *API) getRoom(w http.ResponseWriter, r *http.Request) {
	out, err := a.rooms.GetRoomState(r.Context(), &roomService.GetRoomStateInput{
		RoomID: chi.URLParam(r, "roomID"),
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, out.Room)
}

func (a *API) leaveRoom(w http.ResponseWriter, r *http.Request) {
	var req leaveRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		a.writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	out, err := a.rooms.LeaveRoom(r.Context(), &roomService.LeaveRoomInput{
		RoomID: chi.URLParam(r, "roomID"),
		UserID: req.UserID,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, struct {
		Departed bool `json:"departed"`
	}{Departed: out.Departed})
}

func (a *API) startGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		a.writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	out, err := a.rooms.StartGame(r.Context(), &roomService.StartGameInput{
		RoomID:   chi.URLParam(r, "roomID"),
		CallerID: req.UserID,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, out.Room)
}

func (a *API) postChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		a.writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if !a.chatLimiter.Allow(req.UserID) {
		a.writeError(w, http.StatusTooManyRequests, "slow down")
		return
	}

	out, err := a.rooms.PostChatMessage(r.Context(), &roomService.PostChatMessageInput{
		RoomID:  chi.URLParam(r, "roomID"),
		UserID:  req.UserID,
		Content: req.Content,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, out.Message)
}

func (a *API) listCharacters(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			a.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	out, err := a.catalog.ListCharacters(r.Context(), &catalogRepo.ListCharactersInput{Limit: limit})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, out.Characters)
}

func (a *API) listUniverses(w http.ResponseWriter, r *http.Request) {
	out, err := a.catalog.ListUniverses(r.Context(), &catalogRepo.ListUniversesInput{})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, out.Universes)
}

func (a *API) leaderboard(w http.ResponseWriter, r *http.Request) {
	out, err := a.rooms.GetLeaderboard(r.Context(), &roomService.GetLeaderboardInput{})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, out.Users)
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, errorResponse{Error: msg})
}

func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, roomService.ErrRoomNotFound),
		errors.Is(err, catalogRepo.ErrCharacterNotFound):
		status = http.StatusNotFound
	case errors.Is(err, roomService.ErrNotHost),
		errors.Is(err, roomService.ErrNotMember):
		status = http.StatusForbidden
	case errors.Is(err, roomService.ErrRoomFull),
		errors.Is(err, roomService.ErrRoomNotWaiting):
		status = http.StatusConflict
	case errors.Is(err, roomService.ErrEmptyMessage):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", zap.Error(err))
	}

	a.writeError(w, status, err.Error())
}
