package room

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/draftverse/draftroom/internal/broadcast"
	"github.com/draftverse/draftroom/internal/common/clock"
	"github.com/draftverse/draftroom/internal/common/uuid"
	"github.com/draftverse/draftroom/internal/draft"
	"github.com/draftverse/draftroom/internal/models"
	roomRepo "github.com/draftverse/draftroom/internal/repositories/room"
	userRepo "github.com/draftverse/draftroom/internal/repositories/user"
)

// service implements the Service interface
type service struct {
	maxActivePlayers int

	roomRepo    roomRepo.Repository
	userRepo    userRepo.Repository
	broadcaster broadcast.Broadcaster
	clock       clock.Clock
	uuid        uuid.UUID
	logger      *zap.Logger
}

// New creates a new room service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
	}

	if cfg.UserRepo == nil {
		return nil, ErrNilUserRepo
	}

	if cfg.Broadcaster == nil {
		return nil, ErrNilBroadcaster
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUID
	}

	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	maxActive := cfg.MaxActivePlayers
	if maxActive <= 0 {
		maxActive = models.MaxActivePlayers
	}

	return &service{
		maxActivePlayers: maxActive,
		roomRepo:         cfg.RoomRepo,
		userRepo:         cfg.UserRepo,
		broadcaster:      cfg.Broadcaster,
		clock:            cfg.Clock,
		uuid:             cfg.UUIDGenerator,
		logger:           cfg.Logger,
	}, nil
}

// CreateRoom creates a room with the caller as host
func (s *service) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil || input.HostID == "" {
		return nil, errors.New("input and host ID cannot be empty")
	}

	out, err := s.roomRepo.CreateRoom(ctx, &roomRepo.CreateRoomInput{
		HostID: input.HostID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	s.logger.Info("room created",
		zap.String("room_id", out.Room.ID),
		zap.String("code", out.Room.Code),
		zap.String("host_id", input.HostID))

	return &CreateRoomOutput{Room: out.Room}, nil
}

// JoinRoom adds the caller to a room found by code
func (s *service) JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error) {
	if input == nil || input.Code == "" || input.UserID == "" {
		return nil, errors.New("input, code and user ID cannot be empty")
	}

	room, err := s.roomRepo.GetRoomByCode(ctx, &roomRepo.GetRoomByCodeInput{
		Code: strings.ToUpper(input.Code),
	})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	// Rejoining is a no-op regardless of room status
	if room.Player(input.UserID) != nil {
		return &JoinRoomOutput{Room: room, AlreadyMember: true}, nil
	}

	if room.Status != models.RoomStatusWaiting {
		return nil, ErrRoomNotWaiting
	}

	if !input.IsSpectator && len(room.ActivePlayers()) >= s.maxActivePlayers {
		return nil, ErrRoomFull
	}

	out, err := s.roomRepo.AddPlayer(ctx, &roomRepo.AddPlayerInput{
		RoomID:      room.ID,
		UserID:      input.UserID,
		IsSpectator: input.IsSpectator,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add player: %w", err)
	}

	s.publish(ctx, room.ID, input.UserID, broadcast.EventPlayerJoined, map[string]any{
		"userId":      input.UserID,
		"isSpectator": input.IsSpectator,
	})

	return &JoinRoomOutput{Room: out.Room, AlreadyMember: out.AlreadyMember}, nil
}

// LeaveRoom removes the caller from a room
func (s *service) LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*LeaveRoomOutput, error) {
	if input == nil || input.RoomID == "" || input.UserID == "" {
		return nil, errors.New("input, room ID and user ID cannot be empty")
	}

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: input.RoomID})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if room.Player(input.UserID) == nil {
		return nil, ErrNotMember
	}

	if err := s.roomRepo.RemovePlayer(ctx, &roomRepo.RemovePlayerInput{
		RoomID: input.RoomID,
		UserID: input.UserID,
	}); err != nil {
		return nil, fmt.Errorf("failed to remove player: %w", err)
	}

	// A mid-draft departure is recorded in the blob so the remaining
	// clients skip the vacated turn position instead of stalling on it
	departed := false
	if room.Status == models.RoomStatusDrafting && room.GameState != nil &&
		room.GameState.Status == models.GameStatusDrafting {
		next, err := draft.MarkDeparted(room.GameState, input.UserID)
		if err == nil {
			if setErr := s.roomRepo.SetGameState(ctx, &roomRepo.SetGameStateInput{
				RoomID: input.RoomID,
				State:  next,
			}); setErr == nil {
				departed = true
				s.publish(ctx, input.RoomID, input.UserID, broadcast.EventStateUpdated, broadcastView(next))
			} else {
				s.logger.Warn("failed to record departure in game state",
					zap.String("room_id", input.RoomID),
					zap.String("user_id", input.UserID),
					zap.Error(setErr))
			}
		}
	}

	s.publish(ctx, input.RoomID, input.UserID, broadcast.EventPlayerLeft, map[string]any{
		"userId": input.UserID,
	})

	return &LeaveRoomOutput{Departed: departed}, nil
}

// GetRoomState retrieves a room with its players and shared state
func (s *service) GetRoomState(ctx context.Context, input *GetRoomStateInput) (*GetRoomStateOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: input.RoomID})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	return &GetRoomStateOutput{Room: room}, nil
}

// StartGame is the host-only WAITING to DRAFTING transition
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil || input.RoomID == "" || input.CallerID == "" {
		return nil, errors.New("input, room ID and caller ID cannot be empty")
	}

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: input.RoomID})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if room.HostID != input.CallerID {
		return nil, ErrNotHost
	}

	if room.Status != models.RoomStatusWaiting {
		return nil, ErrRoomNotWaiting
	}

	// Starting wipes any stale blob from a previous attempt; the host's
	// client initializes a fresh one through InitState
	if err := s.roomRepo.ClearGameState(ctx, &roomRepo.ClearGameStateInput{
		RoomID: input.RoomID,
	}); err != nil {
		return nil, fmt.Errorf("failed to clear game state: %w", err)
	}

	now := s.clock.Now()
	room.Status = models.RoomStatusDrafting
	room.StartedAt = &now
	room.GameState = nil

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	s.publish(ctx, input.RoomID, input.CallerID, broadcast.EventGameStarted, nil)

	s.logger.Info("game started",
		zap.String("room_id", input.RoomID),
		zap.String("host_id", input.CallerID))

	return &StartGameOutput{Room: room}, nil
}

// InitState writes the initial shared state only if none exists
func (s *service) InitState(ctx context.Context, input *InitStateInput) (*InitStateOutput, error) {
	if input == nil || input.RoomID == "" || input.CallerID == "" || input.State == nil {
		return nil, errors.New("input, room ID, caller ID and state cannot be empty")
	}

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: input.RoomID})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if room.HostID != input.CallerID {
		return nil, ErrNotHost
	}

	out, err := s.roomRepo.InitGameState(ctx, &roomRepo.InitGameStateInput{
		RoomID: input.RoomID,
		State:  input.State,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize game state: %w", err)
	}

	if out.Created {
		s.publish(ctx, input.RoomID, input.CallerID, broadcast.EventStateUpdated, broadcastView(input.State))
		return &InitStateOutput{Created: true, State: input.State}, nil
	}

	// Lost the race; hand back whatever landed first
	state, err := s.roomRepo.GetGameState(ctx, &roomRepo.GetGameStateInput{RoomID: input.RoomID})
	if err != nil {
		return nil, err
	}
	return &InitStateOutput{Created: false, State: state}, nil
}

// UpdateState overwrites the persisted blob and broadcasts it
func (s *service) UpdateState(ctx context.Context, input *UpdateStateInput) (*UpdateStateOutput, error) {
	if input == nil || input.RoomID == "" || input.CallerID == "" || input.State == nil {
		return nil, errors.New("input, room ID, caller ID and state cannot be empty")
	}

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: input.RoomID})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if room.Player(input.CallerID) == nil {
		return nil, ErrNotMember
	}

	// Persistence failures propagate to the caller; the broadcast below
	// is best-effort only
	if err := s.roomRepo.SetGameState(ctx, &roomRepo.SetGameStateInput{
		RoomID: input.RoomID,
		State:  input.State,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist game state: %w", err)
	}

	s.publish(ctx, input.RoomID, input.CallerID, broadcast.EventStateUpdated, broadcastView(input.State))

	return &UpdateStateOutput{State: input.State}, nil
}

// EndGame records the final results and updates win/loss counters
func (s *service) EndGame(ctx context.Context, input *EndGameInput) (*EndGameOutput, error) {
	if input == nil || input.RoomID == "" || input.CallerID == "" || input.Result == nil {
		return nil, errors.New("input, room ID, caller ID and result cannot be empty")
	}

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: input.RoomID})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if room.Player(input.CallerID) == nil {
		return nil, ErrNotMember
	}

	// The room record going FINISHED is idempotent; counters are only
	// touched on the first transition
	if room.Status == models.RoomStatusFinished {
		return &EndGameOutput{Room: room}, nil
	}

	room.Status = models.RoomStatusFinished
	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{Room: room}); err != nil {
		return nil, fmt.Errorf("failed to save room: %w", err)
	}

	for _, p := range room.ActivePlayers() {
		outcome := userRepo.OutcomeLoss
		if p.UserID == input.Result.WinnerID {
			outcome = userRepo.OutcomeWin
		}
		if err := s.userRepo.RecordOutcome(ctx, &userRepo.RecordOutcomeInput{
			UserID:  p.UserID,
			Outcome: outcome,
		}); err != nil {
			s.logger.Warn("failed to record match outcome",
				zap.String("room_id", input.RoomID),
				zap.String("user_id", p.UserID),
				zap.Error(err))
		}
	}

	s.publish(ctx, input.RoomID, input.CallerID, broadcast.EventGameEnded, input.Result)

	s.logger.Info("game ended",
		zap.String("room_id", input.RoomID),
		zap.String("winner_id", input.Result.WinnerID))

	return &EndGameOutput{Room: room}, nil
}

// PostChatMessage appends to the room's bounded chat list
func (s *service) PostChatMessage(ctx context.Context, input *PostChatMessageInput) (*PostChatMessageOutput, error) {
	if input == nil || input.RoomID == "" || input.UserID == "" {
		return nil, errors.New("input, room ID and user ID cannot be empty")
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{RoomID: input.RoomID})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if room.Player(input.UserID) == nil {
		return nil, ErrNotMember
	}

	state := room.GameState
	if state == nil {
		return nil, ErrNoGameState
	}

	msg := models.ChatMessage{
		ID:      s.uuid.NewUUID(),
		UserID:  input.UserID,
		Content: content,
		SentAt:  s.clock.Now(),
	}

	next := state.Clone()
	next.ChatMessages = append(next.ChatMessages, msg)
	if len(next.ChatMessages) > models.MaxChatMessages {
		next.ChatMessages = next.ChatMessages[len(next.ChatMessages)-models.MaxChatMessages:]
	}

	if err := s.roomRepo.SetGameState(ctx, &roomRepo.SetGameStateInput{
		RoomID: input.RoomID,
		State:  next,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist chat message: %w", err)
	}

	s.publish(ctx, input.RoomID, input.UserID, broadcast.EventChatMessage, msg)

	return &PostChatMessageOutput{Message: &msg}, nil
}

// GetLeaderboard lists the top users by wins
func (s *service) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	limit := 0
	if input != nil {
		limit = input.Limit
	}

	out, err := s.userRepo.GetLeaderboard(ctx, &userRepo.GetLeaderboardInput{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return &GetLeaderboardOutput{Users: out.Users}, nil
}

// broadcastView trims a state snapshot down to what fits on the wire.
// The chat list can grow to its bound and push a full snapshot past the
// payload ceiling; receivers get chat through chat-message events and
// keep their local list on merge.
func broadcastView(state *models.GameState) *models.GameState {
	if state == nil || len(state.ChatMessages) == 0 {
		return state
	}

	view := state.Clone()
	view.ChatMessages = nil
	return view
}

// publish sends a best-effort room event. Failures are logged and
// swallowed: the persisted state is the durable source of truth, and
// other clients recover via their own polling.
func (s *service) publish(ctx context.Context, roomID, senderID string, event broadcast.Event, payload any) {
	err := s.broadcaster.Publish(ctx, &broadcast.PublishInput{
		RoomID:   roomID,
		Event:    event,
		SenderID: senderID,
		Payload:  payload,
	})
	if err != nil {
		s.logger.Warn("broadcast failed",
			zap.String("room_id", roomID),
			zap.String("event", string(event)),
			zap.Error(err))
	}
}
