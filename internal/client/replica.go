// Package client implements one participant's view of a draft: a local
// replica of the shared game state, mutated optimistically, persisted
// with a debounce, and reconciled against best-effort room broadcasts.
// There is no server-side game loop; every rule runs here.
package client

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/draftverse/draftroom/internal/broadcast"
	"github.com/draftverse/draftroom/internal/draft"
	"github.com/draftverse/draftroom/internal/models"
	roomService "github.com/draftverse/draftroom/internal/services/room"
)

const (
	// DefaultDebounce coalesces rapid local mutations into one persist
	DefaultDebounce = 300 * time.Millisecond

	// DefaultPollInterval paces non-host clients waiting for the host to
	// initialize the shared state
	DefaultPollInterval = 2 * time.Second
)

// Config holds configuration for a replica
type Config struct {
	// RoomID is the room this replica participates in
	RoomID string

	// UserID identifies this participant
	UserID string

	// RoomService is the room/state API
	RoomService roomService.Service

	// Machine applies draft rules to the local state
	Machine *draft.Machine

	// Broadcaster delivers room events
	Broadcaster broadcast.Broadcaster

	// Logger for replica-level events
	Logger *zap.Logger

	// Debounce overrides DefaultDebounce (tests)
	Debounce time.Duration

	// PollInterval overrides DefaultPollInterval (tests)
	PollInterval time.Duration
}

// Replica is one client's copy of the shared game state
type Replica struct {
	roomID string
	userID string

	svc         roomService.Service
	machine     *draft.Machine
	broadcaster broadcast.Broadcaster
	logger      *zap.Logger

	debounce     time.Duration
	pollInterval time.Duration

	mu      sync.Mutex
	state   *models.GameState
	host    bool
	timer   *time.Timer
	pending *models.GameState

	sub     *broadcast.Subscription
	started bool
	wg      sync.WaitGroup
}

// New creates a new replica
func New(cfg *Config) (*Replica, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.RoomID == "" {
		return nil, ErrEmptyRoomID
	}

	if cfg.UserID == "" {
		return nil, ErrEmptyUserID
	}

	if cfg.RoomService == nil {
		return nil, ErrNilService
	}

	if cfg.Machine == nil {
		return nil, ErrNilMachine
	}

	if cfg.Broadcaster == nil {
		return nil, ErrNilBroadcaster
	}

	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	return &Replica{
		roomID:       cfg.RoomID,
		userID:       cfg.UserID,
		svc:          cfg.RoomService,
		machine:      cfg.Machine,
		broadcaster:  cfg.Broadcaster,
		logger:       cfg.Logger,
		debounce:     debounce,
		pollInterval: poll,
	}, nil
}

// Start loads or initializes the shared state and begins consuming room
// broadcasts. The host synthesizes the initial SETUP state when none is
// persisted; everyone else polls until it appears. The create-if-absent
// write below means two clients racing as host cannot clobber each
// other: exactly one initial state wins and both adopt it.
func (r *Replica) Start(ctx context.Context) error {
	out, err := r.svc.GetRoomState(ctx, &roomService.GetRoomStateInput{RoomID: r.roomID})
	if err != nil {
		return err
	}
	room := out.Room

	r.mu.Lock()
	r.host = room.HostID == r.userID
	r.mu.Unlock()

	// Subscribe before resolving the state so an initialization landing
	// in between is not missed
	sub, err := r.broadcaster.Subscribe(ctx, &broadcast.SubscribeInput{RoomID: r.roomID})
	if err != nil {
		return err
	}

	state := room.GameState
	if state == nil {
		if r.host {
			initOut, err := r.svc.InitState(ctx, &roomService.InitStateInput{
				RoomID:   r.roomID,
				CallerID: r.userID,
				State:    draft.NewSetupState(r.machine.Universes()),
			})
			if err != nil {
				sub.Cancel()
				return err
			}
			state = initOut.State
		} else {
			state, err = r.waitForState(ctx)
			if err != nil {
				sub.Cancel()
				return err
			}
		}
	}

	r.mu.Lock()
	r.state = state
	r.sub = sub
	r.started = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.consume()

	return nil
}

// Stop flushes any pending write and closes the broadcast stream
func (r *Replica) Stop(ctx context.Context) {
	r.mu.Lock()
	sub := r.sub
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	pending := r.pending
	r.pending = nil
	r.started = false
	r.mu.Unlock()

	if pending != nil {
		r.persist(ctx, pending)
	}

	if sub != nil {
		sub.Cancel()
		r.wg.Wait()
	}
}

// State returns a copy of the local view
func (r *Replica) State() *models.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// IsMyTurn reports whether this replica's user holds the turn
func (r *Replica) IsMyTurn() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.state
	return s != nil &&
		s.Status == models.GameStatusDrafting &&
		s.CurrentTurn >= 0 &&
		s.CurrentTurn < len(s.TurnOrder) &&
		s.TurnOrder[s.CurrentTurn] == r.userID
}

// StartDraft moves the room from SETUP to DRAFTING (host only). The
// active-player ordering is taken from the membership list at this
// moment and frozen into the blob.
func (r *Replica) StartDraft(ctx context.Context) error {
	out, err := r.svc.GetRoomState(ctx, &roomService.GetRoomStateInput{RoomID: r.roomID})
	if err != nil {
		return err
	}

	if out.Room.HostID != r.userID {
		return roomService.ErrNotHost
	}

	active := out.Room.ActivePlayers()
	ids := make([]string, 0, len(active))
	for _, p := range active {
		ids = append(ids, p.UserID)
	}

	return r.apply(ctx, func(s *models.GameState) (*models.GameState, error) {
		return r.machine.StartDraft(s, ids)
	})
}

// SelectUniverses replaces the host's universe filter during SETUP
func (r *Replica) SelectUniverses(ctx context.Context, universes []string) error {
	return r.apply(ctx, func(s *models.GameState) (*models.GameState, error) {
		if s.Status != models.GameStatusSetup {
			return nil, draft.ErrWrongStatus
		}
		next := s.Clone()
		next.SelectedUniverses = append([]string(nil), universes...)
		return next, nil
	})
}

// Draw samples a character for this user
func (r *Replica) Draw(ctx context.Context) error {
	return r.apply(ctx, func(s *models.GameState) (*models.GameState, error) {
		return r.machine.Draw(s, r.userID)
	})
}

// Place assigns the pending draw into a roster slot
func (r *Replica) Place(ctx context.Context, slot int) error {
	return r.apply(ctx, func(s *models.GameState) (*models.GameState, error) {
		return r.machine.Place(s, r.userID, slot)
	})
}

// Skip discards the pending draw and spends a skip
func (r *Replica) Skip(ctx context.Context) error {
	return r.apply(ctx, func(s *models.GameState) (*models.GameState, error) {
		return r.machine.Skip(s, r.userID)
	})
}

// apply runs a transition against the local state, adopts the result
// optimistically, and schedules a debounced persist. A rejected
// transition changes nothing and issues no write. When the transition
// lands in GRADING the scoring engine runs immediately and the final
// state is flushed without debounce.
func (r *Replica) apply(ctx context.Context, fn func(*models.GameState) (*models.GameState, error)) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return ErrNotStarted
	}
	if r.state == nil {
		r.mu.Unlock()
		return ErrNoState
	}

	next, err := fn(r.state)
	if err != nil {
		r.mu.Unlock()
		return err
	}

	finished := false
	if next.Status == models.GameStatusGrading {
		next, err = draft.Finalize(next)
		if err != nil {
			r.mu.Unlock()
			return err
		}
		finished = true
	}

	r.state = next
	if finished {
		// Drop any queued intermediate write; the terminal state
		// supersedes it
		if r.timer != nil {
			r.timer.Stop()
			r.timer = nil
		}
		r.pending = nil
		r.mu.Unlock()

		r.persist(ctx, next)
		if _, err := r.svc.EndGame(ctx, &roomService.EndGameInput{
			RoomID:   r.roomID,
			CallerID: r.userID,
			Result:   next.Results,
		}); err != nil {
			r.logger.Warn("failed to finalize match",
				zap.String("room_id", r.roomID),
				zap.Error(err))
		}
		return nil
	}

	r.pending = next
	if r.timer == nil {
		r.timer = time.AfterFunc(r.debounce, r.flush)
	}
	r.mu.Unlock()

	return nil
}

// flush writes the latest coalesced state
func (r *Replica) flush() {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.timer = nil
	r.mu.Unlock()

	if pending == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.persist(ctx, pending)
}

// persist pushes a state snapshot through the room service. Failures
// stay local to this client; there is no rollback of the optimistic
// apply, and other clients recover from whatever write lands next.
func (r *Replica) persist(ctx context.Context, state *models.GameState) {
	if _, err := r.svc.UpdateState(ctx, &roomService.UpdateStateInput{
		RoomID:   r.roomID,
		CallerID: r.userID,
		State:    state,
	}); err != nil {
		r.logger.Warn("failed to persist state",
			zap.String("room_id", r.roomID),
			zap.Error(err))
	}
}

// consume merges incoming broadcasts over the local view
func (r *Replica) consume() {
	defer r.wg.Done()

	for msg := range r.sub.Messages {
		switch msg.Event {
		case broadcast.EventStateUpdated:
			// Echoes of this client's own writes carry nothing new and
			// can be stale relative to the optimistic local state
			if msg.SenderID == r.userID {
				continue
			}

			r.mu.Lock()
			merged, err := draft.Merge(r.state, msg.Payload)
			if err != nil {
				r.mu.Unlock()
				r.logger.Warn("failed to merge state update",
					zap.String("room_id", r.roomID),
					zap.Error(err))
				continue
			}
			r.state = merged
			r.mu.Unlock()
		case broadcast.EventChatMessage:
			// Chat rides its own event and is absent from state
			// payloads, so it must be folded in here. Own echoes count
			// too: chat is posted through the room API, never applied
			// locally first.
			r.appendChat(msg.Payload)
		default:
			// Membership events carry no state; the next state-updated
			// or poll covers them
		}
	}
}

// appendChat folds one chat broadcast into the local list, keeping the
// newest MaxChatMessages entries
func (r *Replica) appendChat(payload []byte) {
	var msg models.ChatMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		r.logger.Warn("failed to decode chat message",
			zap.String("room_id", r.roomID),
			zap.Error(err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return
	}

	for _, existing := range r.state.ChatMessages {
		if existing.ID == msg.ID {
			return
		}
	}

	r.state.ChatMessages = append(r.state.ChatMessages, msg)
	if n := len(r.state.ChatMessages); n > models.MaxChatMessages {
		r.state.ChatMessages = r.state.ChatMessages[n-models.MaxChatMessages:]
	}
}

// waitForState polls the persisted blob until the host initializes it
func (r *Replica) waitForState(ctx context.Context) (*models.GameState, error) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		out, err := r.svc.GetRoomState(ctx, &roomService.GetRoomStateInput{RoomID: r.roomID})
		if err == nil && out.Room.GameState != nil {
			return out.Room.GameState, nil
		}
		if err != nil {
			r.logger.Warn("failed to poll room state",
				zap.String("room_id", r.roomID),
				zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
