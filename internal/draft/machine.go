package draft

import (
	"github.com/draftverse/draftroom/internal/models"
)

// Machine applies draft actions to a shared game state. All methods are
// pure with respect to their input: they validate, clone, mutate the
// clone, and return it, so a rejected action never leaves a half-applied
// state behind.
type Machine struct {
	pool    []*models.Character
	sampler *Sampler
}

// Config holds configuration for the draft machine
type Config struct {
	// Pool is the full character catalog, fetched once per client session
	Pool []*models.Character

	// Sampler draws random characters from the pool
	Sampler *Sampler
}

// New creates a new draft machine
func New(cfg *Config) (*Machine, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Sampler == nil {
		return nil, ErrNilSampler
	}

	return &Machine{
		pool:    cfg.Pool,
		sampler: cfg.Sampler,
	}, nil
}

// Universes lists the distinct catalog partitions present in the pool,
// in first-seen order
func (m *Machine) Universes() []string {
	seen := make(map[string]bool)
	universes := make([]string, 0)
	for _, c := range m.pool {
		if c == nil || c.Universe == "" || seen[c.Universe] {
			continue
		}
		seen[c.Universe] = true
		universes = append(universes, c.Universe)
	}
	return universes
}

// NewSetupState builds the initial shared state the host pushes when it
// finds none persisted. All catalog universes start selected.
func NewSetupState(universes []string) *models.GameState {
	return &models.GameState{
		Status:            models.GameStatusSetup,
		Round:             1,
		SelectedUniverses: append([]string(nil), universes...),
		PlayerTeams:       make(map[string][]*models.Character),
		SkipsRemaining:    make(map[string]int),
	}
}

// StartDraft transitions SETUP to DRAFTING. The turn order is computed
// once here, from the active players in join order, and persisted in the
// blob; it is never re-derived from the membership list mid-draft.
func (m *Machine) StartDraft(s *models.GameState, activePlayerIDs []string) (*models.GameState, error) {
	if s == nil {
		return nil, ErrNilState
	}

	if s.Status != models.GameStatusSetup {
		return nil, ErrWrongStatus
	}

	if len(activePlayerIDs) == 0 {
		return nil, ErrNoActivePlayers
	}

	if len(Eligible(m.pool, s.SelectedUniverses, nil)) < MinViablePool {
		return nil, ErrPoolTooSmall
	}

	next := s.Clone()
	next.Status = models.GameStatusDrafting
	next.Round = 1
	next.CurrentTurn = 0
	next.TurnOrder = append([]string(nil), activePlayerIDs...)
	next.Departed = make(map[string]bool)
	next.PlayerTeams = make(map[string][]*models.Character, len(activePlayerIDs))
	next.SkipsRemaining = make(map[string]int, len(activePlayerIDs))

	for _, id := range activePlayerIDs {
		next.PlayerTeams[id] = make([]*models.Character, models.RoleCount)
		next.SkipsRemaining[id] = models.InitialSkips
	}

	return next, nil
}

// Draw samples one character for the active player. Drawing does not
// advance the turn; the same player must next Place or Skip.
func (m *Machine) Draw(s *models.GameState, callerID string) (*models.GameState, error) {
	if err := checkTurn(s, callerID); err != nil {
		return nil, err
	}

	if s.CurrentDraw != nil {
		return nil, ErrDrawPending
	}

	char, ok := m.sampler.Sample(m.pool, s.SelectedUniverses, s.DraftedIDs())
	if !ok {
		return nil, ErrPoolExhausted
	}

	next := s.Clone()
	next.CurrentDraw = char
	return next, nil
}

// Place assigns the pending draw into one of the caller's empty roster
// slots. The slot is caller-chosen and need not match the round number.
func (m *Machine) Place(s *models.GameState, callerID string, slot int) (*models.GameState, error) {
	if err := checkTurn(s, callerID); err != nil {
		return nil, err
	}

	if s.CurrentDraw == nil {
		return nil, ErrNoDraw
	}

	if slot < 0 || slot >= models.RoleCount {
		return nil, ErrSlotOutOfRange
	}

	if team, ok := s.PlayerTeams[callerID]; ok && len(team) == models.RoleCount && team[slot] != nil {
		return nil, ErrSlotTaken
	}

	next := s.Clone()
	team := next.Team(callerID)
	team[slot] = next.CurrentDraw
	next.CurrentDraw = nil

	advance(next, true)
	return next, nil
}

// Skip discards the pending draw and spends one skip. The discarded
// character is not removed from the pool, so it can be drawn again
// later; the exclusion set only tracks placed characters.
func (m *Machine) Skip(s *models.GameState, callerID string) (*models.GameState, error) {
	if err := checkTurn(s, callerID); err != nil {
		return nil, err
	}

	if s.CurrentDraw == nil {
		return nil, ErrNoDraw
	}

	if s.SkipsRemaining[callerID] <= 0 {
		return nil, ErrNoSkipsLeft
	}

	next := s.Clone()
	next.CurrentDraw = nil
	if next.SkipsRemaining == nil {
		next.SkipsRemaining = make(map[string]int)
	}
	next.SkipsRemaining[callerID]--

	advance(next, false)
	return next, nil
}

// MarkDeparted records that a player left mid-draft. Their turn-order
// position is kept but will be skipped by turn advancement from now on.
// If the departed player was the active one, the turn moves on
// immediately so the match cannot stall on them.
func MarkDeparted(s *models.GameState, userID string) (*models.GameState, error) {
	if s == nil {
		return nil, ErrNilState
	}

	next := s.Clone()
	if next.Departed == nil {
		next.Departed = make(map[string]bool)
	}
	next.Departed[userID] = true

	if next.Status == models.GameStatusDrafting &&
		len(next.TurnOrder) > 0 &&
		next.TurnOrder[next.CurrentTurn] == userID {
		next.CurrentDraw = nil
		advance(next, false)
	}

	return next, nil
}

// checkTurn validates that the caller may act at all
func checkTurn(s *models.GameState, callerID string) error {
	if s == nil {
		return ErrNilState
	}

	if s.Status != models.GameStatusDrafting {
		return ErrWrongStatus
	}

	if len(s.TurnOrder) == 0 ||
		s.CurrentTurn < 0 ||
		s.CurrentTurn >= len(s.TurnOrder) {
		return ErrNotYourTurn
	}

	onRoster := false
	for _, id := range s.TurnOrder {
		if id == callerID {
			onRoster = true
			break
		}
	}
	if !onRoster {
		return ErrSpectator
	}

	if s.TurnOrder[s.CurrentTurn] != callerID {
		return ErrNotYourTurn
	}

	return nil
}

// advance moves the turn to the next non-departed player and applies the
// round accounting rule: the round increments when the total filled slot
// count becomes a nonzero multiple of the active player count, i.e. when
// a full pass completes. Skips change no fill count and so never trigger
// the increment.
func advance(s *models.GameState, placed bool) {
	n := len(s.TurnOrder)
	if n == 0 {
		return
	}

	s.CurrentTurn = (s.CurrentTurn + 1) % n
	for i := 0; i < n; i++ {
		if !s.Departed[s.TurnOrder[s.CurrentTurn]] {
			break
		}
		s.CurrentTurn = (s.CurrentTurn + 1) % n
	}

	active := s.ActiveCount()
	if placed && active > 0 {
		filled := s.FilledSlots()
		if filled > 0 && filled%active == 0 {
			s.Round++
		}
	}

	if s.Round > models.MaxRounds {
		s.Status = models.GameStatusGrading
	}
}
