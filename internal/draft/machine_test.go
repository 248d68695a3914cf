package draft

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/draftverse/draftroom/internal/models"
)

type MachineTestSuite struct {
	suite.Suite
	pool    []*models.Character
	machine *Machine
}

func (s *MachineTestSuite) SetupTest() {
	// Twelve characters across two universes, enough to start a draft
	s.pool = make([]*models.Character, 0, 12)
	for i := 1; i <= 12; i++ {
		universe := "Marvel"
		if i > 10 {
			universe = "DC"
		}
		s.pool = append(s.pool, &models.Character{
			ID:       i,
			Name:     fmt.Sprintf("Hero %d", i),
			Universe: universe,
			Stats: models.CharacterStats{
				Favorites: 1000,
			},
		})
	}

	machine, err := New(&Config{
		Pool:    s.pool,
		Sampler: NewSampler(&SamplerConfig{Seed: 42}),
	})
	s.Require().NoError(err)
	s.machine = machine
}

func TestMachineTestSuite(t *testing.T) {
	suite.Run(t, new(MachineTestSuite))
}

// startedState builds a DRAFTING state for the given players
func (s *MachineTestSuite) startedState(players ...string) *models.GameState {
	state, err := s.machine.StartDraft(NewSetupState(s.machine.Universes()), players)
	s.Require().NoError(err)
	return state
}

// drawAndPlace runs one draw-then-place for the active player
func (s *MachineTestSuite) drawAndPlace(state *models.GameState, callerID string, slot int) *models.GameState {
	state, err := s.machine.Draw(state, callerID)
	s.Require().NoError(err)

	state, err = s.machine.Place(state, callerID, slot)
	s.Require().NoError(err)
	return state
}

func (s *MachineTestSuite) TestUniverses() {
	s.Equal([]string{"Marvel", "DC"}, s.machine.Universes())
}

func (s *MachineTestSuite) TestNewSetupState() {
	state := NewSetupState([]string{"Marvel", "DC"})

	s.Equal(models.GameStatusSetup, state.Status)
	s.Equal(1, state.Round)
	s.Equal([]string{"Marvel", "DC"}, state.SelectedUniverses)
	s.Empty(state.TurnOrder)
}

func (s *MachineTestSuite) TestStartDraft() {
	state := s.startedState("alice", "bob")

	s.Equal(models.GameStatusDrafting, state.Status)
	s.Equal(1, state.Round)
	s.Equal(0, state.CurrentTurn)
	s.Equal([]string{"alice", "bob"}, state.TurnOrder)
	s.Len(state.PlayerTeams["alice"], models.RoleCount)
	s.Len(state.PlayerTeams["bob"], models.RoleCount)
	s.Equal(models.InitialSkips, state.SkipsRemaining["alice"])
	s.Equal(models.InitialSkips, state.SkipsRemaining["bob"])
}

func (s *MachineTestSuite) TestStartDraftRequiresSetup() {
	state := s.startedState("alice", "bob")

	_, err := s.machine.StartDraft(state, []string{"alice", "bob"})
	s.ErrorIs(err, ErrWrongStatus)
}

func (s *MachineTestSuite) TestStartDraftRequiresPlayers() {
	_, err := s.machine.StartDraft(NewSetupState(nil), nil)
	s.ErrorIs(err, ErrNoActivePlayers)
}

func (s *MachineTestSuite) TestStartDraftPoolTooSmall() {
	// Only two DC characters exist
	state := NewSetupState(nil)
	state.SelectedUniverses = []string{"DC"}

	_, err := s.machine.StartDraft(state, []string{"alice", "bob"})
	s.ErrorIs(err, ErrPoolTooSmall)
}

func (s *MachineTestSuite) TestDrawHoldsTurn() {
	state := s.startedState("alice", "bob")

	next, err := s.machine.Draw(state, "alice")
	s.Require().NoError(err)

	s.NotNil(next.CurrentDraw)
	s.Equal(0, next.CurrentTurn)
	s.Equal(1, next.Round)

	// The input state is untouched
	s.Nil(state.CurrentDraw)
}

func (s *MachineTestSuite) TestDrawWithPendingDrawRejected() {
	state := s.startedState("alice", "bob")

	state, err := s.machine.Draw(state, "alice")
	s.Require().NoError(err)
	held := state.CurrentDraw

	_, err = s.machine.Draw(state, "alice")
	s.ErrorIs(err, ErrDrawPending)
	s.Equal(held, state.CurrentDraw)
}

func (s *MachineTestSuite) TestDrawOutOfTurn() {
	state := s.startedState("alice", "bob")

	_, err := s.machine.Draw(state, "bob")
	s.ErrorIs(err, ErrNotYourTurn)
}

func (s *MachineTestSuite) TestDrawBySpectatorRejected() {
	state := s.startedState("alice", "bob")

	// carol watches the room but holds no roster position
	_, err := s.machine.Draw(state, "carol")
	s.ErrorIs(err, ErrSpectator)

	_, err = s.machine.Skip(state, "carol")
	s.ErrorIs(err, ErrSpectator)
}

func (s *MachineTestSuite) TestDrawBeforeStart() {
	_, err := s.machine.Draw(NewSetupState(nil), "alice")
	s.ErrorIs(err, ErrWrongStatus)
}

func (s *MachineTestSuite) TestDrawExcludesPlacedCharacters() {
	state := s.startedState("alice", "bob")

	state = s.drawAndPlace(state, "alice", 0)
	placed := state.PlayerTeams["alice"][0]

	// Every subsequent draw must avoid the placed character
	for i := 0; i < 20; i++ {
		next, err := s.machine.Draw(state, "bob")
		s.Require().NoError(err)
		s.NotEqual(placed.ID, next.CurrentDraw.ID)
	}
}

func (s *MachineTestSuite) TestPlaceFillsSlotAndAdvances() {
	state := s.startedState("alice", "bob")

	state, err := s.machine.Draw(state, "alice")
	s.Require().NoError(err)
	held := state.CurrentDraw

	state, err = s.machine.Place(state, "alice", 2)
	s.Require().NoError(err)

	s.Equal(held, state.PlayerTeams["alice"][2])
	s.Nil(state.CurrentDraw)
	s.Equal("bob", state.TurnOrder[state.CurrentTurn])
}

func (s *MachineTestSuite) TestPlaceWithoutDraw() {
	state := s.startedState("alice", "bob")

	_, err := s.machine.Place(state, "alice", 0)
	s.ErrorIs(err, ErrNoDraw)
}

func (s *MachineTestSuite) TestPlaceSlotOutOfRange() {
	state := s.startedState("alice", "bob")

	state, err := s.machine.Draw(state, "alice")
	s.Require().NoError(err)

	_, err = s.machine.Place(state, "alice", models.RoleCount)
	s.ErrorIs(err, ErrSlotOutOfRange)

	_, err = s.machine.Place(state, "alice", -1)
	s.ErrorIs(err, ErrSlotOutOfRange)
}

func (s *MachineTestSuite) TestPlaceTakenSlot() {
	state := s.startedState("alice")

	state = s.drawAndPlace(state, "alice", 0)

	state, err := s.machine.Draw(state, "alice")
	s.Require().NoError(err)

	_, err = s.machine.Place(state, "alice", 0)
	s.ErrorIs(err, ErrSlotTaken)
}

func (s *MachineTestSuite) TestSkipSpendsBudget() {
	state := s.startedState("alice", "bob")

	state, err := s.machine.Draw(state, "alice")
	s.Require().NoError(err)

	state, err = s.machine.Skip(state, "alice")
	s.Require().NoError(err)

	s.Nil(state.CurrentDraw)
	s.Equal(models.InitialSkips-1, state.SkipsRemaining["alice"])
	s.Equal("bob", state.TurnOrder[state.CurrentTurn])
	s.Equal(1, state.Round)
}

func (s *MachineTestSuite) TestSkipWithEmptyBudget() {
	state := s.startedState("alice", "bob")
	state.SkipsRemaining["alice"] = 0

	state, err := s.machine.Draw(state, "alice")
	s.Require().NoError(err)

	_, err = s.machine.Skip(state, "alice")
	s.ErrorIs(err, ErrNoSkipsLeft)
}

func (s *MachineTestSuite) TestSkippedCharacterCanBeDrawnAgain() {
	// One character in the pool plus one player makes the redraw certain
	machine, err := New(&Config{
		Pool:    s.pool[:1],
		Sampler: NewSampler(&SamplerConfig{Seed: 7}),
	})
	s.Require().NoError(err)

	state := NewSetupState(nil)
	state.Status = models.GameStatusDrafting
	state.TurnOrder = []string{"alice"}
	state.SkipsRemaining = map[string]int{"alice": models.InitialSkips}

	state, err = machine.Draw(state, "alice")
	s.Require().NoError(err)
	skipped := state.CurrentDraw

	state, err = machine.Skip(state, "alice")
	s.Require().NoError(err)

	state, err = machine.Draw(state, "alice")
	s.Require().NoError(err)
	s.Equal(skipped.ID, state.CurrentDraw.ID)
}

func (s *MachineTestSuite) TestRoundAdvancesWhenPassCompletes() {
	state := s.startedState("alice", "bob")

	state = s.drawAndPlace(state, "alice", 0)
	s.Equal(1, state.Round)

	state = s.drawAndPlace(state, "bob", 0)
	s.Equal(2, state.Round)
	s.Equal("alice", state.TurnOrder[state.CurrentTurn])
}

func (s *MachineTestSuite) TestSkipNeverAdvancesRound() {
	state := s.startedState("alice", "bob")

	state = s.drawAndPlace(state, "alice", 0)

	state, err := s.machine.Draw(state, "bob")
	s.Require().NoError(err)
	state, err = s.machine.Skip(state, "bob")
	s.Require().NoError(err)

	// The skip itself leaves the round alone; the next placement that
	// brings the fill count to a multiple of the player count closes
	// the pass instead
	s.Equal(1, state.Round)
	state = s.drawAndPlace(state, "alice", 1)
	s.Equal(2, state.Round)
}

func (s *MachineTestSuite) TestFullDraftReachesGrading() {
	state := s.startedState("alice", "bob")

	for round := 0; round < models.MaxRounds; round++ {
		state = s.drawAndPlace(state, "alice", round)
		state = s.drawAndPlace(state, "bob", round)
	}

	s.Equal(models.GameStatusGrading, state.Status)
	for slot := 0; slot < models.RoleCount; slot++ {
		s.NotNil(state.PlayerTeams["alice"][slot])
		s.NotNil(state.PlayerTeams["bob"][slot])
	}
}

func (s *MachineTestSuite) TestDepartedPlayerIsSkippedInRotation() {
	state := s.startedState("alice", "bob", "carol")

	state, err := MarkDeparted(state, "bob")
	s.Require().NoError(err)

	state = s.drawAndPlace(state, "alice", 0)
	s.Equal("carol", state.TurnOrder[state.CurrentTurn])
}

func (s *MachineTestSuite) TestMarkDepartedActivePlayerAdvances() {
	state := s.startedState("alice", "bob")

	state, err := s.machine.Draw(state, "alice")
	s.Require().NoError(err)

	state, err = MarkDeparted(state, "alice")
	s.Require().NoError(err)

	s.Nil(state.CurrentDraw)
	s.Equal("bob", state.TurnOrder[state.CurrentTurn])
	s.True(state.Departed["alice"])
}

func (s *MachineTestSuite) TestRoundAccountsForDepartures() {
	state := s.startedState("alice", "bob", "carol")

	state = s.drawAndPlace(state, "alice", 0)
	state = s.drawAndPlace(state, "bob", 0)

	state, err := MarkDeparted(state, "carol")
	s.Require().NoError(err)

	// Two active players with two filled slots completes the pass
	s.Equal(1, state.Round)
	state = s.drawAndPlace(state, "alice", 1)
	s.Equal(1, state.Round)
	state = s.drawAndPlace(state, "bob", 1)
	s.Equal(2, state.Round)
}

func (s *MachineTestSuite) TestDrawFromExhaustedPool() {
	machine, err := New(&Config{
		Pool:    s.pool[:2],
		Sampler: NewSampler(&SamplerConfig{Seed: 7}),
	})
	s.Require().NoError(err)

	state := &models.GameState{
		Status:    models.GameStatusDrafting,
		Round:     2,
		TurnOrder: []string{"alice", "bob"},
		PlayerTeams: map[string][]*models.Character{
			"alice": {s.pool[0], nil, nil, nil, nil},
			"bob":   {s.pool[1], nil, nil, nil, nil},
		},
		SkipsRemaining: map[string]int{"alice": 2, "bob": 2},
	}

	_, err = machine.Draw(state, "alice")
	s.ErrorIs(err, ErrPoolExhausted)
}

func (s *MachineTestSuite) TestEligibleFiltersUniversesAndExclusions() {
	eligible := Eligible(s.pool, []string{"DC"}, map[int]bool{11: true})

	s.Len(eligible, 1)
	s.Equal(12, eligible[0].ID)
}

func (s *MachineTestSuite) TestEligibleEmptySelectionAdmitsAll() {
	s.Len(Eligible(s.pool, nil, nil), len(s.pool))
}
