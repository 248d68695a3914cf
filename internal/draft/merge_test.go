package draft

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/draftverse/draftroom/internal/models"
)

type MergeTestSuite struct {
	suite.Suite
	local *models.GameState
}

func (s *MergeTestSuite) SetupTest() {
	s.local = &models.GameState{
		Status:      models.GameStatusDrafting,
		Round:       2,
		CurrentTurn: 1,
		TurnOrder:   []string{"alice", "bob"},
		PlayerTeams: map[string][]*models.Character{
			"alice": {nil, nil, nil, nil, nil},
			"bob":   {nil, nil, nil, nil, nil},
		},
		SkipsRemaining: map[string]int{"alice": 2, "bob": 1},
	}
}

func TestMergeTestSuite(t *testing.T) {
	suite.Run(t, new(MergeTestSuite))
}

func (s *MergeTestSuite) TestFullSnapshotReplacesEverything() {
	incoming := s.local.Clone()
	incoming.Round = 3
	incoming.CurrentTurn = 0
	incoming.SkipsRemaining["bob"] = 0

	payload, err := json.Marshal(incoming)
	s.Require().NoError(err)

	merged, err := Merge(s.local, payload)
	s.Require().NoError(err)

	s.Equal(3, merged.Round)
	s.Equal(0, merged.CurrentTurn)
	s.Equal(0, merged.SkipsRemaining["bob"])
}

func (s *MergeTestSuite) TestPartialPayloadKeepsLocalFields() {
	merged, err := Merge(s.local, []byte(`{"round":4}`))
	s.Require().NoError(err)

	s.Equal(4, merged.Round)
	s.Equal(models.GameStatusDrafting, merged.Status)
	s.Equal(1, merged.CurrentTurn)
	s.Equal([]string{"alice", "bob"}, merged.TurnOrder)
	s.Equal(2, merged.SkipsRemaining["alice"])
}

func (s *MergeTestSuite) TestIncomingFieldWinsWholesale() {
	// Per-field replacement is wholesale: the incoming skip map drops
	// keys it does not carry rather than deep-merging
	merged, err := Merge(s.local, []byte(`{"skipsRemaining":{"alice":0}}`))
	s.Require().NoError(err)

	s.Equal(0, merged.SkipsRemaining["alice"])
	_, ok := merged.SkipsRemaining["bob"]
	s.False(ok)
}

func (s *MergeTestSuite) TestNilLocalAdoptsPayload() {
	merged, err := Merge(nil, []byte(`{"status":"SETUP","round":1}`))
	s.Require().NoError(err)

	s.Equal(models.GameStatusSetup, merged.Status)
	s.Equal(1, merged.Round)
}

func (s *MergeTestSuite) TestMalformedPayload() {
	_, err := Merge(s.local, []byte(`not json`))
	s.Error(err)
}

func (s *MergeTestSuite) TestLocalIsUntouched() {
	_, err := Merge(s.local, []byte(`{"round":9}`))
	s.Require().NoError(err)

	s.Equal(2, s.local.Round)
}
