package draft

import (
	"fmt"
	"math"
	"sort"

	"github.com/draftverse/draftroom/internal/models"
)

// DefaultFavorites replaces a missing or non-positive popularity count
// before taking the log, which is undefined at zero
const DefaultFavorites = 100

// roleBonusFactor weights the role rating against the popularity base
const roleBonusFactor = 3

// Power computes a character's strength in a given roster slot:
// ln(favorites) plus three times the role rating. Inputs are clamped to
// their defaults so the result is always positive for a real character.
func Power(c *models.Character, slot models.RoleSlot) float64 {
	if c == nil {
		return 0
	}

	favorites := c.Stats.Favorites
	if favorites <= 0 {
		favorites = DefaultFavorites
	}

	stats := c.Stats.RoleStats
	if stats.IsZero() {
		stats = models.DeriveRoleStats(c.ID, c.Name)
	}

	return math.Log(float64(favorites)) + float64(stats.Rating(slot))*roleBonusFactor
}

// Score computes the final outcome for a set of completed rosters. It is
// a pure function: the same rosters and turn order always produce the
// same winner, scores, and trace.
//
// Each of the five roles is worth one point, won by every player whose
// power for that role ties the maximum and is greater than zero. The
// match winner has the most role points; ties fall to the higher total
// power, then to the earliest position in the turn order.
func Score(turnOrder []string, teams map[string][]*models.Character) *models.MatchResult {
	players := scoringOrder(turnOrder, teams)

	scores := make(map[string]int, len(players))
	totals := make(map[string]float64, len(players))
	logs := make([]string, 0, models.RoleCount*(len(players)+1)+len(players)+1)

	for _, id := range players {
		scores[id] = 0
	}

	for slot := models.RoleSlot(0); slot < models.RoleCount; slot++ {
		roleName := models.RoleNames[slot]

		best := 0.0
		powers := make(map[string]float64, len(players))
		for _, id := range players {
			var char *models.Character
			if team := teams[id]; len(team) > int(slot) {
				char = team[slot]
			}

			p := Power(char, slot)
			powers[id] = p
			totals[id] += p

			if char == nil {
				logs = append(logs, fmt.Sprintf("%s: %s has no character (Pwr: 0.0)", roleName, id))
				continue
			}

			favorites := char.Stats.Favorites
			if favorites <= 0 {
				favorites = DefaultFavorites
			}
			stats := char.Stats.RoleStats
			if stats.IsZero() {
				stats = models.DeriveRoleStats(char.ID, char.Name)
			}
			base := math.Log(float64(favorites))
			logs = append(logs, fmt.Sprintf("%s: %s fields %s: Pwr %.1f + (%d* x %d) = %.1f",
				roleName, id, char.Name, base, stats.Rating(slot), roleBonusFactor, p))

			if p > best {
				best = p
			}
		}

		if best <= 0 {
			logs = append(logs, fmt.Sprintf("%s: no winner (empty role)", roleName))
			continue
		}

		winners := make([]string, 0, 1)
		for _, id := range players {
			if powers[id] == best {
				scores[id]++
				winners = append(winners, id)
			}
		}
		logs = append(logs, fmt.Sprintf("%s: point to %s (Pwr: %.1f)", roleName, joinIDs(winners), best))
	}

	winnerID := ""
	for _, id := range players {
		logs = append(logs, fmt.Sprintf("FINAL: %s scored %d (total Pwr: %.1f)", id, scores[id], totals[id]))
		if winnerID == "" {
			winnerID = id
			continue
		}
		if scores[id] > scores[winnerID] {
			winnerID = id
		} else if scores[id] == scores[winnerID] && totals[id] > totals[winnerID] {
			winnerID = id
		}
	}

	if winnerID != "" {
		logs = append(logs, fmt.Sprintf("WINNER: %s", winnerID))
	}

	return &models.MatchResult{
		WinnerID: winnerID,
		Scores:   scores,
		Logs:     logs,
	}
}

// Finalize runs the scoring engine over a state in GRADING and freezes
// the outcome into it
func Finalize(s *models.GameState) (*models.GameState, error) {
	if s == nil {
		return nil, ErrNilState
	}

	if s.Status != models.GameStatusGrading {
		return nil, ErrNotFinished
	}

	next := s.Clone()
	next.Results = Score(next.TurnOrder, next.PlayerTeams)
	next.Status = models.GameStatusFinished
	next.CurrentDraw = nil
	return next, nil
}

// scoringOrder lists the players to score: the persisted turn order
// first, then any roster-only keys sorted for determinism. The turn
// order position doubles as the documented final tie-break.
func scoringOrder(turnOrder []string, teams map[string][]*models.Character) []string {
	seen := make(map[string]bool, len(turnOrder))
	players := make([]string, 0, len(turnOrder))
	for _, id := range turnOrder {
		if !seen[id] {
			seen[id] = true
			players = append(players, id)
		}
	}

	extra := make([]string, 0)
	for id := range teams {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)

	return append(players, extra...)
}

func joinIDs(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += " and "
		}
		out += id
	}
	return out
}
