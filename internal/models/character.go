package models

// RoleSlot identifies one of the five fixed roster positions
type RoleSlot int

const (
	// RoleCaptain is the first roster slot
	RoleCaptain RoleSlot = iota

	// RoleViceCaptain is the second roster slot
	RoleViceCaptain

	// RoleTank is the third roster slot
	RoleTank

	// RoleDuelist is the fourth roster slot
	RoleDuelist

	// RoleSupport is the fifth roster slot
	RoleSupport
)

// RoleCount is the number of roster slots every team has
const RoleCount = 5

// RoleNames are the display names of the roster slots, in slot order
var RoleNames = [RoleCount]string{"CAPTAIN", "VICE CAPTAIN", "TANK", "DUELIST", "SUPPORT"}

// RoleStats holds a character's aptitude rating (1-5) for each role
type RoleStats struct {
	// Captain is the aptitude rating for the captain slot
	Captain int `json:"captain"`

	// ViceCaptain is the aptitude rating for the vice captain slot
	ViceCaptain int `json:"viceCaptain"`

	// Tank is the aptitude rating for the tank slot
	Tank int `json:"tank"`

	// Duelist is the aptitude rating for the duelist slot
	Duelist int `json:"duelist"`

	// Support is the aptitude rating for the support slot
	Support int `json:"support"`

	// Reason is an optional free-text rationale for the ratings
	Reason string `json:"reason,omitempty"`
}

// Rating returns the rating for a roster slot, defaulting to 1 so a
// missing rating never zeroes out a legitimate score
func (r RoleStats) Rating(slot RoleSlot) int {
	var v int
	switch slot {
	case RoleCaptain:
		v = r.Captain
	case RoleViceCaptain:
		v = r.ViceCaptain
	case RoleTank:
		v = r.Tank
	case RoleDuelist:
		v = r.Duelist
	case RoleSupport:
		v = r.Support
	}
	if v < 1 {
		return 1
	}
	return v
}

// IsZero reports whether no rating has been set
func (r RoleStats) IsZero() bool {
	return r.Captain == 0 && r.ViceCaptain == 0 && r.Tank == 0 && r.Duelist == 0 && r.Support == 0
}

// CharacterStats holds the scoring inputs attached to a character
type CharacterStats struct {
	// Favorites is the popularity count used as the score base
	Favorites int `json:"favorites"`

	// RoleStats are the per-role aptitude ratings
	RoleStats RoleStats `json:"roleStats"`
}

// Character is an immutable catalog entity that players draft onto rosters
type Character struct {
	// ID is the catalog identifier for the character
	ID int `json:"id"`

	// Name is the display name of the character
	Name string `json:"name"`

	// ImageURL points at the character's portrait
	ImageURL string `json:"imageUrl"`

	// Universe is the catalog partition the character belongs to
	Universe string `json:"universe"`

	// Stats are the scoring inputs for the character
	Stats CharacterStats `json:"stats"`
}

// DeriveRoleStats produces stable ratings for a character that has none.
// The seed is id plus name length so repeated lookups agree across clients.
func DeriveRoleStats(id int, name string) RoleStats {
	seed := id + len(name)
	r := func(n int) int {
		v := (seed + n) % RoleCount
		if v < 0 {
			v += RoleCount
		}
		return v + 1
	}
	return RoleStats{
		Captain:     r(0),
		ViceCaptain: r(1),
		Tank:        r(2),
		Duelist:     r(3),
		Support:     r(4),
	}
}
