package draft

import (
	"math/rand"
	"time"

	"github.com/draftverse/draftroom/internal/models"
)

// MinViablePool is the smallest eligible pool a draft may start with
const MinViablePool = 10

// Sampler draws uniform-random characters from the shared pool. Every
// client samples independently, so correctness depends on each client
// filtering against the same catalog and exclusion set.
type Sampler struct {
	random *rand.Rand
}

// SamplerConfig for the pool sampler
type SamplerConfig struct {
	// Optional seed for testing
	Seed int64
}

// NewSampler creates a new pool sampler
func NewSampler(cfg *SamplerConfig) *Sampler {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)

	return &Sampler{
		random: rand.New(source),
	}
}

// Eligible filters the catalog down to characters in the selected
// universes whose IDs are not in the exclusion set. An empty universe
// selection admits the whole catalog.
func Eligible(pool []*models.Character, universes []string, excluded map[int]bool) []*models.Character {
	allowed := make(map[string]bool, len(universes))
	for _, u := range universes {
		allowed[u] = true
	}

	eligible := make([]*models.Character, 0, len(pool))
	for _, c := range pool {
		if c == nil {
			continue
		}
		if len(allowed) > 0 && !allowed[c.Universe] {
			continue
		}
		if excluded[c.ID] {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}

// Sample picks one character uniformly from the eligible set. The second
// return value is false when the filtered pool is exhausted.
func (s *Sampler) Sample(pool []*models.Character, universes []string, excluded map[int]bool) (*models.Character, bool) {
	eligible := Eligible(pool, universes, excluded)
	if len(eligible) == 0 {
		return nil, false
	}
	return eligible[s.random.Intn(len(eligible))], true
}
