package roomcode

import "math/rand"

// alphabet omits characters that read ambiguously when typed from a
// shared screen (no 0/O, 1/I)
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length is the number of characters in a room code
const Length = 6

//go:generate mockgen -package=mocks -destination=mocks/mock_generator.go github.com/draftverse/draftroom/internal/common/roomcode Generator

// Generator produces short join codes for rooms
type Generator interface {
	NewCode() string
}

// Config for the code generator
type Config struct {
	// Optional seed for testing
	Seed int64
}

// defaultGenerator implements Generator using math/rand
type defaultGenerator struct {
	random *rand.Rand
}

// New creates a new room code generator
func New(cfg *Config) *defaultGenerator {
	var src rand.Source
	if cfg != nil && cfg.Seed != 0 {
		src = rand.NewSource(cfg.Seed)
	} else {
		src = rand.NewSource(rand.Int63())
	}

	return &defaultGenerator{
		random: rand.New(src),
	}
}

// NewCode returns a random code of Length characters from the alphabet.
// Uniqueness is the caller's concern; the generator only guarantees the
// restricted character set.
func (g *defaultGenerator) NewCode() string {
	buf := make([]byte, Length)
	for i := range buf {
		buf[i] = alphabet[g.random.Intn(len(alphabet))]
	}
	return string(buf)
}

// Valid reports whether a string is a well-formed room code
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		found := false
		for j := 0; j < len(alphabet); j++ {
			if code[i] == alphabet[j] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
