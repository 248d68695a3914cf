package draft

// DraftError is a custom error type for draft rule violations
type DraftError string

// Error implements the error interface
func (e DraftError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNotYourTurn      DraftError = "it is not your turn"
	ErrWrongStatus      DraftError = "action is not legal in the current game status"
	ErrDrawPending      DraftError = "a drawn character is already pending"
	ErrNoDraw           DraftError = "no character has been drawn"
	ErrSlotOutOfRange   DraftError = "slot index out of range"
	ErrSlotTaken        DraftError = "slot is already filled"
	ErrNoSkipsLeft      DraftError = "no skips remaining"
	ErrPoolExhausted    DraftError = "no eligible characters left to draw"
	ErrPoolTooSmall     DraftError = "selected universes do not have enough characters"
	ErrNoActivePlayers  DraftError = "no active players to draft"
	ErrSpectator        DraftError = "spectators cannot act"
	ErrNilState         DraftError = "game state cannot be nil"
	ErrNilConfig        DraftError = "config cannot be nil"
	ErrNilSampler       DraftError = "sampler cannot be nil"
	ErrNotFinished      DraftError = "game is not ready for scoring"
)
