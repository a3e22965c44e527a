package session

// Limits carries the game's tunable pacing and sizing knobs, configured
// from CLI flags at the root package rather than hardcoded.
type Limits struct {
	PickWordTimeLimit uint8
	DrawTimeLimit     uint8
	MaxUsers          int
	MaxRounds         int
}

// DefaultLimits returns the stock values.
func DefaultLimits() Limits {
	return Limits{
		PickWordTimeLimit: 5,
		DrawTimeLimit:     5,
		MaxUsers:          8,
		MaxRounds:         4,
	}
}
