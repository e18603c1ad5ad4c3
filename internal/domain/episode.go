package domain

// Variant selects which oracle the episode runs against.
type Variant string

const (
	// VariantEasy flips every answer after a fixed switch turn.
	VariantEasy Variant = "easy"
	// VariantHard lies probabilistically after a per-episode random switch turn.
	VariantHard Variant = "hard"
)

func ValidVariant(v string) bool {
	switch Variant(v) {
	case VariantEasy, VariantHard:
		return true
	}
	return false
}

// EpisodeStatus is the terminal state of an episode.
type EpisodeStatus string

const (
	StatusRunning  EpisodeStatus = "running"
	StatusFound    EpisodeStatus = "found"
	StatusTimedOut EpisodeStatus = "timed_out"
)

func ValidEpisodeStatus(s string) bool {
	switch EpisodeStatus(s) {
	case StatusRunning, StatusFound, StatusTimedOut:
		return true
	}
	return false
}

const (
	// RangeMin and RangeMax bound the hidden number and every query.
	RangeMin = 1
	RangeMax = 100

	// SwitchTurnMin and SwitchTurnMax bound the hard variant's random switch turn.
	SwitchTurnMin = 50
	SwitchTurnMax = 300

	DefaultMaxTurns         = 500
	DefaultSwitchTurn       = 200
	DefaultLyingProbability = 0.8
)

// Episode holds the immutable parameters of one guessing game.
// It is created once, validated, and never mutated afterwards; all
// turn-by-turn state lives in the agent and the runner.
type Episode struct {
	Variant          Variant `json:"variant"`
	HiddenNumber     int     `json:"hidden_number"`
	SwitchTurn       int     `json:"switch_turn"`
	MaxTurns         int     `json:"max_turns"`
	LyingProbability float64 `json:"lying_probability"`
}
