package service

import (
	"errors"
	"math/rand"

	"github.com/adaptivegym/lyingoracle/internal/domain"
	"github.com/adaptivegym/lyingoracle/internal/oracle"
)

var (
	ErrInvalidVariant        = errors.New("invalid variant")
	ErrHiddenOutOfRange      = errors.New("hidden_number must be in [1,100]")
	ErrMaxTurnsInvalid       = errors.New("max_turns must be positive")
	ErrSwitchTurnOutOfRange  = errors.New("switch_turn must be in [1,max_turns]")
	ErrLyingProbabilityRange = errors.New("lying_probability must be in [0,1]")
)

const (
	// QueryCost is charged on every non-winning turn.
	QueryCost = -0.01
	// FoundReward replaces the query cost on the winning turn.
	FoundReward = 1.0
	// ModeSwitchPenalty is charged in the hard variant whenever the declared
	// mode differs from the previous turn's mode.
	ModeSwitchPenalty = 0.1
)

// Env is the environment side of one episode: it owns the oracle, the turn
// counter, and the reward ledger. All state is episode-scoped and mutated
// only by Step; an Env must not be shared across goroutines.
type Env struct {
	episode  domain.Episode
	oracle   oracle.Oracle
	turn     int
	lastMode domain.TrustMode
	found    bool
}

// StepResult is the environment's feedback for one turn.
type StepResult struct {
	Turn           int     `json:"turn"`
	K              int     `json:"k"`
	OracleResponse bool    `json:"oracle_response"`
	Found          bool    `json:"found"`
	Reward         float64 `json:"reward"`
	ModeSwitched   bool    `json:"mode_switched"`
}

// NewEnv validates the episode parameters, fills unset ones with defaults
// (the hard variant draws its switch turn from rng once, at creation), and
// builds the variant's oracle. Misconfiguration is the only error path; a
// running episode cannot fail.
func NewEnv(episode domain.Episode, rng *rand.Rand) (*Env, error) {
	if !domain.ValidVariant(string(episode.Variant)) {
		return nil, ErrInvalidVariant
	}

	if episode.MaxTurns == 0 {
		episode.MaxTurns = domain.DefaultMaxTurns
	}
	// Defaulted switch turns are drawn inside the turn budget; only
	// user-supplied values can fail the range check below.
	if episode.SwitchTurn == 0 && episode.MaxTurns > 0 {
		if episode.Variant == domain.VariantHard {
			hi := domain.SwitchTurnMax
			if episode.MaxTurns < hi {
				hi = episode.MaxTurns
			}
			lo := domain.SwitchTurnMin
			if lo > hi {
				lo = hi
			}
			episode.SwitchTurn = lo + rng.Intn(hi-lo+1)
		} else {
			episode.SwitchTurn = domain.DefaultSwitchTurn
			if episode.SwitchTurn > episode.MaxTurns {
				episode.SwitchTurn = episode.MaxTurns
			}
		}
	}
	if episode.Variant == domain.VariantHard && episode.LyingProbability == 0 {
		episode.LyingProbability = domain.DefaultLyingProbability
	}

	if episode.HiddenNumber < domain.RangeMin || episode.HiddenNumber > domain.RangeMax {
		return nil, ErrHiddenOutOfRange
	}
	if episode.MaxTurns < 0 {
		return nil, ErrMaxTurnsInvalid
	}
	if episode.SwitchTurn < 1 || episode.SwitchTurn > episode.MaxTurns {
		return nil, ErrSwitchTurnOutOfRange
	}
	if episode.LyingProbability < 0 || episode.LyingProbability > 1 {
		return nil, ErrLyingProbabilityRange
	}

	var o oracle.Oracle
	if episode.Variant == domain.VariantHard {
		o = oracle.NewNoisyOracle(episode.SwitchTurn, episode.LyingProbability, rng)
	} else {
		o = oracle.NewFlipOracle(episode.SwitchTurn)
	}

	return &Env{
		episode:  episode,
		oracle:   o,
		lastMode: domain.ModeTrust,
	}, nil
}

// Episode returns the normalized episode parameters.
func (e *Env) Episode() domain.Episode { return e.episode }

// Turn returns the number of steps taken so far.
func (e *Env) Turn() int { return e.turn }

// Done reports whether the episode has terminated.
func (e *Env) Done() bool {
	return e.found || e.turn >= e.episode.MaxTurns
}

// Status returns the episode's current terminal state, or StatusRunning.
func (e *Env) Status() domain.EpisodeStatus {
	switch {
	case e.found:
		return domain.StatusFound
	case e.turn >= e.episode.MaxTurns:
		return domain.StatusTimedOut
	default:
		return domain.StatusRunning
	}
}

// Step answers the query, computes the turn's reward, and advances the turn
// counter. A correct guess terminates the episode regardless of mode; in the
// hard variant a declared mode differing from the previous turn's mode is
// penalized, including a DISTRUST declaration on turn 0 (the previous mode
// is initialized to TRUST before the first turn).
func (e *Env) Step(action domain.Action) StepResult {
	response := e.oracle.Answer(e.episode.HiddenNumber, action.K, e.turn)
	found := action.K == e.episode.HiddenNumber

	reward := QueryCost
	if found {
		reward = FoundReward
	}

	modeSwitched := false
	if e.episode.Variant == domain.VariantHard {
		modeSwitched = action.Mode != e.lastMode
		if modeSwitched {
			reward -= ModeSwitchPenalty
		}
	}

	result := StepResult{
		Turn:           e.turn,
		K:              action.K,
		OracleResponse: response,
		Found:          found,
		Reward:         reward,
		ModeSwitched:   modeSwitched,
	}

	e.turn++
	e.lastMode = action.Mode
	if found {
		e.found = true
	}

	return result
}
