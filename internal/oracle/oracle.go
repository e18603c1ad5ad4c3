package oracle

import (
	"math/rand"
)

// Oracle answers threshold queries about a hidden number. Implementations are
// pure apart from the probabilistic variant's draw from its own rng; nothing
// here touches global random state.
type Oracle interface {
	// Answer reports whether hidden > k, possibly inverted depending on the
	// oracle's policy at the given turn.
	Answer(hidden, k, turn int) bool
}

// FlipOracle answers truthfully before its switch turn and inverts every
// answer from the switch turn onwards. Deterministic.
type FlipOracle struct {
	switchTurn int
}

func NewFlipOracle(switchTurn int) *FlipOracle {
	return &FlipOracle{switchTurn: switchTurn}
}

func (o *FlipOracle) Answer(hidden, k, turn int) bool {
	truthful := hidden > k
	if turn < o.switchTurn {
		return truthful
	}
	return !truthful
}

// NoisyOracle answers truthfully before its switch turn; from the switch turn
// onwards it lies with probability lyingProbability on each call, drawing from
// the rng handed to it at construction.
type NoisyOracle struct {
	switchTurn       int
	lyingProbability float64
	rng              *rand.Rand
}

func NewNoisyOracle(switchTurn int, lyingProbability float64, rng *rand.Rand) *NoisyOracle {
	return &NoisyOracle{
		switchTurn:       switchTurn,
		lyingProbability: lyingProbability,
		rng:              rng,
	}
}

func (o *NoisyOracle) Answer(hidden, k, turn int) bool {
	truthful := hidden > k
	if turn < o.switchTurn {
		return truthful
	}
	if o.rng.Float64() < o.lyingProbability {
		return !truthful
	}
	return truthful
}
