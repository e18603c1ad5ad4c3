package agent

import (
	"math/rand"

	"github.com/adaptivegym/lyingoracle/internal/domain"
)

const (
	// EasyResetMargin and HardResetMargin size the recovery window placed
	// around the last query when accumulated bounds become unsatisfiable.
	EasyResetMargin = 20
	HardResetMargin = 15

	// FallbackNoise bounds the uniform perturbation used by the hard
	// variant when the bounds are still inverted after a reset.
	FallbackNoise = 10
)

// SearchState tracks the candidate interval [low, high] for the hidden number
// under the agent's current interpretation of oracle answers. An update that
// would empty the interval is not an error: it is counted as a contradiction
// and the bounds are re-seeded around the last query with a margin.
type SearchState struct {
	low            int
	high           int
	margin         int
	contradictions int
}

func NewSearchState(margin int) *SearchState {
	return &SearchState{
		low:    domain.RangeMin,
		high:   domain.RangeMax,
		margin: margin,
	}
}

// Apply narrows the bounds given the effective (post-inversion) response to
// the previous query kLast. It reports whether the update contradicted the
// accumulated constraints.
func (s *SearchState) Apply(effective bool, kLast int) bool {
	if effective {
		// hidden > kLast
		newLow := s.low
		if kLast+1 > newLow {
			newLow = kLast + 1
		}
		if newLow > s.high {
			s.recover(kLast)
			return true
		}
		s.low = newLow
		return false
	}

	// hidden <= kLast
	newHigh := s.high
	if kLast < newHigh {
		newHigh = kLast
	}
	if newHigh < s.low {
		s.recover(kLast)
		return true
	}
	s.high = newHigh
	return false
}

// recover counts the contradiction and re-seeds the bounds around kLast.
func (s *SearchState) recover(kLast int) {
	s.contradictions++
	s.low = clamp(kLast - s.margin)
	s.high = clamp(kLast + s.margin)
}

// NextQuery returns the next threshold to ask about. Midpoint of the current
// bounds when they are consistent; otherwise a variant-specific fallback:
// the easy variant probes the midpoint between low and the top of the range,
// the hard variant perturbs the last query with uniform noise from rng.
func (s *SearchState) NextQuery(variant domain.Variant, kLast int, rng *rand.Rand) int {
	if s.low <= s.high {
		return clamp((s.low + s.high) / 2)
	}
	if variant == domain.VariantHard {
		return clamp(kLast + rng.Intn(2*FallbackNoise+1) - FallbackNoise)
	}
	return clamp((s.low + domain.RangeMax) / 2)
}

// Reset restores the full candidate range.
func (s *SearchState) Reset() {
	s.low = domain.RangeMin
	s.high = domain.RangeMax
}

// ResetContradictions zeroes the contradiction counter, discarding evidence
// gathered under a stale interpretation.
func (s *SearchState) ResetContradictions() {
	s.contradictions = 0
}

func (s *SearchState) Bounds() (low, high int) { return s.low, s.high }

func (s *SearchState) Width() int { return s.high - s.low }

// Inverted reports whether the bounds are currently unsatisfiable.
func (s *SearchState) Inverted() bool { return s.low > s.high }

func (s *SearchState) Contradictions() int { return s.contradictions }

func clamp(k int) int {
	if k < domain.RangeMin {
		return domain.RangeMin
	}
	if k > domain.RangeMax {
		return domain.RangeMax
	}
	return k
}
