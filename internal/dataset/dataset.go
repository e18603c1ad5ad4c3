// Package dataset generates seeded episode examples for the guessing game.
package dataset

import (
	"errors"
	"math/rand"
	"strconv"

	"github.com/adaptivegym/lyingoracle/internal/domain"
)

var (
	ErrInvalidCount   = errors.New("num_examples must be positive")
	ErrInvalidVariant = errors.New("invalid variant")
)

// Question is the prompt attached to every example.
const Question = "Find the hidden number (1-100). You can ask if the number is > k."

// Generate produces n examples for the given variant from a dedicated rng
// seeded with seed. Hidden numbers are uniform over [1,100]; the hard variant
// additionally draws a per-episode switch turn uniform over [50,300], while
// the easy variant uses the fixed switchTurn. Output is deterministic per
// (n, variant, seed).
func Generate(n int, variant domain.Variant, switchTurn int, seed int64) ([]domain.Example, error) {
	if n <= 0 {
		return nil, ErrInvalidCount
	}
	if !domain.ValidVariant(string(variant)) {
		return nil, ErrInvalidVariant
	}

	rng := rand.New(rand.NewSource(seed))
	task := domain.TaskForVariant(variant)

	examples := make([]domain.Example, 0, n)
	for i := 0; i < n; i++ {
		hidden := domain.RangeMin + rng.Intn(domain.RangeMax-domain.RangeMin+1)

		st := switchTurn
		if variant == domain.VariantHard {
			st = domain.SwitchTurnMin + rng.Intn(domain.SwitchTurnMax-domain.SwitchTurnMin+1)
		}

		examples = append(examples, domain.Example{
			Question: Question,
			Answer:   strconv.Itoa(hidden),
			Task:     task,
			Info: domain.ExampleInfo{
				HiddenNumber: hidden,
				SwitchTurn:   st,
				EpisodeID:    i,
			},
		})
	}

	return examples, nil
}

// Episode builds the episode parameters for one example. The example's drawn
// switch turn is clamped into the turn budget: it was generated by this
// package, not supplied by a caller, so it must never fail episode setup.
func Episode(variant domain.Variant, ex domain.Example, maxTurns int, lyingProbability float64) domain.Episode {
	switchTurn := ex.Info.SwitchTurn
	if maxTurns > 0 && switchTurn > maxTurns {
		switchTurn = maxTurns
	}
	return domain.Episode{
		Variant:          variant,
		HiddenNumber:     ex.Info.HiddenNumber,
		SwitchTurn:       switchTurn,
		MaxTurns:         maxTurns,
		LyingProbability: lyingProbability,
	}
}
