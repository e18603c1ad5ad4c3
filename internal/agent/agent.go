package agent

import (
	"errors"
	"math/rand"

	"github.com/adaptivegym/lyingoracle/internal/domain"
	"go.uber.org/zap"
)

var ErrInvalidVariant = errors.New("invalid variant")

// AdaptiveSearchAgent performs binary search over [1,100] while maintaining a
// belief about whether the oracle's answers can be trusted. Each turn it
// interprets the previous response under its current mode, narrows (or
// recovers) the search bounds, re-evaluates its belief, and picks the next
// threshold to query.
//
// The agent owns all episode-scoped mutable state; nothing here is safe for
// concurrent use, and nothing needs to be — one agent serves one episode.
type AdaptiveSearchAgent struct {
	variant domain.Variant
	search  *SearchState
	belief  *BeliefTracker
	rng     *rand.Rand
	logger  *zap.Logger
	sink    domain.TransitionSink

	history []domain.QueryRecord
	rewards []float64
}

func NewAdaptiveSearchAgent(variant domain.Variant, rng *rand.Rand, logger *zap.Logger) (*AdaptiveSearchAgent, error) {
	var cfg BeliefConfig
	var margin int
	switch variant {
	case domain.VariantEasy:
		cfg = EasyBeliefConfig()
		margin = EasyResetMargin
	case domain.VariantHard:
		cfg = HardBeliefConfig()
		margin = HardResetMargin
	default:
		return nil, ErrInvalidVariant
	}

	belief, err := NewBeliefTracker(variant, cfg)
	if err != nil {
		return nil, err
	}

	return &AdaptiveSearchAgent{
		variant: variant,
		search:  NewSearchState(margin),
		belief:  belief,
		rng:     rng,
		logger:  logger,
	}, nil
}

// SetBeliefConfig replaces the variant defaults. Must be called before the
// first turn.
func (a *AdaptiveSearchAgent) SetBeliefConfig(cfg BeliefConfig) error {
	belief, err := NewBeliefTracker(a.variant, cfg)
	if err != nil {
		return err
	}
	a.belief = belief
	return nil
}

// SetTransitionSink registers a receiver for mode-transition events.
func (a *AdaptiveSearchAgent) SetTransitionSink(sink domain.TransitionSink) {
	a.sink = sink
}

// SelectAction picks the next threshold query and declares the current trust
// mode. lastResponse is nil on turn 0, where the agent opens at the midpoint
// in TRUST with no belief update.
func (a *AdaptiveSearchAgent) SelectAction(turn int, lastResponse *bool) (int, domain.TrustMode) {
	if turn == 0 {
		low, high := a.search.Bounds()
		return clamp((low + high) / 2), a.belief.Mode()
	}

	kLast := a.lastK()

	if lastResponse != nil && len(a.history) > 0 {
		effective := *lastResponse
		if a.belief.Mode() == domain.ModeDistrust {
			effective = !effective
		}
		if a.search.Apply(effective, kLast) {
			low, high := a.search.Bounds()
			a.logger.Debug("search bounds contradiction",
				zap.Int("turn", turn),
				zap.Int("k_last", kLast),
				zap.Int("low", low),
				zap.Int("high", high),
				zap.Int("contradictions", a.search.Contradictions()))
		}
	}

	if t, switched := a.belief.Evaluate(turn, a.observation()); switched {
		a.onTransition(t)
	}

	return a.search.NextQuery(a.variant, kLast, a.rng), a.belief.Mode()
}

// Observe records the outcome of the turn that was just played. The
// contradiction flag captures whether the bounds are currently inverted.
func (a *AdaptiveSearchAgent) Observe(k int, oracleResponse bool, reward float64, modeSwitched bool) {
	a.rewards = append(a.rewards, reward)
	low, high := a.search.Bounds()
	a.history = append(a.history, domain.QueryRecord{
		Turn:           len(a.history),
		K:              k,
		OracleResponse: oracleResponse,
		Reward:         reward,
		Mode:           a.belief.Mode(),
		Confidence:     a.belief.Confidence(),
		Low:            low,
		High:           high,
		ModeSwitched:   modeSwitched,
		Contradiction:  a.search.Inverted(),
	})
}

// Mode returns the agent's current trust mode.
func (a *AdaptiveSearchAgent) Mode() domain.TrustMode { return a.belief.Mode() }

// Confidence returns the smoothed lying confidence.
func (a *AdaptiveSearchAgent) Confidence() float64 { return a.belief.Confidence() }

// History returns the per-turn audit trail.
func (a *AdaptiveSearchAgent) History() []domain.QueryRecord { return a.history }

// Stats summarizes the agent's current state for monitoring.
type Stats struct {
	Mode            domain.TrustMode `json:"mode"`
	Confidence      float64          `json:"confidence"`
	Contradictions  int              `json:"contradictions"`
	Low             int              `json:"low"`
	High            int              `json:"high"`
	AvgReward       float64          `json:"avg_reward"`
	RecentAvgReward float64          `json:"recent_avg_reward"`
	TotalSteps      int              `json:"total_steps"`
}

func (a *AdaptiveSearchAgent) Statistics() Stats {
	low, high := a.search.Bounds()
	window := a.belief.cfg.DetectionWindow
	return Stats{
		Mode:            a.belief.Mode(),
		Confidence:      a.belief.Confidence(),
		Contradictions:  a.search.Contradictions(),
		Low:             low,
		High:            high,
		AvgReward:       mean(a.rewards),
		RecentAvgReward: mean(lastN(a.rewards, window)),
		TotalSteps:      len(a.history),
	}
}

func (a *AdaptiveSearchAgent) observation() Observation {
	return Observation{
		Contradictions: a.search.Contradictions(),
		Width:          a.search.Width(),
		Rewards:        a.rewards,
		Records:        a.history,
	}
}

// onTransition resets the search under the new interpretation and emits the
// structured event. The easy latch keeps its contradiction count; the hard
// variant discards evidence gathered under the stale interpretation.
func (a *AdaptiveSearchAgent) onTransition(t domain.ModeTransition) {
	a.search.Reset()
	if a.variant == domain.VariantHard {
		a.search.ResetContradictions()
	}

	a.logger.Info("trust mode switched",
		zap.Int("turn", t.Turn),
		zap.String("from", string(t.From)),
		zap.String("to", string(t.To)),
		zap.Float64("confidence", t.Confidence))

	if a.sink != nil {
		a.sink.ModeSwitched(t)
	}
}

func (a *AdaptiveSearchAgent) lastK() int {
	if len(a.history) == 0 {
		return (domain.RangeMin + domain.RangeMax) / 2
	}
	return a.history[len(a.history)-1].K
}
