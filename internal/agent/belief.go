package agent

import (
	"errors"

	"github.com/adaptivegym/lyingoracle/internal/domain"
)

var (
	ErrInvalidThreshold  = errors.New("threshold must be in [0,1]")
	ErrInvalidHysteresis = errors.New("distrust_to_trust threshold must not exceed trust_to_distrust threshold")
	ErrInvalidWindow     = errors.New("detection window must be positive")
)

const (
	DefaultEasyDetectionWindow    = 20
	DefaultContradictionThreshold = 3
	DefaultRewardDropThreshold    = -0.15

	DefaultHardDetectionWindow      = 30
	DefaultTrustToDistrustThreshold = 0.7
	DefaultDistrustToTrustThreshold = 0.3
	DefaultMinObservations          = 20
	DefaultSmoothingAlpha           = 0.3

	// Easy-variant switch conditions are only checked after this many turns.
	easyWarmupTurns = 10

	// Easy-variant convergence failure: still wide after many turns.
	easyStallTurn  = 180
	easyStallWidth = 30

	// Signal weights for the hard variant's combined confidence.
	contradictionWeight = 0.4
	rewardWeight        = 0.3
	convergenceWeight   = 0.3

	// Contradiction rate is a weak raw signal; scale before capping at 1.
	contradictionRateScale = 5.0

	// Reward degradation signal: clamp((-avg - offset) / scale, 0, 1).
	rewardSignalOffset = 0.01
	rewardSignalScale  = 0.2
)

// BeliefConfig tunes lying detection. Zero values are replaced by variant
// defaults in NewBeliefTracker.
type BeliefConfig struct {
	DetectionWindow int

	// Easy variant (one-way latch).
	ContradictionThreshold int
	RewardDropThreshold    float64

	// Hard variant (two-threshold hysteresis).
	TrustToDistrustThreshold float64
	DistrustToTrustThreshold float64
	MinObservations          int
	SmoothingAlpha           float64
}

// EasyBeliefConfig returns the easy variant defaults.
func EasyBeliefConfig() BeliefConfig {
	return BeliefConfig{
		DetectionWindow:        DefaultEasyDetectionWindow,
		ContradictionThreshold: DefaultContradictionThreshold,
		RewardDropThreshold:    DefaultRewardDropThreshold,
	}
}

// HardBeliefConfig returns the hard variant defaults.
func HardBeliefConfig() BeliefConfig {
	return BeliefConfig{
		DetectionWindow:          DefaultHardDetectionWindow,
		TrustToDistrustThreshold: DefaultTrustToDistrustThreshold,
		DistrustToTrustThreshold: DefaultDistrustToTrustThreshold,
		MinObservations:          DefaultMinObservations,
		SmoothingAlpha:           DefaultSmoothingAlpha,
	}
}

func (c BeliefConfig) validate(variant domain.Variant) error {
	if c.DetectionWindow <= 0 {
		return ErrInvalidWindow
	}
	if variant == domain.VariantHard {
		if c.TrustToDistrustThreshold < 0 || c.TrustToDistrustThreshold > 1 {
			return ErrInvalidThreshold
		}
		if c.DistrustToTrustThreshold < 0 || c.DistrustToTrustThreshold > 1 {
			return ErrInvalidThreshold
		}
		if c.DistrustToTrustThreshold > c.TrustToDistrustThreshold {
			return ErrInvalidHysteresis
		}
		if c.SmoothingAlpha < 0 || c.SmoothingAlpha > 1 {
			return ErrInvalidThreshold
		}
	}
	return nil
}

// Observation is the per-turn evidence snapshot handed to the tracker.
type Observation struct {
	Contradictions int
	Width          int
	Rewards        []float64
	Records        []domain.QueryRecord
}

// BeliefTracker maintains the agent's trust mode and its smoothed confidence
// that the oracle is currently lying.
//
// The easy variant is a one-way latch: once any switch condition fires the
// tracker moves to DISTRUST and never returns. The hard variant combines
// three signals into a confidence score, smooths it with an exponential
// moving average, and debounces mode changes with two-threshold hysteresis
// so that the confidence dead zone produces no transitions.
type BeliefTracker struct {
	variant    domain.Variant
	cfg        BeliefConfig
	mode       domain.TrustMode
	confidence float64
}

func NewBeliefTracker(variant domain.Variant, cfg BeliefConfig) (*BeliefTracker, error) {
	if err := cfg.validate(variant); err != nil {
		return nil, err
	}
	return &BeliefTracker{
		variant: variant,
		cfg:     cfg,
		mode:    domain.ModeTrust,
	}, nil
}

func (b *BeliefTracker) Mode() domain.TrustMode { return b.mode }

func (b *BeliefTracker) Confidence() float64 { return b.confidence }

// Evaluate recomputes confidence from the observation and applies the
// variant's transition rule. It returns the transition and true when the
// mode changed this turn.
func (b *BeliefTracker) Evaluate(turn int, obs Observation) (domain.ModeTransition, bool) {
	if b.variant == domain.VariantHard {
		return b.evaluateHard(turn, obs)
	}
	return b.evaluateEasy(turn, obs)
}

func (b *BeliefTracker) evaluateEasy(turn int, obs Observation) (domain.ModeTransition, bool) {
	if b.mode == domain.ModeDistrust || turn <= easyWarmupTurns {
		return domain.ModeTransition{}, false
	}

	switched := false
	switch {
	case obs.Contradictions >= b.cfg.ContradictionThreshold:
		switched = true
	case len(obs.Rewards) >= b.cfg.DetectionWindow &&
		mean(lastN(obs.Rewards, b.cfg.DetectionWindow)) < b.cfg.RewardDropThreshold:
		switched = true
	case turn > easyStallTurn && obs.Width > easyStallWidth:
		switched = true
	}
	if !switched {
		return domain.ModeTransition{}, false
	}

	b.mode = domain.ModeDistrust
	b.confidence = 1.0
	return domain.ModeTransition{
		Turn:       turn,
		From:       domain.ModeTrust,
		To:         domain.ModeDistrust,
		Confidence: b.confidence,
	}, true
}

func (b *BeliefTracker) evaluateHard(turn int, obs Observation) (domain.ModeTransition, bool) {
	if turn < b.cfg.MinObservations || len(obs.Records) < b.cfg.MinObservations {
		return domain.ModeTransition{}, false
	}

	raw := contradictionWeight*b.contradictionSignal(obs) +
		rewardWeight*b.rewardSignal(obs) +
		convergenceWeight*convergenceSignal(turn, obs.Width)

	b.confidence = b.cfg.SmoothingAlpha*raw + (1-b.cfg.SmoothingAlpha)*b.confidence

	from := b.mode
	switch {
	case b.mode == domain.ModeTrust && b.confidence >= b.cfg.TrustToDistrustThreshold:
		b.mode = domain.ModeDistrust
	case b.mode == domain.ModeDistrust && b.confidence <= b.cfg.DistrustToTrustThreshold:
		b.mode = domain.ModeTrust
	default:
		return domain.ModeTransition{}, false
	}

	return domain.ModeTransition{
		Turn:       turn,
		From:       from,
		To:         b.mode,
		Confidence: b.confidence,
	}, true
}

// contradictionSignal is the fraction of recent records flagged as
// contradictory, scaled up and capped at 1.
func (b *BeliefTracker) contradictionSignal(obs Observation) float64 {
	recent := lastNRecords(obs.Records, b.cfg.DetectionWindow)
	if len(recent) == 0 {
		return 0
	}
	flagged := 0
	for _, r := range recent {
		if r.Contradiction {
			flagged++
		}
	}
	rate := float64(flagged) / float64(len(recent))
	sig := rate * contradictionRateScale
	if sig > 1 {
		sig = 1
	}
	return sig
}

// rewardSignal measures reward degradation over the detection window; it is
// zero with insufficient history.
func (b *BeliefTracker) rewardSignal(obs Observation) float64 {
	if len(obs.Rewards) < b.cfg.DetectionWindow {
		return 0
	}
	avg := mean(lastN(obs.Rewards, b.cfg.DetectionWindow))
	sig := (-avg - rewardSignalOffset) / rewardSignalScale
	if sig < 0 {
		return 0
	}
	if sig > 1 {
		return 1
	}
	return sig
}

// convergenceSignal fires when the search range is still wide late in the
// episode, which under a correct interpretation should not happen.
func convergenceSignal(turn, width int) float64 {
	if turn > 100 && width > 40 {
		return 0.8
	}
	if turn > 150 && width > 25 {
		return 0.9
	}
	return 0
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func lastN(xs []float64, n int) []float64 {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

func lastNRecords(rs []domain.QueryRecord, n int) []domain.QueryRecord {
	if len(rs) <= n {
		return rs
	}
	return rs[len(rs)-n:]
}
