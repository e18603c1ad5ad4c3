package agent

import (
	"math/rand"
	"testing"

	"github.com/adaptivegym/lyingoracle/internal/domain"
	"go.uber.org/zap"
)

func newTestAgent(t *testing.T, variant domain.Variant, seed int64) *AdaptiveSearchAgent {
	t.Helper()
	a, err := NewAdaptiveSearchAgent(variant, rand.New(rand.NewSource(seed)), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func TestAgent_FirstTurnOpensAtMidpoint(t *testing.T) {
	a := newTestAgent(t, domain.VariantEasy, 1)

	k, mode := a.SelectAction(0, nil)
	if k != 50 {
		t.Errorf("k = %d, want 50", k)
	}
	if mode != domain.ModeTrust {
		t.Errorf("mode = %s, want TRUST", mode)
	}
}

func TestAgent_InvalidVariant(t *testing.T) {
	_, err := NewAdaptiveSearchAgent(domain.Variant("medium"), rand.New(rand.NewSource(1)), zap.NewNop())
	if err == nil {
		t.Fatal("expected error for unknown variant")
	}
}

// A truthful oracle must be beaten by plain binary search within
// ceil(log2(100)) = 7 queries for every possible hidden number.
func TestAgent_TruthfulOracleBinarySearch(t *testing.T) {
	for hidden := 1; hidden <= 100; hidden++ {
		a := newTestAgent(t, domain.VariantEasy, int64(hidden))

		var lastResponse *bool
		found := false
		for turn := 0; turn < 7; turn++ {
			k, _ := a.SelectAction(turn, lastResponse)
			if k == hidden {
				found = true
				break
			}
			resp := hidden > k
			a.Observe(k, resp, -0.01, false)
			lastResponse = &resp
		}

		if !found {
			t.Errorf("hidden=%d not found within 7 queries", hidden)
		}
	}
}

// Against an oracle that lies from turn 0, the easy agent must accumulate
// contradictions, latch into DISTRUST, and then find the number by inverting
// every answer. Hidden numbers below the opening midpoint get driven to the
// top of the range, where every further lie collapses the bounds.
func TestAgent_EasyAdaptsToInvertedOracle(t *testing.T) {
	for _, hidden := range []int{8, 17, 42} {
		a := newTestAgent(t, domain.VariantEasy, int64(hidden))

		var lastResponse *bool
		found := false
		for turn := 0; turn < 100; turn++ {
			k, _ := a.SelectAction(turn, lastResponse)
			if k == hidden {
				found = true
				break
			}
			resp := !(hidden > k) // always lying
			a.Observe(k, resp, -0.01, false)
			lastResponse = &resp
		}

		if a.Mode() != domain.ModeDistrust {
			t.Errorf("hidden=%d: mode = %s, want DISTRUST after sustained lying", hidden, a.Mode())
		}
		if !found {
			t.Errorf("hidden=%d not found within 100 turns against inverted oracle", hidden)
		}
	}
}

func TestAgent_TransitionSinkReceivesEvent(t *testing.T) {
	a := newTestAgent(t, domain.VariantEasy, 3)

	var events []domain.ModeTransition
	a.SetTransitionSink(domain.TransitionSinkFunc(func(tr domain.ModeTransition) {
		events = append(events, tr)
	}))

	var lastResponse *bool
	for turn := 0; turn < 100 && a.Mode() == domain.ModeTrust; turn++ {
		k, _ := a.SelectAction(turn, lastResponse)
		resp := !(42 > k)
		a.Observe(k, resp, -0.01, false)
		lastResponse = &resp
	}

	if len(events) != 1 {
		t.Fatalf("got %d transition events, want 1", len(events))
	}
	if events[0].From != domain.ModeTrust || events[0].To != domain.ModeDistrust {
		t.Errorf("event %s->%s, want TRUST->DISTRUST", events[0].From, events[0].To)
	}
}

func TestAgent_ObserveBuildsAuditTrail(t *testing.T) {
	a := newTestAgent(t, domain.VariantHard, 4)

	k, mode := a.SelectAction(0, nil)
	a.Observe(k, true, -0.01, false)

	history := a.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	rec := history[0]
	if rec.Turn != 0 || rec.K != k || rec.Mode != mode {
		t.Errorf("record = %+v, want turn 0, k %d, mode %s", rec, k, mode)
	}
	if rec.Reward != -0.01 {
		t.Errorf("reward = %f, want -0.01", rec.Reward)
	}
	if rec.Low != 1 || rec.High != 100 {
		t.Errorf("range = [%d,%d], want [1,100] before any update", rec.Low, rec.High)
	}
}

func TestAgent_QueriesStayInRange(t *testing.T) {
	// A hostile random oracle must never push queries out of [1,100].
	rng := rand.New(rand.NewSource(9))
	a := newTestAgent(t, domain.VariantHard, 9)

	var lastResponse *bool
	for turn := 0; turn < 300; turn++ {
		k, _ := a.SelectAction(turn, lastResponse)
		if k < domain.RangeMin || k > domain.RangeMax {
			t.Fatalf("turn %d: k = %d out of range", turn, k)
		}
		resp := rng.Intn(2) == 0
		a.Observe(k, resp, -0.01, false)
		lastResponse = &resp
	}
}

func TestAgent_Statistics(t *testing.T) {
	a := newTestAgent(t, domain.VariantEasy, 5)

	k, _ := a.SelectAction(0, nil)
	a.Observe(k, true, -0.01, false)
	resp := true
	k, _ = a.SelectAction(1, &resp)
	a.Observe(k, true, -0.01, false)

	stats := a.Statistics()
	if stats.TotalSteps != 2 {
		t.Errorf("total steps = %d, want 2", stats.TotalSteps)
	}
	if diff := stats.AvgReward + 0.01; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("avg reward = %f, want -0.01", stats.AvgReward)
	}
	if stats.Mode != domain.ModeTrust {
		t.Errorf("mode = %s, want TRUST", stats.Mode)
	}
}
