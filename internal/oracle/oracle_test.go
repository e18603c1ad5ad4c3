package oracle

import (
	"math/rand"
	"testing"
)

func TestFlipOracle_TruthfulBeforeSwitch(t *testing.T) {
	o := NewFlipOracle(100)

	// Deterministic truthful-phase check: hidden 67, queries k=50..59.
	for i := 0; i < 10; i++ {
		k := 50 + i
		got := o.Answer(67, k, i)
		want := 67 > k
		if got != want {
			t.Errorf("Answer(67, %d, %d) = %v, want %v", k, i, got, want)
		}
	}
}

func TestFlipOracle_InvertedAfterSwitch(t *testing.T) {
	o := NewFlipOracle(200)

	cases := []struct {
		hidden, k, turn int
	}{
		{67, 50, 200},
		{67, 80, 250},
		{1, 50, 300},
		{100, 99, 499},
	}
	for _, tc := range cases {
		got := o.Answer(tc.hidden, tc.k, tc.turn)
		truthful := tc.hidden > tc.k
		if got != !truthful {
			t.Errorf("Answer(%d, %d, %d) = %v, want inverted %v", tc.hidden, tc.k, tc.turn, got, !truthful)
		}
	}
}

func TestFlipOracle_SwitchBoundary(t *testing.T) {
	o := NewFlipOracle(200)

	if o.Answer(67, 50, 199) != true {
		t.Error("turn 199 should still be truthful")
	}
	if o.Answer(67, 50, 200) != false {
		t.Error("turn 200 should be inverted")
	}
}

func TestNoisyOracle_TruthfulBeforeSwitch(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	o := NewNoisyOracle(100, 0.8, rng)

	for i := 0; i < 10; i++ {
		k := 50 + i
		got := o.Answer(67, k, i)
		want := 67 > k
		if got != want {
			t.Errorf("Answer(67, %d, %d) = %v, want %v (no lies before switch)", k, i, got, want)
		}
	}
}

func TestNoisyOracle_LyingRate(t *testing.T) {
	// switch turn 0: every call is in the lying phase. Over 100 queries the
	// observed lying rate should sit near 0.8; the band is wide because this
	// is a statistical property, not an exact one.
	rng := rand.New(rand.NewSource(42))
	o := NewNoisyOracle(0, 0.8, rng)

	lies := 0
	for i := 0; i < 100; i++ {
		k := 30 + (i % 40)
		got := o.Answer(67, k, i)
		truthful := 67 > k
		if got != truthful {
			lies++
		}
	}

	rate := float64(lies) / 100.0
	if rate < 0.65 || rate > 0.95 {
		t.Errorf("lying rate = %.2f, want in [0.65, 0.95]", rate)
	}
}

func TestNoisyOracle_DeterministicPerSeed(t *testing.T) {
	run := func(seed int64) []bool {
		rng := rand.New(rand.NewSource(seed))
		o := NewNoisyOracle(0, 0.8, rng)
		out := make([]bool, 50)
		for i := range out {
			out[i] = o.Answer(42, 50, i)
		}
		return out
	}

	a := run(7)
	b := run(7)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("answers diverge at %d with identical seeds", i)
		}
	}
}
