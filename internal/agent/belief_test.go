package agent

import (
	"testing"

	"github.com/adaptivegym/lyingoracle/internal/domain"
)

func contradictoryObservation(window int) Observation {
	records := make([]domain.QueryRecord, window)
	rewards := make([]float64, window)
	for i := range records {
		records[i] = domain.QueryRecord{Turn: i, Contradiction: true}
		rewards[i] = -0.15
	}
	return Observation{
		Contradictions: window,
		Width:          50,
		Rewards:        rewards,
		Records:        records,
	}
}

func quietObservation(window int) Observation {
	records := make([]domain.QueryRecord, window)
	rewards := make([]float64, window)
	for i := range records {
		records[i] = domain.QueryRecord{Turn: i}
		rewards[i] = -0.01
	}
	return Observation{
		Width:   5,
		Rewards: rewards,
		Records: records,
	}
}

func TestBeliefConfig_Validation(t *testing.T) {
	cfg := HardBeliefConfig()
	cfg.TrustToDistrustThreshold = 1.5
	if _, err := NewBeliefTracker(domain.VariantHard, cfg); err == nil {
		t.Error("expected error for threshold > 1")
	}

	cfg = HardBeliefConfig()
	cfg.TrustToDistrustThreshold = 0.2
	cfg.DistrustToTrustThreshold = 0.6
	if _, err := NewBeliefTracker(domain.VariantHard, cfg); err == nil {
		t.Error("expected error for inverted hysteresis thresholds")
	}

	cfg = EasyBeliefConfig()
	cfg.DetectionWindow = 0
	if _, err := NewBeliefTracker(domain.VariantEasy, cfg); err == nil {
		t.Error("expected error for zero detection window")
	}
}

func TestBeliefTracker_EasyWarmup(t *testing.T) {
	b, err := NewBeliefTracker(domain.VariantEasy, EasyBeliefConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	obs := Observation{Contradictions: 10}
	if _, switched := b.Evaluate(10, obs); switched {
		t.Error("should not switch during warmup turns")
	}
	if _, switched := b.Evaluate(11, obs); !switched {
		t.Error("should switch after warmup with enough contradictions")
	}
	if b.Mode() != domain.ModeDistrust {
		t.Errorf("mode = %s, want DISTRUST", b.Mode())
	}
}

func TestBeliefTracker_EasyLatchIsOneWay(t *testing.T) {
	b, _ := NewBeliefTracker(domain.VariantEasy, EasyBeliefConfig())

	if _, switched := b.Evaluate(20, Observation{Contradictions: 5}); !switched {
		t.Fatal("expected latch")
	}

	// Perfectly quiet evidence afterwards must not revert the latch.
	for turn := 21; turn < 100; turn++ {
		if _, switched := b.Evaluate(turn, quietObservation(20)); switched {
			t.Fatalf("latched tracker switched again at turn %d", turn)
		}
	}
	if b.Mode() != domain.ModeDistrust {
		t.Error("latch reverted")
	}
}

func TestBeliefTracker_EasyRewardDrop(t *testing.T) {
	b, _ := NewBeliefTracker(domain.VariantEasy, EasyBeliefConfig())

	rewards := make([]float64, 20)
	for i := range rewards {
		rewards[i] = -0.2
	}
	obs := Observation{Rewards: rewards, Width: 5}

	if _, switched := b.Evaluate(30, obs); !switched {
		t.Error("expected switch on sustained reward drop")
	}
}

func TestBeliefTracker_EasyConvergenceStall(t *testing.T) {
	b, _ := NewBeliefTracker(domain.VariantEasy, EasyBeliefConfig())

	if _, switched := b.Evaluate(181, Observation{Width: 31}); !switched {
		t.Error("expected switch on late-episode wide range")
	}
}

func TestBeliefTracker_HardRequiresMinObservations(t *testing.T) {
	b, _ := NewBeliefTracker(domain.VariantHard, HardBeliefConfig())

	obs := contradictoryObservation(30)
	obs.Records = obs.Records[:10]

	if _, switched := b.Evaluate(10, contradictoryObservation(30)); switched {
		t.Error("should not switch before min observation turns")
	}
	if _, switched := b.Evaluate(50, obs); switched {
		t.Error("should not switch with too few records")
	}
	if b.Confidence() != 0 {
		t.Errorf("confidence = %f, want 0 before enough evidence", b.Confidence())
	}
}

func TestBeliefTracker_HardConfidenceIsSmoothed(t *testing.T) {
	b, _ := NewBeliefTracker(domain.VariantHard, HardBeliefConfig())

	obs := contradictoryObservation(30)
	// A=1, B=clamp((0.15-0.01)/0.2)=0.7, C=0.8 (turn>100, width>40):
	// raw = 0.4 + 0.21 + 0.24 = 0.85.
	if _, switched := b.Evaluate(160, obs); switched {
		t.Fatal("single observation should not cross the threshold")
	}
	want := 0.3 * 0.85
	if diff := b.Confidence() - want; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("confidence = %f, want %f after one EMA step", b.Confidence(), want)
	}
}

func TestBeliefTracker_HardHysteresis(t *testing.T) {
	b, _ := NewBeliefTracker(domain.VariantHard, HardBeliefConfig())

	// Sustained strong evidence ratchets confidence toward 0.85 and must
	// eventually cross the 0.7 threshold exactly once.
	obs := contradictoryObservation(30)
	switchTurn := -1
	for turn := 160; turn < 200; turn++ {
		tr, switched := b.Evaluate(turn, obs)
		if switched {
			if switchTurn != -1 {
				t.Fatalf("second TRUST->DISTRUST switch at turn %d", turn)
			}
			switchTurn = turn
			if tr.From != domain.ModeTrust || tr.To != domain.ModeDistrust {
				t.Errorf("transition %s->%s, want TRUST->DISTRUST", tr.From, tr.To)
			}
			if tr.Confidence < DefaultTrustToDistrustThreshold {
				t.Errorf("switched below threshold: %f", tr.Confidence)
			}
		}
	}
	if switchTurn == -1 {
		t.Fatal("never switched to DISTRUST under sustained evidence")
	}

	// Quiet evidence decays confidence; no transition inside the dead zone,
	// then exactly one DISTRUST->TRUST switch at or below 0.3.
	quiet := quietObservation(30)
	reverted := false
	for turn := 200; turn < 260; turn++ {
		tr, switched := b.Evaluate(turn, quiet)
		if switched {
			if reverted {
				t.Fatalf("second DISTRUST->TRUST switch at turn %d", turn)
			}
			reverted = true
			if tr.Confidence > DefaultDistrustToTrustThreshold {
				t.Errorf("reverted above threshold: %f", tr.Confidence)
			}
		} else if !reverted && b.Mode() == domain.ModeDistrust &&
			b.Confidence() > DefaultDistrustToTrustThreshold && b.Confidence() < DefaultTrustToDistrustThreshold {
			// Dead zone: mode must hold.
			continue
		}
	}
	if !reverted {
		t.Fatal("never reverted to TRUST after evidence went quiet")
	}
	if b.Mode() != domain.ModeTrust {
		t.Errorf("mode = %s, want TRUST", b.Mode())
	}
}

func TestBeliefTracker_DeadZoneHolds(t *testing.T) {
	b, _ := NewBeliefTracker(domain.VariantHard, HardBeliefConfig())
	b.confidence = 0.5

	if _, switched := b.Evaluate(160, quietObservation(30)); switched {
		t.Error("TRUST tracker switched inside the dead zone")
	}

	b.mode = domain.ModeDistrust
	b.confidence = 0.5
	obs := quietObservation(30)
	// One quiet step: 0.5*0.7 = 0.35, still above 0.3.
	if _, switched := b.Evaluate(160, obs); switched {
		t.Error("DISTRUST tracker switched inside the dead zone")
	}
}
