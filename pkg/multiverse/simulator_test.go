package multiverse

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/cascadelab/ripplegraph/pkg/modes"
)

func testInput(t *testing.T, count int, seed int64) Input {
	t.Helper()
	reg, err := modes.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	mode, err := reg.SimulationMode("pragmatist")
	if err != nil {
		t.Fatalf("SimulationMode failed: %v", err)
	}
	industry, err := reg.Industry("technology")
	if err != nil {
		t.Fatalf("Industry failed: %v", err)
	}
	return Input{
		Question:    "Should we enter Market X?",
		HorizonDays: 180,
		Count:       count,
		Mode:        mode,
		Industry:    industry,
		RNG:         rand.New(rand.NewSource(seed)),
	}
}

func TestSimulateUniverseCountAndDistinctness(t *testing.T) {
	s := NewSimulator(nil)
	sim, err := s.Simulate(testInput(t, 3, 42))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if len(sim.Universes) != 3 {
		t.Fatalf("expected exactly 3 universes, got %d", len(sim.Universes))
	}

	decisions := map[string]bool{}
	postures := map[string]bool{}
	ids := map[string]bool{}
	for _, u := range sim.Universes {
		if decisions[u.Decision] {
			t.Errorf("duplicate decision text: %s", u.Decision)
		}
		if postures[u.Posture] {
			t.Errorf("duplicate posture: %s", u.Posture)
		}
		if ids[u.ID] {
			t.Errorf("duplicate universe id: %s", u.ID)
		}
		decisions[u.Decision] = true
		postures[u.Posture] = true
		ids[u.ID] = true
	}
}

func TestSimulateExactlyOneRecommendationTarget(t *testing.T) {
	s := NewSimulator(nil)
	sim, err := s.Simulate(testInput(t, 4, 7))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	matched := 0
	for _, u := range sim.Universes {
		if u.ID == sim.Recommendation.UniverseID {
			matched++
		}
	}
	if matched != 1 {
		t.Errorf("recommendation target matches %d universes, want exactly 1", matched)
	}
	if sim.Recommendation.Rationale == "" {
		t.Error("recommendation missing rationale")
	}
	if n := len(sim.Recommendation.KeyFactors); n < 3 || n > 4 {
		t.Errorf("expected 3-4 key factors, got %d", n)
	}
}

func TestSimulateWinnerMaximizesOverallScore(t *testing.T) {
	s := NewSimulator(nil)
	sim, err := s.Simulate(testInput(t, 5, 99))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	var winner Universe
	for _, u := range sim.Universes {
		if u.ID == sim.Recommendation.UniverseID {
			winner = u
		}
	}
	for _, u := range sim.Universes {
		if u.OverallScore > winner.OverallScore {
			t.Errorf("universe %s outscores the winner: %.1f > %.1f",
				u.ID, u.OverallScore, winner.OverallScore)
		}
	}
}

func TestSimulateDeterministicWithSeed(t *testing.T) {
	s := NewSimulator(nil)

	a, err := s.Simulate(testInput(t, 3, 1234))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	b, err := s.Simulate(testInput(t, 3, 1234))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical seed produced different simulations")
	}

	c, err := s.Simulate(testInput(t, 3, 4321))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if reflect.DeepEqual(a.Universes[0].Metrics, c.Universes[0].Metrics) {
		t.Error("different seeds produced identical metric jitter")
	}
}

func TestSimulateDefaultCountFromMode(t *testing.T) {
	s := NewSimulator(nil)
	in := testInput(t, 0, 5)
	sim, err := s.Simulate(in)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(sim.Universes) != in.Mode.DefaultUniverseCount {
		t.Errorf("expected mode default %d universes, got %d",
			in.Mode.DefaultUniverseCount, len(sim.Universes))
	}
}

func TestSimulateInputValidation(t *testing.T) {
	s := NewSimulator(nil)

	in := testInput(t, 3, 1)
	in.Question = "   "
	if _, err := s.Simulate(in); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("expected ErrEmptyQuestion, got %v", err)
	}

	in = testInput(t, 1, 1)
	if _, err := s.Simulate(in); !errors.Is(err, ErrUniverseCount) {
		t.Errorf("expected ErrUniverseCount for 1, got %v", err)
	}

	in = testInput(t, MaxUniverses+1, 1)
	if _, err := s.Simulate(in); !errors.Is(err, ErrUniverseCount) {
		t.Errorf("expected ErrUniverseCount for %d, got %v", MaxUniverses+1, err)
	}
}

func TestUniverseInvariants(t *testing.T) {
	s := NewSimulator(nil)
	sim, err := s.Simulate(testInput(t, MaxUniverses, 2024))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	for _, u := range sim.Universes {
		if u.Probability < 0.01 || u.Probability > 0.99 {
			t.Errorf("%s probability out of range: %f", u.ID, u.Probability)
		}
		if u.RiskProfile.Score < 0 || u.RiskProfile.Score > 100 {
			t.Errorf("%s risk score out of range: %f", u.ID, u.RiskProfile.Score)
		}
		if u.Reversibility < 0 || u.Reversibility > 100 {
			t.Errorf("%s reversibility out of range: %f", u.ID, u.Reversibility)
		}
		if len(u.Metrics) != len(metricOrder) {
			t.Errorf("%s has %d metrics, want %d", u.ID, len(u.Metrics), len(metricOrder))
		}
		for _, m := range u.Metrics {
			if m.Confidence < 0.3 || m.Confidence > 0.95 {
				t.Errorf("%s %s confidence out of range: %f", u.ID, m.Name, m.Confidence)
			}
			if diff := math.Abs((m.Projected - m.Baseline) - m.Delta); diff > 0.06 {
				t.Errorf("%s %s delta mismatch: projected-baseline=%f delta=%f",
					u.ID, m.Name, m.Projected-m.Baseline, m.Delta)
			}
		}
	}
}

func TestTimelineOffsetsIncreaseAndConfidenceDecays(t *testing.T) {
	s := NewSimulator(nil)
	sim, err := s.Simulate(testInput(t, 3, 11))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	for _, u := range sim.Universes {
		if len(u.Timeline) == 0 {
			t.Fatalf("%s has no timeline", u.ID)
		}
		prevOffset := 0
		prevConf := 1.0
		for _, ev := range u.Timeline {
			if ev.DayOffset <= prevOffset {
				t.Errorf("%s timeline offsets not increasing: %d after %d", u.ID, ev.DayOffset, prevOffset)
			}
			if ev.DayOffset > sim.HorizonDays {
				t.Errorf("%s event beyond horizon: %d > %d", u.ID, ev.DayOffset, sim.HorizonDays)
			}
			if ev.Confidence > prevConf {
				t.Errorf("%s timeline confidence increased: %f after %f", u.ID, ev.Confidence, prevConf)
			}
			if ev.Title == "" || ev.Category == "" {
				t.Errorf("%s event missing text: %+v", u.ID, ev)
			}
			prevOffset = ev.DayOffset
			prevConf = ev.Confidence
		}
	}
}

func TestShortHorizonTimelineStaysOrdered(t *testing.T) {
	s := NewSimulator(nil)
	in := testInput(t, 2, 3)
	in.HorizonDays = 3
	sim, err := s.Simulate(in)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	for _, u := range sim.Universes {
		prev := 0
		for _, ev := range u.Timeline {
			if ev.DayOffset <= prev {
				t.Errorf("offsets collapsed on short horizon: %+v", u.Timeline)
			}
			prev = ev.DayOffset
		}
	}
}

func TestAnaloguesDeterministicAndDistinct(t *testing.T) {
	a := pickAnalogues(rand.New(rand.NewSource(9)), 3)
	b := pickAnalogues(rand.New(rand.NewSource(9)), 3)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed picked different analogues")
	}
	if len(a) != 3 {
		t.Fatalf("expected 3 analogues, got %d", len(a))
	}
	seen := map[string]bool{}
	for _, an := range a {
		if seen[an.Case] {
			t.Errorf("duplicate analogue: %s", an.Case)
		}
		seen[an.Case] = true
	}
}

func TestGuardianModeRaisesRiskSideDeltas(t *testing.T) {
	reg, err := modes.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	guardian, err := reg.SimulationMode("guardian")
	if err != nil {
		t.Fatalf("SimulationMode failed: %v", err)
	}
	visionary, err := reg.SimulationMode("visionary")
	if err != nil {
		t.Fatalf("SimulationMode failed: %v", err)
	}
	industry, err := reg.Industry("generic")
	if err != nil {
		t.Fatalf("Industry failed: %v", err)
	}

	s := NewSimulator(nil)
	base := Input{
		Question: "Should we migrate the billing stack?",
		Count:    2, Mode: guardian, Industry: industry,
		RNG: rand.New(rand.NewSource(1)),
	}
	g, err := s.Simulate(base)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	base.Mode = visionary
	base.RNG = rand.New(rand.NewSource(1))
	v, err := s.Simulate(base)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	// Same seed, same jitter draw order: the pessimistic mode must project
	// a worse or equal churn delta on the aggressive posture.
	gChurn := metricByName(t, g.Universes[0].Metrics, MetricCustomerChurn)
	vChurn := metricByName(t, v.Universes[0].Metrics, MetricCustomerChurn)
	if gChurn.Delta < vChurn.Delta {
		t.Errorf("guardian churn delta %f should be >= visionary %f", gChurn.Delta, vChurn.Delta)
	}
}

func metricByName(t *testing.T, metrics []OutcomeMetric, name string) OutcomeMetric {
	t.Helper()
	for _, m := range metrics {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("metric %s not found", name)
	return OutcomeMetric{}
}
