package multiverse

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/cascadelab/ripplegraph/pkg/calibration"
	"github.com/cascadelab/ripplegraph/pkg/logging"
	"github.com/cascadelab/ripplegraph/pkg/modes"
)

// Sentinel errors for simulation input.
var (
	ErrEmptyQuestion = errors.New("simulation question must not be empty")
	ErrUniverseCount = fmt.Errorf("universe count must be between 2 and %d", MaxUniverses)
)

// DefaultHorizonDays is used when the caller does not bound the projection.
const DefaultHorizonDays = 180

// metricOrder fixes iteration order over posture deltas so identical seeds
// produce identical output.
var metricOrder = []string{
	MetricRevenueGrowth,
	MetricCustomerChurn,
	MetricMarketShare,
	MetricTeamVelocity,
	MetricOperatingCost,
}

// goodWhenUp marks metrics where a positive delta is favorable.
var goodWhenUp = map[string]bool{
	MetricRevenueGrowth: true,
	MetricCustomerChurn: false,
	MetricMarketShare:   true,
	MetricTeamVelocity:  true,
	MetricOperatingCost: false,
}

// Input bundles one simulation request. RNG must be a seeded generator
// owned by this call; the simulator never touches global randomness.
type Input struct {
	Question    string
	HorizonDays int
	Count       int // 0 selects the mode's default universe count
	Mode        *modes.Mode
	Industry    *modes.IndustryBenchmark
	RNG         *rand.Rand
}

// Simulator generates competing universes for a decision question. It holds
// no per-run state, so one simulator serves concurrent simulations.
type Simulator struct {
	logger logging.Logger
}

// NewSimulator creates a Simulator.
func NewSimulator(logger logging.Logger) *Simulator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Simulator{logger: logger}
}

// Simulate builds the requested number of universes, each on a distinct
// strategic posture, and selects exactly one as the recommendation target.
func (s *Simulator) Simulate(in Input) (*Simulation, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	count := in.Count
	if count == 0 {
		count = in.Mode.DefaultUniverseCount
	}
	if count < 2 || count > MaxUniverses {
		return nil, fmt.Errorf("%w: got %d", ErrUniverseCount, count)
	}
	horizon := in.HorizonDays
	if horizon <= 0 {
		horizon = DefaultHorizonDays
	}

	sim := &Simulation{
		Question:    question,
		HorizonDays: horizon,
		Universes:   make([]Universe, 0, count),
	}

	for i := 0; i < count; i++ {
		sim.Universes = append(sim.Universes, s.buildUniverse(i, postureCatalog[i], question, horizon, in))
	}

	sim.Analogues = pickAnalogues(in.RNG, 3)
	sim.Recommendation = recommend(sim.Universes)

	s.logger.Debug("simulation complete",
		logging.Count(len(sim.Universes)),
		logging.String("winner", sim.Recommendation.UniverseID))
	return sim, nil
}

func (s *Simulator) buildUniverse(idx int, p posture, question string, horizon int, in Input) Universe {
	cal := calibration.Calibrate(p.baseProbability, in.Mode, in.Industry)

	u := Universe{
		ID:          fmt.Sprintf("u%d-%s", idx+1, p.id),
		Name:        p.name,
		Posture:     p.id,
		Decision:    fmt.Sprintf(p.decision, question),
		Probability: cal.Probability,
	}

	var absDeltaSum float64
	for mi, name := range metricOrder {
		m := s.projectMetric(name, mi, p, cal.Confidence, in)
		absDeltaSum += math.Abs(m.Delta)
		u.Metrics = append(u.Metrics, m)
	}
	avgAbsDelta := absDeltaSum / float64(len(metricOrder))

	u.RiskProfile = riskProfileFor(p, avgAbsDelta, in.Industry)
	u.Reversibility = clamp(p.reversibilityBase-0.4*avgAbsDelta, 0, 100)
	u.Timeline = buildTimeline(p, u, horizon, in.RNG)
	u.OverallScore = overallScore(u)
	return u
}

// projectMetric applies bias, mode weighting and industry scaling to a
// posture's baseline delta, then adds seeded jitter.
func (s *Simulator) projectMetric(name string, idx int, p posture, baseConfidence float64, in Input) OutcomeMetric {
	baseline := baselineFor(name, in.Industry)
	delta := p.deltas[name]
	favorable := (delta > 0) == goodWhenUp[name] && delta != 0

	switch in.Mode.Bias {
	case modes.BiasOptimistic:
		if favorable {
			delta *= 1.15
		} else {
			delta *= 0.85
		}
	case modes.BiasPessimistic:
		if favorable {
			delta *= 0.85
		} else {
			delta *= 1.15
		}
	case modes.BiasContrarian:
		delta *= 1.10
	}

	if favorable {
		delta *= 1 + (in.Mode.OpportunityWeighting-1)*0.5
	} else {
		delta *= 1 + (in.Mode.RiskWeighting-1)*0.5
	}

	delta *= industryScale(name, in.Industry)
	delta += jitter(in.RNG, name, in.Industry)
	delta = round1(delta)

	trend := TrendStable
	if math.Abs(delta) >= 1 {
		if (delta > 0) == goodWhenUp[name] {
			trend = TrendImproving
		} else {
			trend = TrendDeclining
		}
	}

	confidence := clamp(baseConfidence*(1-0.03*float64(idx)), calibration.MinConfidence, calibration.MaxConfidence)

	return OutcomeMetric{
		Name:       name,
		Baseline:   round1(baseline),
		Projected:  round1(baseline + delta),
		Delta:      delta,
		Confidence: round3(confidence),
		Trend:      trend,
	}
}

func baselineFor(name string, industry *modes.IndustryBenchmark) float64 {
	switch name {
	case MetricRevenueGrowth:
		return 8
	case MetricCustomerChurn:
		return industry.BaselineChurnRate * 100
	case MetricMarketShare:
		return 12
	default: // velocity and cost are 100-based indexes
		return 100
	}
}

// industryScale stretches deltas for industries where the metric moves more.
func industryScale(name string, industry *modes.IndustryBenchmark) float64 {
	switch name {
	case MetricRevenueGrowth, MetricMarketShare:
		return 0.75 + industry.GrowthVolatility
	case MetricCustomerChurn:
		return 0.5 + industry.CompetitiveIntensity
	case MetricOperatingCost:
		return 0.75 + industry.RegulatoryRisk/2
	default:
		return 1
	}
}

// jitter adds bounded, seeded noise so universes read as projections rather
// than table lookups. Amplitude follows the industry's volatility.
func jitter(rng *rand.Rand, name string, industry *modes.IndustryBenchmark) float64 {
	amp := 2 * industry.GrowthVolatility
	if name == MetricRevenueGrowth || name == MetricMarketShare {
		amp = 4 * industry.GrowthVolatility
	}
	return (rng.Float64()*2 - 1) * amp
}

func riskProfileFor(p posture, avgAbsDelta float64, industry *modes.IndustryBenchmark) RiskProfile {
	score := clamp(p.riskBase+0.8*avgAbsDelta+industry.RegulatoryRisk*10, 0, 100)
	score = round1(score)
	return RiskProfile{Band: riskBandFor(score), Score: score}
}

func riskBandFor(score float64) RiskBand {
	switch {
	case score >= 80:
		return RiskCritical
	case score >= 60:
		return RiskHigh
	case score >= 35:
		return RiskModerate
	case score >= 15:
		return RiskLow
	default:
		return RiskMinimal
	}
}

// overallScore combines revenue upside, inverse risk exposure and
// reversibility into the ranking used by the final recommendation.
func overallScore(u Universe) float64 {
	var revenueDelta float64
	for _, m := range u.Metrics {
		if m.Name == MetricRevenueGrowth {
			revenueDelta = m.Delta
		}
	}
	return round1(0.4*revenueDelta + 0.35*(100-u.RiskProfile.Score) + 0.25*u.Reversibility)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
