// Package calibration adjusts raw outcome probabilities using analysis mode
// weightings and industry benchmark data. Calibrate is a pure function: no
// state, no I/O, so the multiverse simulator and its tests share identical
// behavior.
package calibration

import "github.com/cascadelab/ripplegraph/pkg/modes"

// Clamp bounds for calibrated values.
const (
	MinProbability = 0.01
	MaxProbability = 0.99
	MinConfidence  = 0.30
	MaxConfidence  = 0.95

	// spreadFactor converts confidence shortfall into a probability range
	// half-width.
	spreadFactor = 0.3
)

// Range is a probability interval around the calibrated point estimate.
// Bounds are deliberately not clamped to [0,1]: a High above 1 signals an
// estimate pressed against the ceiling, which the UI renders as ">99%".
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Result is a calibrated probability with its confidence and range.
type Result struct {
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
	Range       Range   `json:"range"`
}

// Calibrate adjusts a baseline probability for the given mode and industry.
// Probabilities above the coin-flip line are treated as opportunities and
// scaled by the mode's opportunity weighting; everything else is scaled as
// risk. Confidence derives from how reliable the industry's data and
// forecasts are, shifted by the mode's adjustment.
func Calibrate(baseProbability float64, mode *modes.Mode, industry *modes.IndustryBenchmark) Result {
	weighting := mode.RiskWeighting
	if baseProbability > 0.5 {
		weighting = mode.OpportunityWeighting
	}

	probability := clamp(
		baseProbability*weighting*mode.IndustryModifiers.RiskMultiplier,
		MinProbability, MaxProbability,
	)

	confidence := clamp(
		industry.DataReliability*industry.ForecastAccuracy*mode.IndustryModifiers.ConfidenceMultiplier+mode.ConfidenceAdjustment,
		MinConfidence, MaxConfidence,
	)

	spread := (1 - confidence) * spreadFactor
	return Result{
		Probability: probability,
		Confidence:  confidence,
		Range: Range{
			Low:  probability - spread,
			High: probability + spread,
		},
	}
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
