package multiverse

import (
	"fmt"
	"math"
	"sort"
)

// recommendKeyFactors caps how many metric factors the recommendation lists.
const recommendKeyFactors = 3

// recommend selects the universe maximizing OverallScore. Ties prefer the
// more reversible path, then the lower risk score, then catalog order.
func recommend(universes []Universe) Recommendation {
	best := 0
	for i := 1; i < len(universes); i++ {
		a, b := universes[i], universes[best]
		switch {
		case a.OverallScore > b.OverallScore:
			best = i
		case a.OverallScore == b.OverallScore && a.Reversibility > b.Reversibility:
			best = i
		case a.OverallScore == b.OverallScore && a.Reversibility == b.Reversibility &&
			a.RiskProfile.Score < b.RiskProfile.Score:
			best = i
		}
	}
	winner := universes[best]

	return Recommendation{
		UniverseID: winner.ID,
		Confidence: meanConfidence(winner.Metrics),
		Rationale: fmt.Sprintf(
			"%s scores %.1f overall: risk %s (%.1f), reversibility %.0f/100. %s",
			winner.Name, winner.OverallScore, winner.RiskProfile.Band,
			winner.RiskProfile.Score, winner.Reversibility, winner.Decision),
		KeyFactors: keyFactors(winner),
		Warnings:   warnings(winner),
	}
}

func meanConfidence(metrics []OutcomeMetric) float64 {
	if len(metrics) == 0 {
		return 0
	}
	var sum float64
	for _, m := range metrics {
		sum += m.Confidence
	}
	return round3(sum / float64(len(metrics)))
}

// keyFactors lists the winner's largest metric moves plus its
// reversibility, three to four factors in total.
func keyFactors(u Universe) []string {
	sorted := make([]OutcomeMetric, len(u.Metrics))
	copy(sorted, u.Metrics)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Delta) > math.Abs(sorted[j].Delta)
	})
	if len(sorted) > recommendKeyFactors {
		sorted = sorted[:recommendKeyFactors]
	}

	factors := make([]string, 0, recommendKeyFactors+1)
	for _, m := range sorted {
		factors = append(factors, fmt.Sprintf("%s %+0.1f (%s)", m.Name, m.Delta, m.Trend))
	}
	factors = append(factors, fmt.Sprintf("reversibility %.0f/100", u.Reversibility))
	return factors
}

// warnings flags the winner's unfavorable trends and any elevated risk band.
func warnings(u Universe) []string {
	var out []string
	for _, m := range u.Metrics {
		if m.Trend == TrendDeclining {
			out = append(out, fmt.Sprintf("%s trending unfavorably (%+0.1f)", m.Name, m.Delta))
		}
	}
	if u.RiskProfile.Band == RiskHigh || u.RiskProfile.Band == RiskCritical {
		out = append(out, fmt.Sprintf("overall risk is %s (%.1f)", u.RiskProfile.Band, u.RiskProfile.Score))
	}
	return out
}
