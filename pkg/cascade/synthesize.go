package cascade

import (
	"fmt"
	"sort"
	"strings"
)

// Recommendation is the engine's verdict on a proposed change.
type Recommendation string

const (
	RecommendProceed    Recommendation = "proceed"
	RecommendCaution    Recommendation = "proceed_with_caution"
	RecommendReconsider Recommendation = "reconsider"
	RecommendReject     Recommendation = "reject"
)

// Aggregate risk thresholds. Scores land in [threshold, next).
const (
	cautionThreshold    = 30
	reconsiderThreshold = 60
	rejectThreshold     = 85

	// butterflyMinOrder is the causal distance from which an effect counts
	// as a butterfly candidate.
	butterflyMinOrder = 3

	// rationaleTop is how many consequences the rationale summarizes.
	rationaleTop = 3
)

// Synthesis is the aggregated judgment over a trace's consequences.
type Synthesis struct {
	// AggregateRisk sums riskScore/order over all consequences, so
	// near-order effects dominate. Unbounded above.
	AggregateRisk  float64        `json:"aggregate_risk"`
	Recommendation Recommendation `json:"recommendation"`
	Rationale      string         `json:"rationale"`

	// Butterfly is the highest-risk consequence at order three or beyond,
	// nil when the cascade never reaches that far. Ties go to the lowest
	// confidence, surfacing the hardest-to-predict effect.
	Butterfly *Consequence `json:"butterfly,omitempty"`
}

// Synthesize reads a trace's consequences and produces the aggregate risk,
// recommendation, rationale and butterfly selection. It never mutates the
// consequences it reads.
func Synthesize(consequences []Consequence) Synthesis {
	s := Synthesis{}

	for i := range consequences {
		c := &consequences[i]
		s.AggregateRisk += c.RiskScore / float64(c.Order)

		if c.Order < butterflyMinOrder {
			continue
		}
		if s.Butterfly == nil ||
			c.RiskScore > s.Butterfly.RiskScore ||
			(c.RiskScore == s.Butterfly.RiskScore && c.Confidence < s.Butterfly.Confidence) {
			picked := *c
			s.Butterfly = &picked
		}
	}

	s.Recommendation = recommendationFor(s.AggregateRisk)
	s.Rationale = buildRationale(consequences, s.AggregateRisk, s.Recommendation)
	return s
}

func recommendationFor(aggregate float64) Recommendation {
	switch {
	case aggregate > rejectThreshold:
		return RecommendReject
	case aggregate >= reconsiderThreshold:
		return RecommendReconsider
	case aggregate >= cautionThreshold:
		return RecommendCaution
	default:
		return RecommendProceed
	}
}

// buildRationale summarizes the top consequences by risk score.
func buildRationale(consequences []Consequence, aggregate float64, rec Recommendation) string {
	if len(consequences) == 0 {
		return "No downstream consequences cleared the propagation floor; the change appears contained."
	}

	top := make([]Consequence, len(consequences))
	copy(top, consequences)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].RiskScore != top[j].RiskScore {
			return top[i].RiskScore > top[j].RiskScore
		}
		return top[i].NodeID < top[j].NodeID
	})
	if len(top) > rationaleTop {
		top = top[:rationaleTop]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Aggregate risk %.1f (%s) across %d consequences. Dominant effects: ",
		aggregate, rec, len(consequences))
	for i, c := range top {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s (%s, risk %.0f, order %d)", c.NodeName, c.Severity, c.RiskScore, c.Order)
	}
	b.WriteString(".")
	return b.String()
}
