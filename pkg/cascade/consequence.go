package cascade

// Severity bands a consequence's risk score.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
	SeverityLow      Severity = "low"
	SeverityMinimal  Severity = "minimal"
)

// Likelihood bands a consequence's propagation probability.
type Likelihood string

const (
	LikelihoodVeryLikely Likelihood = "very_likely"
	LikelihoodLikely     Likelihood = "likely"
	LikelihoodPossible   Likelihood = "possible"
	LikelihoodUnlikely   Likelihood = "unlikely"
	LikelihoodRare       Likelihood = "rare"
)

// Consequence is one downstream effect of a proposed change. Immutable once
// produced by the propagation engine.
type Consequence struct {
	NodeID   string `json:"node_id"`
	NodeName string `json:"node_name"`
	Category string `json:"category"`

	Severity   Severity   `json:"severity"`
	Likelihood Likelihood `json:"likelihood"`

	// RiskScore is probability times impact scaled to [0,100].
	RiskScore float64 `json:"risk_score"`
	// Probability is the local propagation probability across the edge that
	// produced this consequence, in [0,1].
	Probability float64 `json:"probability"`
	// LatencyDays is the accumulated time until the effect manifests.
	LatencyDays int `json:"latency_days"`
	// Order is the causal distance from the affected node, starting at 1.
	Order int `json:"order"`
	// Confidence decays with order; deeper effects are harder to predict.
	Confidence float64 `json:"confidence"`

	// Path lists node IDs from the originating affected asset to this
	// consequence's node, inclusive at both ends.
	Path []string `json:"path"`

	Description string `json:"description"`
}

// severityFor bands a risk score into a severity.
func severityFor(riskScore float64) Severity {
	switch {
	case riskScore >= 80:
		return SeverityCritical
	case riskScore >= 60:
		return SeverityHigh
	case riskScore >= 35:
		return SeverityModerate
	case riskScore >= 15:
		return SeverityLow
	default:
		return SeverityMinimal
	}
}

// likelihoodFor bands a propagation probability into a likelihood.
func likelihoodFor(probability float64) Likelihood {
	switch {
	case probability >= 0.8:
		return LikelihoodVeryLikely
	case probability >= 0.6:
		return LikelihoodLikely
	case probability >= 0.4:
		return LikelihoodPossible
	case probability >= 0.2:
		return LikelihoodUnlikely
	default:
		return LikelihoodRare
	}
}

// positiveRelations carry effects that help the destination. Propagation
// across them uses the mode's opportunity weighting; every other relation
// is treated as risk-bearing. Polarity comes from the relation catalog,
// never from text sniffing the description.
var positiveRelations = map[string]struct{}{
	"supports":    {},
	"enables":     {},
	"boosts":      {},
	"accelerates": {},
}

func relationIsPositive(relation string) bool {
	_, ok := positiveRelations[relation]
	return ok
}

// categoryByNodeType maps the destination node's type to a consequence
// category. Unknown types land in "operational".
var categoryByNodeType = map[string]string{
	"team":    "organizational",
	"role":    "organizational",
	"system":  "technical",
	"process": "operational",
	"policy":  "compliance",
	"metric":  "performance",
	"vendor":  "supply_chain",
	"market":  "market",
}

func categoryFor(nodeType string) string {
	if c, ok := categoryByNodeType[nodeType]; ok {
		return c
	}
	return "operational"
}
