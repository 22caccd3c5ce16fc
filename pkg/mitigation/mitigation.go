// Package mitigation turns high-risk consequences into concrete mitigations
// and guardrails. Generation is table-driven and deterministic: the same
// consequences always yield the same plan.
package mitigation

import (
	"fmt"
	"sort"

	"github.com/cascadelab/ripplegraph/pkg/cascade"
	"github.com/cascadelab/ripplegraph/pkg/logging"
)

// Type is the canonical mitigation category.
type Type string

const (
	TypePrevent Type = "prevent"
	TypeDetect  Type = "detect"
	TypeRespond Type = "respond"
)

// GuardrailType distinguishes automatic stops from human escalations.
type GuardrailType string

const (
	GuardrailHardStop   GuardrailType = "hard_stop"
	GuardrailEscalation GuardrailType = "escalation"
)

// Cost bands for mitigations.
const (
	CostLow         = "low"
	CostModerate    = "moderate"
	CostHigh        = "high"
	CostSubstantial = "substantial"
)

// DefaultTopN is how many consequences get mitigations when the caller
// does not override it.
const DefaultTopN = 5

// Mitigation is one countermeasure for a consequence.
type Mitigation struct {
	NodeID         string  `json:"node_id"`
	NodeName       string  `json:"node_name"`
	Type           Type    `json:"type"`
	Description    string  `json:"description"`
	Implementation string  `json:"implementation"`
	EstimatedCost  string  `json:"estimated_cost"`
	Effectiveness  float64 `json:"effectiveness"`
}

// Guardrail is a tripwire attached to a consequence: a trigger condition
// and the action required when it fires.
type Guardrail struct {
	NodeID         string        `json:"node_id"`
	Type           GuardrailType `json:"type"`
	Trigger        string        `json:"trigger"`
	RequiredAction string        `json:"required_action"`
}

// Generator builds mitigation plans. Safe for concurrent use.
type Generator struct {
	topN   int
	logger logging.Logger
}

// NewGenerator creates a Generator covering the top topN consequences by
// risk score. topN <= 0 selects DefaultTopN.
func NewGenerator(topN int, logger logging.Logger) *Generator {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Generator{topN: topN, logger: logger}
}

// Mitigations synthesizes prevent/detect/respond countermeasures for the
// top consequences by risk score. One consequence per node: when several
// consequences land on the same node, only the riskiest drives the plan.
// Output is ordered by risk score, descending.
func (g *Generator) Mitigations(consequences []cascade.Consequence) []Mitigation {
	selected := g.selectTop(consequences)

	out := make([]Mitigation, 0, len(selected)*3)
	for _, c := range selected {
		for _, mt := range []Type{TypePrevent, TypeDetect, TypeRespond} {
			out = append(out, buildMitigation(c, mt))
		}
	}
	return out
}

// Guardrails builds tripwires for consequences that are critical or at
// least likely. Each qualifying consequence gets a hard stop on its leading
// indicator and an escalation on a softer signal. Output is ordered by
// risk score, descending.
func (g *Generator) Guardrails(consequences []cascade.Consequence) []Guardrail {
	qualifying := make([]cascade.Consequence, 0, len(consequences))
	for _, c := range dedupeByNode(consequences) {
		if c.Severity == cascade.SeverityCritical ||
			c.Likelihood == cascade.LikelihoodLikely ||
			c.Likelihood == cascade.LikelihoodVeryLikely {
			qualifying = append(qualifying, c)
		}
	}
	sortByRisk(qualifying)

	out := make([]Guardrail, 0, len(qualifying)*2)
	for _, c := range qualifying {
		indicator := indicatorFor(c.Category)
		out = append(out,
			Guardrail{
				NodeID:         c.NodeID,
				Type:           GuardrailHardStop,
				Trigger:        fmt.Sprintf("%s for %s degrades beyond %d%% from baseline", indicator, c.NodeName, hardStopDrift(c.RiskScore)),
				RequiredAction: fmt.Sprintf("halt the change and restore the previous state around %s", c.NodeName),
			},
			Guardrail{
				NodeID:         c.NodeID,
				Type:           GuardrailEscalation,
				Trigger:        fmt.Sprintf("%s for %s shows sustained negative trend over two review cycles", indicator, c.NodeName),
				RequiredAction: fmt.Sprintf("escalate to the owning lead and re-run the analysis for %s", c.NodeName),
			},
		)
	}
	return out
}

func (g *Generator) selectTop(consequences []cascade.Consequence) []cascade.Consequence {
	deduped := dedupeByNode(consequences)
	sortByRisk(deduped)
	if len(deduped) > g.topN {
		deduped = deduped[:g.topN]
	}
	return deduped
}

// dedupeByNode keeps the riskiest consequence per node.
func dedupeByNode(consequences []cascade.Consequence) []cascade.Consequence {
	best := make(map[string]cascade.Consequence, len(consequences))
	order := make([]string, 0, len(consequences))
	for _, c := range consequences {
		prev, seen := best[c.NodeID]
		if !seen {
			order = append(order, c.NodeID)
			best[c.NodeID] = c
			continue
		}
		if c.RiskScore > prev.RiskScore {
			best[c.NodeID] = c
		}
	}
	out := make([]cascade.Consequence, 0, len(order))
	for _, id := range order {
		out = append(out, best[id])
	}
	return out
}

func sortByRisk(cs []cascade.Consequence) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].RiskScore != cs[j].RiskScore {
			return cs[i].RiskScore > cs[j].RiskScore
		}
		return cs[i].NodeID < cs[j].NodeID
	})
}

// hardStopDrift converts a risk score into an allowed indicator drift:
// riskier consequences get tighter tripwires, floored at 5%.
func hardStopDrift(riskScore float64) int {
	drift := int((100 - riskScore) / 4)
	if drift < 5 {
		drift = 5
	}
	return drift
}

func buildMitigation(c cascade.Consequence, mt Type) Mitigation {
	tmpl := strategyFor(c.Category, mt)
	return Mitigation{
		NodeID:         c.NodeID,
		NodeName:       c.NodeName,
		Type:           mt,
		Description:    fmt.Sprintf(tmpl.description, c.NodeName),
		Implementation: fmt.Sprintf(tmpl.implementation, c.NodeName),
		EstimatedCost:  costFor(c.Severity),
		Effectiveness:  effectivenessFor(c.Severity, mt),
	}
}

func costFor(s cascade.Severity) string {
	switch s {
	case cascade.SeverityCritical:
		return CostSubstantial
	case cascade.SeverityHigh:
		return CostHigh
	case cascade.SeverityModerate:
		return CostModerate
	default:
		return CostLow
	}
}

// effectivenessFor starts from a per-type base and discounts it for harsher
// severities: severe effects are harder to fully counter.
func effectivenessFor(s cascade.Severity, mt Type) float64 {
	base := map[Type]float64{
		TypePrevent: 0.70,
		TypeDetect:  0.80,
		TypeRespond: 0.60,
	}[mt]

	penalty := map[cascade.Severity]float64{
		cascade.SeverityCritical: 0.20,
		cascade.SeverityHigh:     0.12,
		cascade.SeverityModerate: 0.05,
	}[s]

	return base - penalty
}
