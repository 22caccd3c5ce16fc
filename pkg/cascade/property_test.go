package cascade

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/cascadelab/ripplegraph/pkg/graph"
)

// TestPropagationInvariants verifies traversal invariants over randomized
// node and edge attributes on a fixed topology.
func TestPropagationInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	buildSnapshot := func(s1, s2, s3, sens, weight, inertia float64) (*graph.Snapshot, error) {
		nodes := []graph.Node{
			{ID: "a", Type: "team", Weight: weight, Sensitivity: sens, Inertia: inertia},
			{ID: "b", Type: "system", Weight: weight, Sensitivity: sens, Inertia: inertia},
			{ID: "c", Type: "metric", Weight: weight, Sensitivity: sens, Inertia: inertia},
			{ID: "d", Type: "market", Weight: weight, Sensitivity: sens, Inertia: inertia},
		}
		edges := []graph.Edge{
			{From: "a", To: "b", Relation: "feeds", Strength: s1, LatencyDays: 1},
			{From: "b", To: "c", Relation: "supports", Strength: s2, LatencyDays: 2},
			{From: "c", To: "d", Relation: "governs", Strength: s3, LatencyDays: 3},
		}
		return graph.NewSnapshot(nodes, edges, "prop", false)
	}

	engine := NewEngine(nil)

	properties.Property("scores and orders stay in range", prop.ForAll(
		func(s1, s2, s3, sens, weight, inertia float64) bool {
			snap, err := buildSnapshot(s1, s2, s3, sens, weight, inertia)
			if err != nil {
				return false
			}
			mode := neutralMode(4)
			tr := engine.Propagate(context.Background(), Input{
				Spec:     specFor("a"),
				Mode:     mode,
				Snapshot: snap,
			})

			for _, c := range tr.Consequences {
				if c.RiskScore < 0 || c.RiskScore > 100 {
					return false
				}
				if c.Probability < ProbabilityFloor || c.Probability > 1 {
					return false
				}
				if c.Order < 1 || c.Order > mode.AnalysisDepth {
					return false
				}
				if c.Confidence <= 0 || c.Confidence > 1 {
					return false
				}
				if c.Path[0] != "a" || c.Path[len(c.Path)-1] != c.NodeID {
					return false
				}
				if len(c.Path) != c.Order+1 {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
	))

	properties.Property("confidence strictly decreases along the chain", prop.ForAll(
		func(s1, s2, s3, sens float64) bool {
			snap, err := buildSnapshot(s1, s2, s3, sens, 0.8, 0.2)
			if err != nil {
				return false
			}
			tr := engine.Propagate(context.Background(), Input{
				Spec:     specFor("a"),
				Mode:     neutralMode(4),
				Snapshot: snap,
			})

			prev := 1.0
			for _, c := range tr.Consequences {
				// The chain topology means consequence order equals position.
				if c.Confidence >= prev {
					return false
				}
				prev = c.Confidence
			}
			return true
		},
		gen.Float64Range(0.3, 1),
		gen.Float64Range(0.3, 1),
		gen.Float64Range(0.3, 1),
		gen.Float64Range(0.3, 1),
	))

	properties.Property("butterfly, when present, is deep and maximal", prop.ForAll(
		func(s1, s2, s3, sens float64) bool {
			snap, err := buildSnapshot(s1, s2, s3, sens, 0.9, 0.1)
			if err != nil {
				return false
			}
			tr := engine.Propagate(context.Background(), Input{
				Spec:     specFor("a"),
				Mode:     neutralMode(5),
				Snapshot: snap,
			})
			s := Synthesize(tr.Consequences)
			if s.Butterfly == nil {
				for _, c := range tr.Consequences {
					if c.Order >= 3 {
						return false
					}
				}
				return true
			}
			if s.Butterfly.Order < 3 {
				return false
			}
			for _, c := range tr.Consequences {
				if c.Order >= 3 && c.RiskScore > s.Butterfly.RiskScore {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
