package cascade

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/cascadelab/ripplegraph/pkg/change"
	"github.com/cascadelab/ripplegraph/pkg/graph"
	"github.com/cascadelab/ripplegraph/pkg/logging"
	"github.com/cascadelab/ripplegraph/pkg/modes"
)

// Propagation constants.
const (
	// ProbabilityFloor terminates branches whose local propagation
	// probability drops below it.
	ProbabilityFloor = 0.05
	// VisitBudget caps node expansions per traversal. Exceeding it returns
	// a partial, truncated trace rather than an error.
	VisitBudget = 10000

	// confidenceDecay is the per-hop confidence multiplier.
	confidenceDecay = 0.85
	// confidenceBase and confidenceSeedSpan derive each seed's starting
	// confidence from its weight: heavier assets are better understood.
	confidenceBase     = 0.85
	confidenceSeedSpan = 0.10
)

// Truncation reasons recorded on partial traces.
const (
	TruncatedByBudget    = "visit_budget"
	TruncatedByCancelled = "cancelled"
)

// Input bundles everything one propagation run needs. The snapshot is taken
// once by the caller; the engine never touches the live store.
type Input struct {
	Spec     *change.Specification
	Mode     *modes.Mode
	Industry *modes.IndustryBenchmark // nil when no industry context is attached
	Snapshot *graph.Snapshot
}

// Trace is the raw output of one propagation run.
type Trace struct {
	Consequences []Consequence
	// Visited counts node expansions performed.
	Visited int
	// Truncated marks traces cut short by the visit budget or cancellation.
	Truncated   bool
	TruncatedBy string
}

// Engine propagates change effects across the graph. It holds no per-run
// state, so one engine serves concurrent analyses.
type Engine struct {
	logger logging.Logger
}

// NewEngine creates a propagation engine.
func NewEngine(logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{logger: logger}
}

type bfsEntry struct {
	nodeID      string
	order       int // consequences produced from this node land at order+1
	latencyDays int
	path        []string
	confBase    float64
}

// Propagate runs a breadth-first traversal seeded at each affected asset.
// Each surviving edge produces one Consequence; branches terminate when the
// local propagation probability falls below ProbabilityFloor or the mode's
// analysis depth is reached. A node already reached via a shorter or equal
// path is never re-expanded, which keeps cyclic graphs finite.
//
// Cancellation is checked between node expansions; a cancelled run returns
// everything computed so far with Truncated set.
func (e *Engine) Propagate(ctx context.Context, in Input) *Trace {
	industryModifier := 1.0
	if in.Industry != nil {
		industryModifier = in.Industry.CascadeModifier
	}

	trace := &Trace{}
	bestOrder := make(map[string]int)

	var queue []bfsEntry
	for _, assetID := range in.Spec.AffectedAssets {
		seed, err := in.Snapshot.Node(assetID)
		if err != nil {
			// The normalizer admits declared-but-absent assets; they simply
			// contribute no branches.
			e.logger.Debug("skipping affected asset not present in snapshot",
				logging.NodeID(assetID))
			continue
		}
		if prev, seen := bestOrder[seed.ID]; seen && prev <= 0 {
			continue
		}
		bestOrder[seed.ID] = 0
		queue = append(queue, bfsEntry{
			nodeID:   seed.ID,
			order:    0,
			path:     []string{seed.ID},
			confBase: confidenceBase + confidenceSeedSpan*seed.Weight,
		})
	}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			trace.Truncated = true
			trace.TruncatedBy = TruncatedByCancelled
			e.logger.Warn("traversal cancelled, returning partial trace",
				logging.Count(len(trace.Consequences)))
			e.finish(trace)
			return trace
		default:
		}

		if trace.Visited >= VisitBudget {
			trace.Truncated = true
			trace.TruncatedBy = TruncatedByBudget
			e.logger.Warn("traversal visit budget exhausted, returning partial trace",
				logging.Int("budget", VisitBudget),
				logging.Count(len(trace.Consequences)))
			e.finish(trace)
			return trace
		}

		current := queue[0]
		queue = queue[1:]
		trace.Visited++

		if current.order >= in.Mode.AnalysisDepth {
			continue
		}
		nextOrder := current.order + 1

		src, err := in.Snapshot.Node(current.nodeID)
		if err != nil {
			continue
		}

		for _, edge := range in.Snapshot.Outgoing(current.nodeID) {
			weighting := in.Mode.RiskWeighting
			if relationIsPositive(edge.Relation) {
				weighting = in.Mode.OpportunityWeighting
			}

			probability := edge.Strength * src.Sensitivity * weighting * industryModifier
			if probability > 1 {
				probability = 1
			}
			if probability < ProbabilityFloor {
				continue
			}

			dest, err := in.Snapshot.Node(edge.To)
			if err != nil {
				continue
			}

			c := e.buildConsequence(src, dest, edge, probability, nextOrder, current)
			trace.Consequences = append(trace.Consequences, c)

			if prev, seen := bestOrder[dest.ID]; seen && prev <= nextOrder {
				continue
			}
			bestOrder[dest.ID] = nextOrder
			queue = append(queue, bfsEntry{
				nodeID:      dest.ID,
				order:       nextOrder,
				latencyDays: current.latencyDays + edge.LatencyDays,
				path:        appendPath(current.path, dest.ID),
				confBase:    current.confBase,
			})
		}
	}

	e.finish(trace)
	return trace
}

func (e *Engine) buildConsequence(src, dest *graph.Node, edge graph.Edge, probability float64, order int, from bfsEntry) Consequence {
	impact := dest.Weight * (1 - dest.Inertia/2)
	riskScore := clampScore(probability * impact * 100)
	severity := severityFor(riskScore)

	return Consequence{
		NodeID:      dest.ID,
		NodeName:    dest.Name,
		Category:    categoryFor(dest.Type),
		Severity:    severity,
		Likelihood:  likelihoodFor(probability),
		RiskScore:   riskScore,
		Probability: probability,
		LatencyDays: from.latencyDays + edge.LatencyDays,
		Order:       order,
		Confidence:  from.confBase * math.Pow(confidenceDecay, float64(order)),
		Path:        appendPath(from.path, dest.ID),
		Description: describeConsequence(src, dest, edge, severity, order),
	}
}

// finish orders the trace deterministically: ascending order, then
// descending risk, then node ID.
func (e *Engine) finish(trace *Trace) {
	sort.SliceStable(trace.Consequences, func(i, j int) bool {
		a, b := trace.Consequences[i], trace.Consequences[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.RiskScore != b.RiskScore {
			return a.RiskScore > b.RiskScore
		}
		if a.NodeID != b.NodeID {
			return a.NodeID < b.NodeID
		}
		return a.Path[0] < b.Path[0]
	})
}

func describeConsequence(src, dest *graph.Node, edge graph.Edge, severity Severity, order int) string {
	pressure := "pressure"
	if relationIsPositive(edge.Relation) {
		pressure = "lift"
	}
	return fmt.Sprintf("%s receives %s %s from %s (%s, order %d)",
		dest.Name, severity, pressure, src.Name, edge.Relation, order)
}

// appendPath copies before appending so sibling branches never share
// backing arrays.
func appendPath(path []string, next string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, next)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
