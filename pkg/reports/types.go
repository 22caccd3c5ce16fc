package reports

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/cascadelab/ripplegraph/pkg/cascade"
	"github.com/cascadelab/ripplegraph/pkg/change"
	"github.com/cascadelab/ripplegraph/pkg/mitigation"
	"github.com/cascadelab/ripplegraph/pkg/multiverse"
)

// CascadeReport is the durable record of one change analysis. Its field set
// is the contract consumed by the API, GraphQL, and stream layers; reports
// are written once and never mutated afterwards.
type CascadeReport struct {
	ID             string                  `json:"id"`
	Change         change.Specification    `json:"change"`
	ModeID         string                  `json:"mode_id"`
	IndustryID     string                  `json:"industry_id"`
	GraphOrigin    string                  `json:"graph_origin"`
	Synthetic      bool                    `json:"synthetic"`
	Consequences   []cascade.Consequence   `json:"consequences"`
	AggregateRisk  float64                 `json:"aggregate_risk"`
	Recommendation cascade.Recommendation  `json:"recommendation"`
	Rationale      string                  `json:"rationale"`
	Butterfly      *cascade.Consequence    `json:"butterfly_effect,omitempty"`
	Mitigations    []mitigation.Mitigation `json:"mitigations"`
	Guardrails     []mitigation.Guardrail  `json:"guardrails"`
	VisitedNodes   int                     `json:"visited_nodes"`
	Truncated      bool                    `json:"truncated"`
	TruncatedBy    string                  `json:"truncated_by,omitempty"`
	Seed           int64                   `json:"seed"`
	CreatedAt      time.Time               `json:"created_at"`
}

// SimulationReport is the durable record of one multiverse simulation.
// The simulation body is embedded so the persisted JSON stays flat.
type SimulationReport struct {
	ID         string    `json:"id"`
	ModeID     string    `json:"mode_id"`
	IndustryID string    `json:"industry_id"`
	Synthetic  bool      `json:"synthetic"`
	Seed       int64     `json:"seed"`
	CreatedAt  time.Time `json:"created_at"`

	multiverse.Simulation
}

// ReportSummary is the listing row for a cascade report.
type ReportSummary struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	ChangeType       string    `json:"change_type"`
	Recommendation   string    `json:"recommendation"`
	AggregateRisk    float64   `json:"aggregate_risk"`
	ConsequenceCount int       `json:"consequence_count"`
	Truncated        bool      `json:"truncated,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// SimulationSummary is the listing row for a simulation report.
type SimulationSummary struct {
	ID                  string    `json:"id"`
	Question            string    `json:"question"`
	UniverseCount       int       `json:"universe_count"`
	RecommendedUniverse string    `json:"recommended_universe"`
	Confidence          float64   `json:"confidence"`
	CreatedAt           time.Time `json:"created_at"`
}

// Summary projects the listing row for this report.
func (r *CascadeReport) Summary() ReportSummary {
	return ReportSummary{
		ID:               r.ID,
		Title:            r.Change.Title,
		ChangeType:       r.Change.Type,
		Recommendation:   string(r.Recommendation),
		AggregateRisk:    r.AggregateRisk,
		ConsequenceCount: len(r.Consequences),
		Truncated:        r.Truncated,
		CreatedAt:        r.CreatedAt,
	}
}

// Summary projects the listing row for this simulation.
func (s *SimulationReport) Summary() SimulationSummary {
	return SimulationSummary{
		ID:                  s.ID,
		Question:            s.Question,
		UniverseCount:       len(s.Universes),
		RecommendedUniverse: s.Recommendation.UniverseID,
		Confidence:          s.Recommendation.Confidence,
		CreatedAt:           s.CreatedAt,
	}
}

// Name-based UUID namespaces. Fixed so identifiers stay stable across
// processes and versions.
var (
	cascadeNamespace    = uuid.NewSHA1(uuid.NameSpaceOID, []byte("ripplegraph/cascade-report"))
	simulationNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("ripplegraph/simulation-report"))
)

// DeriveID computes the report identifier from every field except the
// identifier itself and the creation timestamp. Re-running an identical
// analysis therefore produces the same ID, and a duplicate save is a no-op
// rather than a second row.
func (r *CascadeReport) DeriveID() string {
	clone := *r
	clone.ID = ""
	clone.CreatedAt = time.Time{}
	data, _ := json.Marshal(&clone)
	return uuid.NewSHA1(cascadeNamespace, data).String()
}

// DeriveID computes the simulation identifier from every field except the
// identifier itself and the creation timestamp.
func (s *SimulationReport) DeriveID() string {
	clone := *s
	clone.ID = ""
	clone.CreatedAt = time.Time{}
	data, _ := json.Marshal(&clone)
	return uuid.NewSHA1(simulationNamespace, data).String()
}
