package engine

import "github.com/cascadelab/ripplegraph/pkg/change"

// AnalysisRequest is one analyzeChange call as it arrives over the wire.
// ModeID may be empty; the registry then suggests one from the change type.
// Seed zero lets the engine pick a time-derived seed; whichever seed runs
// is recorded on the report.
type AnalysisRequest struct {
	Change     change.Request `json:"change"`
	ModeID     string         `json:"mode_id,omitempty"`
	IndustryID string         `json:"industry_id,omitempty"`
	Seed       int64          `json:"seed,omitempty"`
}

// SimulationRequest is one simulate call as it arrives over the wire.
// Branches zero selects the mode's default universe count; HorizonDays
// zero selects the default projection horizon.
type SimulationRequest struct {
	Question    string `json:"question"`
	HorizonDays int    `json:"horizon_days,omitempty"`
	Branches    int    `json:"branches,omitempty"`
	ModeID      string `json:"mode_id,omitempty"`
	IndustryID  string `json:"industry_id,omitempty"`
	Seed        int64  `json:"seed,omitempty"`
}
