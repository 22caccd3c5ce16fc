package api

import (
	"github.com/cascadelab/ripplegraph/pkg/change"
	"github.com/cascadelab/ripplegraph/pkg/graph"
	"github.com/cascadelab/ripplegraph/pkg/modes"
	"github.com/cascadelab/ripplegraph/pkg/reports"
)

// ErrorResponse is the envelope for every error this API returns.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Code    int                 `json:"code"`
	Fields  []change.FieldError `json:"fields,omitempty"`
}

// AnalysisListResponse wraps a page of analysis summaries.
type AnalysisListResponse struct {
	Analyses []reports.ReportSummary `json:"analyses"`
	Count    int                     `json:"count"`
}

// SimulationListResponse wraps a page of simulation summaries.
type SimulationListResponse struct {
	Simulations []reports.SimulationSummary `json:"simulations"`
	Count       int                         `json:"count"`
}

// NodeListResponse wraps the nodes of the current graph.
type NodeListResponse struct {
	Nodes []graph.Node `json:"nodes"`
	Count int          `json:"count"`
}

// GraphLoadRequest asks the server to load a dependency graph from a file
// on its local filesystem.
type GraphLoadRequest struct {
	Path string `json:"path"`
}

// GraphLoadResponse reports the shape of a freshly loaded graph.
type GraphLoadResponse struct {
	Stats graph.Stats `json:"stats"`
}

// ModesResponse lists both mode catalogs.
type ModesResponse struct {
	CascadeModes    []modes.Mode `json:"cascade_modes"`
	SimulationModes []modes.Mode `json:"simulation_modes"`
}

// IndustryListResponse lists the industry benchmarks.
type IndustryListResponse struct {
	Industries []modes.IndustryBenchmark `json:"industries"`
	Count      int                       `json:"count"`
}

// VersionResponse describes the running server.
type VersionResponse struct {
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}
