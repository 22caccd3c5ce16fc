package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/cascadelab/ripplegraph/pkg/change"
	"github.com/cascadelab/ripplegraph/pkg/engine"
	"github.com/cascadelab/ripplegraph/pkg/graph"
	"github.com/cascadelab/ripplegraph/pkg/modes"
	"github.com/cascadelab/ripplegraph/pkg/reports"
)

// newTestEngine builds an engine over the sample graph and an in-memory
// report store.
func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	registry, err := modes.NewRegistry()
	if err != nil {
		t.Fatalf("Failed to load mode catalog: %v", err)
	}

	graphs := graph.NewStore(nil)
	if _, err := graphs.LoadSample(); err != nil {
		t.Fatalf("Failed to load sample graph: %v", err)
	}

	eng, err := engine.New(engine.Config{
		Graphs: graphs,
		Modes:  registry,
		Store:  reports.NewMemoryStore(),
	})
	if err != nil {
		t.Fatalf("Failed to build engine: %v", err)
	}

	return eng
}

func seedAnalysis(t *testing.T, eng *engine.Engine) *reports.CascadeReport {
	t.Helper()

	report, err := eng.AnalyzeChange(context.Background(), &engine.AnalysisRequest{
		Change: change.Request{
			Type:           "restructure",
			Title:          "Merge platform and SRE teams",
			Description:    "Fold the SRE function into the platform engineering group",
			AffectedAssets: []string{"eng-platform", "sre-team"},
		},
		ModeID: "conservative",
		Seed:   42,
	})
	if err != nil {
		t.Fatalf("AnalyzeChange() error = %v", err)
	}
	return report
}

// TestGenerateSchemaHealth tests the always-present health query
func TestGenerateSchemaHealth(t *testing.T) {
	eng := newTestEngine(t)

	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	result := ExecuteQuery(context.Background(), schema, `{ health }`)
	if result.HasErrors() {
		t.Fatalf("Query execution failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	if data["health"] != "ok" {
		t.Errorf("health = %v, want ok", data["health"])
	}
}

// TestReportQuery tests fetching a full report by ID
func TestReportQuery(t *testing.T) {
	eng := newTestEngine(t)
	seeded := seedAnalysis(t, eng)

	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	query := fmt.Sprintf(`{
		report(id: %q) {
			id
			modeId
			graphOrigin
			recommendation
			aggregateRisk
			seed
			consequences {
				nodeId
				order
				riskScore
				severity
			}
			change {
				title
				affectedAssets
			}
		}
	}`, seeded.ID)

	result := ExecuteQuery(context.Background(), schema, query)
	if result.HasErrors() {
		t.Fatalf("Query execution failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	report := data["report"]
	if report == nil {
		t.Fatal("Query result missing 'report' field")
	}

	reportData := report.(map[string]any)
	if reportData["id"] != seeded.ID {
		t.Errorf("report id = %v, want %s", reportData["id"], seeded.ID)
	}
	if reportData["modeId"] != "conservative" {
		t.Errorf("report modeId = %v, want conservative", reportData["modeId"])
	}
	if reportData["seed"] != "42" {
		t.Errorf("report seed = %v, want \"42\"", reportData["seed"])
	}

	consequences, ok := reportData["consequences"].([]any)
	if !ok || len(consequences) == 0 {
		t.Fatalf("report consequences = %v, want a non-empty list", reportData["consequences"])
	}
	first := consequences[0].(map[string]any)
	if first["nodeId"] == nil || first["severity"] == nil {
		t.Errorf("consequence missing fields: %v", first)
	}

	changeData := reportData["change"].(map[string]any)
	if changeData["title"] != seeded.Change.Title {
		t.Errorf("change title = %v, want %s", changeData["title"], seeded.Change.Title)
	}
}

// TestReportsQuery tests the report listing
func TestReportsQuery(t *testing.T) {
	eng := newTestEngine(t)
	seedAnalysis(t, eng)

	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	result := ExecuteQuery(context.Background(), schema, `{
		reports {
			id
			title
			changeType
			consequenceCount
		}
	}`)
	if result.HasErrors() {
		t.Fatalf("Query execution failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	rows, ok := data["reports"].([]any)
	if !ok {
		t.Fatalf("reports = %v, want a list", data["reports"])
	}
	if len(rows) != 1 {
		t.Fatalf("len(reports) = %d, want 1", len(rows))
	}

	row := rows[0].(map[string]any)
	if row["changeType"] != "restructure" {
		t.Errorf("changeType = %v, want restructure", row["changeType"])
	}
}

// TestReportNotFound tests that a missing report surfaces as a query error
func TestReportNotFound(t *testing.T) {
	eng := newTestEngine(t)

	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	result := ExecuteQuery(context.Background(), schema, `{ report(id: "no-such-id") { id } }`)
	if !result.HasErrors() {
		t.Fatal("Expected query errors for unknown report, got none")
	}
}

// TestSimulationQuery tests fetching a simulation with nested universes
func TestSimulationQuery(t *testing.T) {
	eng := newTestEngine(t)

	sim, err := eng.Simulate(context.Background(), &engine.SimulationRequest{
		Question:    "Should we enter the SMB market next quarter?",
		HorizonDays: 180,
		Branches:    3,
		ModeID:      "pragmatist",
		Seed:        42,
	})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	query := fmt.Sprintf(`{
		simulation(id: %q) {
			id
			question
			horizonDays
			seed
			universes {
				id
				name
				overallScore
				riskProfile {
					band
					score
				}
			}
			recommendation {
				universeId
				confidence
			}
		}
	}`, sim.ID)

	result := ExecuteQuery(context.Background(), schema, query)
	if result.HasErrors() {
		t.Fatalf("Query execution failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	simData := data["simulation"].(map[string]any)
	if simData["question"] != sim.Question {
		t.Errorf("question = %v, want %s", simData["question"], sim.Question)
	}
	if simData["seed"] != "42" {
		t.Errorf("seed = %v, want \"42\"", simData["seed"])
	}

	universes, ok := simData["universes"].([]any)
	if !ok {
		t.Fatalf("universes = %v, want a list", simData["universes"])
	}
	if len(universes) != 3 {
		t.Errorf("len(universes) = %d, want 3", len(universes))
	}

	recommendation := simData["recommendation"].(map[string]any)
	if recommendation["universeId"] == nil || recommendation["universeId"] == "" {
		t.Error("recommendation missing universeId")
	}
}

// TestSimulationsQuery tests the simulation listing
func TestSimulationsQuery(t *testing.T) {
	eng := newTestEngine(t)

	if _, err := eng.Simulate(context.Background(), &engine.SimulationRequest{
		Question: "Should we adopt usage-based pricing?",
		ModeID:   "pragmatist",
		Seed:     7,
	}); err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	result := ExecuteQuery(context.Background(), schema, `{
		simulations {
			id
			question
			universeCount
			recommendedUniverse
		}
	}`)
	if result.HasErrors() {
		t.Fatalf("Query execution failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	rows, ok := data["simulations"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("simulations = %v, want a single-row list", data["simulations"])
	}

	row := rows[0].(map[string]any)
	count, ok := row["universeCount"].(int)
	if !ok || count < 2 {
		t.Errorf("universeCount = %v, want at least 2", row["universeCount"])
	}
}

// TestGraphStatsQuery tests the graph statistics query
func TestGraphStatsQuery(t *testing.T) {
	eng := newTestEngine(t)

	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	result := ExecuteQuery(context.Background(), schema, `{
		graphStats {
			nodeCount
			edgeCount
			avgDegree
			typeDistribution
		}
	}`)
	if result.HasErrors() {
		t.Fatalf("Query execution failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	stats := data["graphStats"].(map[string]any)

	nodeCount, ok := stats["nodeCount"].(int)
	if !ok || nodeCount == 0 {
		t.Errorf("nodeCount = %v, want > 0", stats["nodeCount"])
	}

	distJSON, ok := stats["typeDistribution"].(string)
	if !ok {
		t.Fatalf("typeDistribution = %v, want a JSON string", stats["typeDistribution"])
	}
	var dist map[string]int
	if err := json.Unmarshal([]byte(distJSON), &dist); err != nil {
		t.Fatalf("typeDistribution is not valid JSON: %v", err)
	}
	if dist["system"] == 0 {
		t.Errorf("typeDistribution[system] = %d, want > 0", dist["system"])
	}
}

// TestNodeTraversalQuery tests nested upstream/downstream traversal
func TestNodeTraversalQuery(t *testing.T) {
	eng := newTestEngine(t)

	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	result := ExecuteQuery(context.Background(), schema, `{
		node(id: "payments-api") {
			id
			name
			type
			downstream {
				relation
				strength
				node { id type }
			}
			upstream {
				relation
				node { id }
			}
		}
	}`)
	if result.HasErrors() {
		t.Fatalf("Query execution failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	node := data["node"].(map[string]any)
	if node["type"] != "system" {
		t.Errorf("node type = %v, want system", node["type"])
	}

	downstream, ok := node["downstream"].([]any)
	if !ok || len(downstream) == 0 {
		t.Fatalf("downstream = %v, want a non-empty list", node["downstream"])
	}
	first := downstream[0].(map[string]any)
	if first["relation"] == nil {
		t.Error("downstream edge missing relation")
	}
	target := first["node"].(map[string]any)
	if target["id"] == nil || target["id"] == "payments-api" {
		t.Errorf("downstream target = %v, want a different node", target["id"])
	}

	upstream, ok := node["upstream"].([]any)
	if !ok || len(upstream) == 0 {
		t.Fatalf("upstream = %v, want a non-empty list", node["upstream"])
	}
}

// TestNodesFilterQuery tests listing nodes filtered by type
func TestNodesFilterQuery(t *testing.T) {
	eng := newTestEngine(t)

	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	result := ExecuteQuery(context.Background(), schema, `{ nodes(type: "team") { id type } }`)
	if result.HasErrors() {
		t.Fatalf("Query execution failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)
	nodes, ok := data["nodes"].([]any)
	if !ok || len(nodes) == 0 {
		t.Fatalf("nodes = %v, want a non-empty list", data["nodes"])
	}
	for _, n := range nodes {
		nodeData := n.(map[string]any)
		if nodeData["type"] != "team" {
			t.Errorf("node %v type = %v, want team", nodeData["id"], nodeData["type"])
		}
	}
}

// TestUnknownNodeQuery tests that a missing node surfaces as a query error
func TestUnknownNodeQuery(t *testing.T) {
	eng := newTestEngine(t)

	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	result := ExecuteQuery(context.Background(), schema, `{ node(id: "ghost-node") { id } }`)
	if !result.HasErrors() {
		t.Fatal("Expected query errors for unknown node, got none")
	}
}

// TestCatalogQueries tests the mode and industry catalog queries
func TestCatalogQueries(t *testing.T) {
	eng := newTestEngine(t)

	schema, err := GenerateSchema(eng)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	result := ExecuteQuery(context.Background(), schema, `{
		cascadeModes { id label analysisDepth constraints }
		simulationModes { id defaultUniverseCount }
		industries { id label cascadeModifier }
	}`)
	if result.HasErrors() {
		t.Fatalf("Query execution failed: %v", result.Errors)
	}

	data := result.Data.(map[string]any)

	cascadeModes, ok := data["cascadeModes"].([]any)
	if !ok || len(cascadeModes) == 0 {
		t.Fatal("cascadeModes is empty")
	}
	foundConservative := false
	for _, m := range cascadeModes {
		modeData := m.(map[string]any)
		if modeData["id"] == "conservative" {
			foundConservative = true
			depth, ok := modeData["analysisDepth"].(int)
			if !ok || depth == 0 {
				t.Errorf("conservative analysisDepth = %v, want > 0", modeData["analysisDepth"])
			}
		}
	}
	if !foundConservative {
		t.Error("cascadeModes missing conservative")
	}

	if simModes, ok := data["simulationModes"].([]any); !ok || len(simModes) == 0 {
		t.Fatal("simulationModes is empty")
	}

	industries, ok := data["industries"].([]any)
	if !ok || len(industries) == 0 {
		t.Fatal("industries is empty")
	}
}
