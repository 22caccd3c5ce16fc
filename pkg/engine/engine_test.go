package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascadelab/ripplegraph/pkg/change"
	"github.com/cascadelab/ripplegraph/pkg/graph"
	"github.com/cascadelab/ripplegraph/pkg/modes"
	"github.com/cascadelab/ripplegraph/pkg/pubsub"
	"github.com/cascadelab/ripplegraph/pkg/reports"
)

func newTestEngine(t *testing.T, wire func(*Config)) *Engine {
	t.Helper()

	registry, err := modes.NewRegistry()
	require.NoError(t, err, "failed to load mode catalog")

	graphs := graph.NewStore(nil)
	_, err = graphs.LoadSample()
	require.NoError(t, err, "failed to load sample graph")

	cfg := Config{Graphs: graphs, Modes: registry, Store: reports.NewMemoryStore()}
	if wire != nil {
		wire(&cfg)
	}

	eng, err := New(cfg)
	require.NoError(t, err, "failed to build engine")
	return eng
}

func analysisRequest() *AnalysisRequest {
	return &AnalysisRequest{
		Change: change.Request{
			Type:           "restructure",
			Title:          "Merge platform and SRE teams",
			Description:    "Combine Platform Engineering and Site Reliability into one infrastructure group.",
			AffectedAssets: []string{"eng-platform", "sre-team"},
		},
		ModeID: "conservative",
		Seed:   42,
	}
}

func simulationRequest() *SimulationRequest {
	return &SimulationRequest{
		Question:    "Should we enter the SMB market next quarter?",
		HorizonDays: 180,
		Branches:    3,
		ModeID:      "pragmatist",
		IndustryID:  "technology",
		Seed:        42,
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	registry, err := modes.NewRegistry()
	require.NoError(t, err)

	graphs := graph.NewStore(nil)
	store := reports.NewMemoryStore()

	_, err = New(Config{Modes: registry, Store: store})
	assert.Error(t, err, "missing graph store should be rejected")

	_, err = New(Config{Graphs: graphs, Store: store})
	assert.Error(t, err, "missing mode registry should be rejected")

	_, err = New(Config{Graphs: graphs, Modes: registry})
	assert.Error(t, err, "missing report store should be rejected")
}

func TestAnalyzeChange(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	report, err := eng.AnalyzeChange(ctx, analysisRequest())
	require.NoError(t, err, "analysis should succeed")

	assert.NotEmpty(t, report.ID, "report should carry an identifier")
	assert.Equal(t, "conservative", report.ModeID)
	assert.Equal(t, "sample", report.GraphOrigin)
	assert.True(t, report.Synthetic, "sample-graph reports must be flagged synthetic")
	assert.NotEmpty(t, report.Consequences, "cascade from a connected team should produce consequences")
	assert.NotEmpty(t, report.Recommendation)
	assert.NotEmpty(t, report.Rationale)
	assert.Equal(t, int64(42), report.Seed, "requested seed must be recorded")
	assert.False(t, report.CreatedAt.IsZero())

	for _, c := range report.Consequences {
		assert.GreaterOrEqual(t, c.Order, 1, "orders start at 1")
		assert.GreaterOrEqual(t, c.RiskScore, 0.0)
		assert.LessOrEqual(t, c.RiskScore, 100.0)
	}

	// The persisted copy must match what was returned.
	stored, err := eng.GetReport(ctx, report.ID)
	require.NoError(t, err, "report should be retrievable after analysis")
	assert.Equal(t, report.ID, stored.ID)
	assert.Equal(t, len(report.Consequences), len(stored.Consequences))

	rows, err := eng.ListReports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, report.ID, rows[0].ID)
	assert.Equal(t, report.Change.Title, rows[0].Title)
}

func TestAnalyzeChangeValidation(t *testing.T) {
	eng := newTestEngine(t, nil)

	req := analysisRequest()
	req.Change.AffectedAssets = nil

	_, err := eng.AnalyzeChange(context.Background(), req)
	require.Error(t, err)

	var verr *change.ValidationError
	require.ErrorAs(t, err, &verr, "bad input should surface as a ValidationError")

	found := false
	for _, f := range verr.Fields {
		if f.Field == "affected_assets" {
			found = true
		}
	}
	assert.True(t, found, "the missing field must be named: %v", verr.Fields)

	rows, err := eng.ListReports(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, rows, "nothing may persist when validation fails")
}

func TestAnalyzeChangeNoGraph(t *testing.T) {
	registry, err := modes.NewRegistry()
	require.NoError(t, err)

	eng, err := New(Config{
		Graphs: graph.NewStore(nil),
		Modes:  registry,
		Store:  reports.NewMemoryStore(),
	})
	require.NoError(t, err)

	_, err = eng.AnalyzeChange(context.Background(), analysisRequest())
	assert.ErrorIs(t, err, graph.ErrUnavailable)
}

func TestAnalyzeChangeUnknownMode(t *testing.T) {
	eng := newTestEngine(t, nil)

	req := analysisRequest()
	req.ModeID = "reckless"

	_, err := eng.AnalyzeChange(context.Background(), req)
	assert.ErrorIs(t, err, modes.ErrUnknownMode)
}

func TestAnalyzeChangeUnknownIndustry(t *testing.T) {
	eng := newTestEngine(t, nil)

	req := analysisRequest()
	req.IndustryID = "alchemy"

	_, err := eng.AnalyzeChange(context.Background(), req)
	assert.ErrorIs(t, err, modes.ErrUnknownIndustry)
}

func TestAnalyzeChangeSuggestsMode(t *testing.T) {
	eng := newTestEngine(t, nil)

	req := analysisRequest()
	req.ModeID = ""
	req.Change.Type = "market_entry"

	report, err := eng.AnalyzeChange(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "aggressive", report.ModeID, "market entry suggests the aggressive mode")
}

func TestAnalyzeChangeMergesModeConstraints(t *testing.T) {
	eng := newTestEngine(t, nil)

	req := analysisRequest()
	req.Change.Constraints = []string{"no layoffs", "require_rollback_plan"}

	report, err := eng.AnalyzeChange(context.Background(), req)
	require.NoError(t, err)

	// Request constraints first, then the conservative mode's defaults,
	// without duplicating the shared entry.
	assert.Equal(t,
		[]string{"no layoffs", "require_rollback_plan", "stage_before_commit"},
		report.Change.Constraints)
}

func TestAnalyzeChangeDerivedSeed(t *testing.T) {
	eng := newTestEngine(t, nil)

	req := analysisRequest()
	req.Seed = 0

	report, err := eng.AnalyzeChange(context.Background(), req)
	require.NoError(t, err)
	assert.NotZero(t, report.Seed, "a derived seed must still be recorded")
}

func TestAnalyzeChangeIdempotence(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	first, err := eng.AnalyzeChange(ctx, analysisRequest())
	require.NoError(t, err)

	second, err := eng.AnalyzeChange(ctx, analysisRequest())
	require.NoError(t, err)

	diff := cmp.Diff(first, second, cmpopts.IgnoreFields(reports.CascadeReport{}, "CreatedAt"))
	assert.Empty(t, diff, "identical request and seed must reproduce the report")
	assert.Equal(t, first.ID, second.ID, "identity derives from content, not time")

	rows, err := eng.ListReports(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "the duplicate save must not add a second row")
}

func TestSimulate(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	sim, err := eng.Simulate(ctx, simulationRequest())
	require.NoError(t, err, "simulation should succeed")

	assert.NotEmpty(t, sim.ID)
	assert.Equal(t, "pragmatist", sim.ModeID)
	assert.Equal(t, "technology", sim.IndustryID)
	assert.True(t, sim.Synthetic, "simulations are projections and must say so")
	assert.Equal(t, int64(42), sim.Seed)
	require.Len(t, sim.Universes, 3, "three branches were requested")

	decisions := make(map[string]bool)
	recommended := 0
	for _, u := range sim.Universes {
		decisions[u.Decision] = true
		if u.ID == sim.Recommendation.UniverseID {
			recommended++
		}
	}
	assert.Len(t, decisions, 3, "no two universes may share a decision")
	assert.Equal(t, 1, recommended, "exactly one universe is the recommendation target")

	stored, err := eng.GetSimulation(ctx, sim.ID)
	require.NoError(t, err)
	assert.Equal(t, sim.Question, stored.Question)

	rows, err := eng.ListSimulations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, sim.ID, rows[0].ID)
}

func TestSimulateEmptyQuestion(t *testing.T) {
	eng := newTestEngine(t, nil)

	req := simulationRequest()
	req.Question = "   "

	_, err := eng.Simulate(context.Background(), req)
	require.Error(t, err)

	var verr *change.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "question", verr.Fields[0].Field)

	rows, err := eng.ListSimulations(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, rows, "nothing may persist when validation fails")
}

func TestSimulateBranchCountBounds(t *testing.T) {
	eng := newTestEngine(t, nil)

	for _, branches := range []int{1, 7} {
		req := simulationRequest()
		req.Branches = branches

		_, err := eng.Simulate(context.Background(), req)
		require.Error(t, err, "branch count %d should be rejected", branches)

		var verr *change.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "branches", verr.Fields[0].Field)
	}
}

func TestSimulateUnknownMode(t *testing.T) {
	eng := newTestEngine(t, nil)

	req := simulationRequest()
	req.ModeID = "oracle"

	_, err := eng.Simulate(context.Background(), req)
	assert.ErrorIs(t, err, modes.ErrUnknownMode)
}

func TestSimulateDefaultMode(t *testing.T) {
	eng := newTestEngine(t, nil)

	req := simulationRequest()
	req.ModeID = ""

	sim, err := eng.Simulate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, defaultSimulationMode, sim.ModeID)
}

func TestSimulateDeterminism(t *testing.T) {
	eng := newTestEngine(t, nil)
	ctx := context.Background()

	first, err := eng.Simulate(ctx, simulationRequest())
	require.NoError(t, err)

	second, err := eng.Simulate(ctx, simulationRequest())
	require.NoError(t, err)

	diff := cmp.Diff(first, second, cmpopts.IgnoreFields(reports.SimulationReport{}, "CreatedAt"))
	assert.Empty(t, diff, "identical request and seed must reproduce the simulation")

	other := simulationRequest()
	other.Seed = 43
	third, err := eng.Simulate(ctx, other)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID, "the seed is part of the simulation's identity")
}

func TestGraphOperations(t *testing.T) {
	eng := newTestEngine(t, nil)

	stats, err := eng.GraphStats()
	require.NoError(t, err)
	assert.Greater(t, stats.NodeCount, 0)
	assert.Greater(t, stats.EdgeCount, 0)
	assert.Greater(t, stats.AvgDegree, 0.0)
	assert.NotEmpty(t, stats.TypeDistribution)

	nodes, err := eng.ListGraphNodes()
	require.NoError(t, err)
	assert.Len(t, nodes, stats.NodeCount)

	reloaded, err := eng.LoadSampleGraph()
	require.NoError(t, err)
	assert.Equal(t, stats.NodeCount, reloaded.NodeCount)
}

func TestRegistryListings(t *testing.T) {
	eng := newTestEngine(t, nil)

	assert.NotEmpty(t, eng.CascadeModes())
	assert.NotEmpty(t, eng.SimulationModes())
	assert.NotEmpty(t, eng.Industries())
}

func TestAnalyzePublishesSummary(t *testing.T) {
	bus := pubsub.NewBus()
	defer bus.Shutdown()

	eng := newTestEngine(t, func(cfg *Config) { cfg.Bus = bus })

	sub, err := bus.Subscribe(context.Background(), pubsub.TopicReports)
	require.NoError(t, err)

	report, err := eng.AnalyzeChange(context.Background(), analysisRequest())
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		summary, ok := msg.(reports.ReportSummary)
		require.True(t, ok, "reports topic should carry ReportSummary values")
		assert.Equal(t, report.ID, summary.ID)
	case <-time.After(time.Second):
		t.Fatal("no summary published after analysis")
	}
}

func TestAnalyzeAppendsJournal(t *testing.T) {
	journal, err := reports.OpenJournal(t.TempDir())
	require.NoError(t, err)
	defer journal.Close()

	eng := newTestEngine(t, func(cfg *Config) { cfg.Journal = journal })

	report, err := eng.AnalyzeChange(context.Background(), analysisRequest())
	require.NoError(t, err)

	require.NoError(t, journal.Flush())
	records, err := journal.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, reports.RecordCascade, records[0].Kind)
	assert.Contains(t, string(records[0].Data), report.ID)
}

func TestPersistFailureSurfaces(t *testing.T) {
	eng := newTestEngine(t, func(cfg *Config) {
		cfg.Store = failingStore{}
	})

	_, err := eng.AnalyzeChange(context.Background(), analysisRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)

	_, err = eng.Simulate(context.Background(), simulationRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
}

var errStoreDown = errors.New("store is down")

// failingStore rejects every operation.
type failingStore struct{}

func (failingStore) SaveReport(context.Context, *reports.CascadeReport) error { return errStoreDown }
func (failingStore) Report(context.Context, string) (*reports.CascadeReport, error) {
	return nil, errStoreDown
}
func (failingStore) ListReports(context.Context, int) ([]reports.ReportSummary, error) {
	return nil, errStoreDown
}
func (failingStore) SaveSimulation(context.Context, *reports.SimulationReport) error {
	return errStoreDown
}
func (failingStore) Simulation(context.Context, string) (*reports.SimulationReport, error) {
	return nil, errStoreDown
}
func (failingStore) ListSimulations(context.Context, int) ([]reports.SimulationSummary, error) {
	return nil, errStoreDown
}
func (failingStore) Close() error { return nil }
