package engine

import (
	"context"
	"time"

	"github.com/cascadelab/ripplegraph/pkg/graph"
	"github.com/cascadelab/ripplegraph/pkg/modes"
	"github.com/cascadelab/ripplegraph/pkg/pubsub"
	"github.com/cascadelab/ripplegraph/pkg/reports"
)

// ListReports returns cascade report summaries, newest first.
func (e *Engine) ListReports(ctx context.Context, limit int) ([]reports.ReportSummary, error) {
	start := time.Now()
	rows, err := e.store.ListReports(ctx, limit)
	e.metrics.RecordStoreOperation("list_reports", statusOf(err), time.Since(start))
	return rows, err
}

// GetReport returns one cascade report by id, or reports.ErrNotFound.
func (e *Engine) GetReport(ctx context.Context, id string) (*reports.CascadeReport, error) {
	start := time.Now()
	report, err := e.store.Report(ctx, id)
	e.metrics.RecordStoreOperation("get_report", statusOf(err), time.Since(start))
	return report, err
}

// ListSimulations returns simulation summaries, newest first.
func (e *Engine) ListSimulations(ctx context.Context, limit int) ([]reports.SimulationSummary, error) {
	start := time.Now()
	rows, err := e.store.ListSimulations(ctx, limit)
	e.metrics.RecordStoreOperation("list_simulations", statusOf(err), time.Since(start))
	return rows, err
}

// GetSimulation returns one simulation report by id, or reports.ErrNotFound.
func (e *Engine) GetSimulation(ctx context.Context, id string) (*reports.SimulationReport, error) {
	start := time.Now()
	sim, err := e.store.Simulation(ctx, id)
	e.metrics.RecordStoreOperation("get_simulation", statusOf(err), time.Since(start))
	return sim, err
}

// GraphSnapshot returns the immutable current graph for read-side
// traversal, such as the GraphQL neighbor resolvers.
func (e *Engine) GraphSnapshot() (*graph.Snapshot, error) {
	return e.graphs.Current()
}

// GraphStats returns statistics for the current snapshot, or
// graph.ErrUnavailable when none is loaded.
func (e *Engine) GraphStats() (graph.Stats, error) {
	snap, err := e.graphs.Current()
	if err != nil {
		return graph.Stats{}, err
	}
	return snap.Stats(), nil
}

// ListGraphNodes returns every node in the current snapshot, sorted by id.
func (e *Engine) ListGraphNodes() ([]graph.Node, error) {
	snap, err := e.graphs.Current()
	if err != nil {
		return nil, err
	}
	return snap.Nodes(), nil
}

// LoadSampleGraph installs the built-in demonstration graph and returns
// its statistics.
func (e *Engine) LoadSampleGraph() (graph.Stats, error) {
	start := time.Now()
	snap, err := e.graphs.LoadSample()
	e.metrics.RecordGraphLoad("sample", statusOf(err), time.Since(start))
	if err != nil {
		return graph.Stats{}, err
	}
	return e.announceGraph(snap, "sample"), nil
}

// LoadGraphFile installs a graph snapshot from a JSON file on disk and
// returns its statistics.
func (e *Engine) LoadGraphFile(path string) (graph.Stats, error) {
	start := time.Now()
	snap, err := e.graphs.LoadFile(path)
	e.metrics.RecordGraphLoad("file", statusOf(err), time.Since(start))
	if err != nil {
		return graph.Stats{}, err
	}
	return e.announceGraph(snap, "file"), nil
}

// announceGraph updates the graph gauges and publishes the new snapshot's
// statistics on the bus.
func (e *Engine) announceGraph(snap *graph.Snapshot, origin string) graph.Stats {
	stats := snap.Stats()
	e.metrics.UpdateGraphMetrics(stats.NodeCount, stats.EdgeCount)
	e.metrics.SetGraphOrigin(origin)

	if e.bus != nil {
		e.bus.Publish(pubsub.TopicGraph, stats)
		e.metrics.RecordStreamEvent(pubsub.TopicGraph)
	}
	return stats
}

// CascadeModes lists the registry's cascade modes.
func (e *Engine) CascadeModes() []modes.Mode { return e.modes.CascadeModes() }

// SimulationModes lists the registry's simulation modes.
func (e *Engine) SimulationModes() []modes.Mode { return e.modes.SimulationModes() }

// Industries lists the registry's industry benchmarks.
func (e *Engine) Industries() []modes.IndustryBenchmark { return e.modes.Industries() }
