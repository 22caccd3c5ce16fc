// Package engine orchestrates the full analysis pipeline: normalize the
// change, resolve the mode, snapshot the graph, propagate, synthesize,
// generate mitigations, persist, then fan the finished report out to the
// journal, the archive and the event bus. It is the single entry point
// the transport layers (HTTP, GraphQL, websocket) call into.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/cascadelab/ripplegraph/pkg/cascade"
	"github.com/cascadelab/ripplegraph/pkg/change"
	"github.com/cascadelab/ripplegraph/pkg/graph"
	"github.com/cascadelab/ripplegraph/pkg/logging"
	"github.com/cascadelab/ripplegraph/pkg/metrics"
	"github.com/cascadelab/ripplegraph/pkg/mitigation"
	"github.com/cascadelab/ripplegraph/pkg/modes"
	"github.com/cascadelab/ripplegraph/pkg/multiverse"
	"github.com/cascadelab/ripplegraph/pkg/pubsub"
	"github.com/cascadelab/ripplegraph/pkg/reports"
)

const (
	// defaultSimulationMode runs when a simulation request names no mode.
	defaultSimulationMode = "pragmatist"
	// mitigationTopN bounds how many consequences feed the mitigation
	// generator.
	mitigationTopN = 5
	// archiveTimeout bounds each background archive upload.
	archiveTimeout = 30 * time.Second
)

// Config wires an Engine's collaborators. Graphs, Modes and Store are
// required; the rest are optional and default to quiet no-ops.
type Config struct {
	Graphs   *graph.Store
	Modes    *modes.Registry
	Store    reports.Store
	Journal  *reports.Journal
	Archiver *reports.Archiver
	Bus      *pubsub.Bus
	Metrics  *metrics.Registry
	Logger   logging.Logger
}

// Engine runs analyses and simulations end to end. It holds no per-request
// state, so one engine serves all concurrent callers.
type Engine struct {
	graphs   *graph.Store
	modes    *modes.Registry
	store    reports.Store
	journal  *reports.Journal
	archiver *reports.Archiver
	bus      *pubsub.Bus
	metrics  *metrics.Registry
	logger   logging.Logger

	normalizer *change.Normalizer
	cascades   *cascade.Engine
	mitigator  *mitigation.Generator
	simulator  *multiverse.Simulator

	seedSource func() int64
}

// New creates an Engine from the given configuration.
func New(cfg Config) (*Engine, error) {
	if cfg.Graphs == nil {
		return nil, errors.New("engine: graph store is required")
	}
	if cfg.Modes == nil {
		return nil, errors.New("engine: mode registry is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("engine: report store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	reg := cfg.Metrics
	if reg == nil {
		reg = metrics.NewRegistry()
	}

	return &Engine{
		graphs:     cfg.Graphs,
		modes:      cfg.Modes,
		store:      cfg.Store,
		journal:    cfg.Journal,
		archiver:   cfg.Archiver,
		bus:        cfg.Bus,
		metrics:    reg,
		logger:     logger,
		normalizer: change.NewNormalizer(logger),
		cascades:   cascade.NewEngine(logger),
		mitigator:  mitigation.NewGenerator(mitigationTopN, logger),
		simulator:  multiverse.NewSimulator(logger),
		seedSource: func() int64 { return time.Now().UnixNano() },
	}, nil
}

// AnalyzeChange runs one change analysis end to end and persists the
// resulting report. Graph, validation and mode failures return typed
// errors before anything is stored.
func (e *Engine) AnalyzeChange(ctx context.Context, req *AnalysisRequest) (*reports.CascadeReport, error) {
	start := time.Now()

	snap, err := e.graphs.Current()
	if err != nil {
		return nil, err
	}

	spec, err := e.normalizer.Normalize(&req.Change, snap)
	if err != nil {
		return nil, err
	}

	mode, err := e.resolveCascadeMode(req.ModeID, spec.Type)
	if err != nil {
		return nil, err
	}
	spec.Constraints = mergeConstraints(spec.Constraints, mode.Constraints)

	industry, err := e.resolveIndustry(req.IndustryID)
	if err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed <= 0 {
		seed = e.seedSource()
	}

	trace := e.cascades.Propagate(ctx, cascade.Input{
		Spec:     spec,
		Mode:     mode,
		Industry: industry,
		Snapshot: snap,
	})
	synthesis := cascade.Synthesize(trace.Consequences)

	report := &reports.CascadeReport{
		Change:         *spec,
		ModeID:         mode.ID,
		GraphOrigin:    snap.Origin(),
		Synthetic:      snap.Synthetic(),
		Consequences:   trace.Consequences,
		AggregateRisk:  synthesis.AggregateRisk,
		Recommendation: synthesis.Recommendation,
		Rationale:      synthesis.Rationale,
		Butterfly:      synthesis.Butterfly,
		Mitigations:    e.mitigator.Mitigations(trace.Consequences),
		Guardrails:     e.mitigator.Guardrails(trace.Consequences),
		VisitedNodes:   trace.Visited,
		Truncated:      trace.Truncated,
		TruncatedBy:    trace.TruncatedBy,
		Seed:           seed,
	}
	if industry != nil {
		report.IndustryID = industry.ID
	}
	report.ID = report.DeriveID()
	report.CreatedAt = time.Now().UTC()

	saveStart := time.Now()
	err = e.store.SaveReport(ctx, report)
	e.metrics.RecordStoreOperation("save_report", statusOf(err), time.Since(saveStart))
	if err != nil {
		return nil, fmt.Errorf("persist report: %w", err)
	}

	elapsed := time.Since(start)
	e.metrics.RecordAnalysis(mode.ID, string(report.Recommendation), elapsed,
		len(report.Consequences), report.Butterfly != nil)
	if trace.Truncated {
		e.metrics.RecordTruncation(trace.TruncatedBy)
	}

	e.logger.Info("analysis complete",
		logging.ReportID(report.ID),
		logging.ModeID(mode.ID),
		logging.Count(len(report.Consequences)),
		logging.Float64("aggregate_risk", report.AggregateRisk),
		logging.String("recommendation", string(report.Recommendation)),
		logging.Latency(elapsed),
	)

	e.recordReport(report)
	return report, nil
}

// Simulate runs one multiverse simulation and persists the resulting
// report. An empty question or an out-of-range branch count returns a
// ValidationError; nothing is stored on failure.
func (e *Engine) Simulate(ctx context.Context, req *SimulationRequest) (*reports.SimulationReport, error) {
	start := time.Now()

	modeID := req.ModeID
	if modeID == "" {
		modeID = defaultSimulationMode
	}
	mode, err := e.modes.SimulationMode(modeID)
	if err != nil {
		return nil, err
	}

	industry, err := e.resolveIndustry(req.IndustryID)
	if err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed <= 0 {
		seed = e.seedSource()
	}

	sim, err := e.simulator.Simulate(multiverse.Input{
		Question:    req.Question,
		HorizonDays: req.HorizonDays,
		Count:       req.Branches,
		Mode:        mode,
		Industry:    industry,
		RNG:         rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		return nil, simulationInputError(err)
	}

	// Simulated trajectories are projections from the mode catalog, not
	// observations, so every simulation report is flagged synthetic.
	report := &reports.SimulationReport{
		ModeID:     mode.ID,
		Synthetic:  true,
		Seed:       seed,
		Simulation: *sim,
	}
	if industry != nil {
		report.IndustryID = industry.ID
	}
	report.ID = report.DeriveID()
	report.CreatedAt = time.Now().UTC()

	saveStart := time.Now()
	err = e.store.SaveSimulation(ctx, report)
	e.metrics.RecordStoreOperation("save_simulation", statusOf(err), time.Since(saveStart))
	if err != nil {
		return nil, fmt.Errorf("persist simulation: %w", err)
	}

	elapsed := time.Since(start)
	e.metrics.RecordSimulation(mode.ID, elapsed, len(report.Universes))

	e.logger.Info("simulation complete",
		logging.SimulationID(report.ID),
		logging.ModeID(mode.ID),
		logging.Count(len(report.Universes)),
		logging.String("winner", report.Recommendation.UniverseID),
		logging.Latency(elapsed),
	)

	e.recordSimulation(report)
	return report, nil
}

// recordReport fans a persisted report out to the journal, the archive and
// the event bus. Failures here are logged, never surfaced: the report is
// already durable in the store.
func (e *Engine) recordReport(report *reports.CascadeReport) {
	if e.journal != nil {
		data, err := json.Marshal(report)
		if err == nil {
			_, err = e.journal.Append(reports.RecordCascade, data)
		}
		if err != nil {
			e.logger.Warn("journal append failed", logging.ReportID(report.ID), logging.Error(err))
		} else {
			e.metrics.RecordJournalWrite("cascade", len(data))
		}
	}

	if e.archiver != nil {
		go e.archive("cascade", report.ID, func(ctx context.Context) error {
			return e.archiver.ArchiveReport(ctx, report)
		})
	}

	if e.bus != nil {
		e.bus.Publish(pubsub.TopicReports, report.Summary())
		e.metrics.RecordStreamEvent(pubsub.TopicReports)
	}
}

func (e *Engine) recordSimulation(report *reports.SimulationReport) {
	if e.journal != nil {
		data, err := json.Marshal(report)
		if err == nil {
			_, err = e.journal.Append(reports.RecordSimulation, data)
		}
		if err != nil {
			e.logger.Warn("journal append failed", logging.SimulationID(report.ID), logging.Error(err))
		} else {
			e.metrics.RecordJournalWrite("simulation", len(data))
		}
	}

	if e.archiver != nil {
		go e.archive("simulation", report.ID, func(ctx context.Context) error {
			return e.archiver.ArchiveSimulation(ctx, report)
		})
	}

	if e.bus != nil {
		e.bus.Publish(pubsub.TopicSimulations, report.Summary())
		e.metrics.RecordStreamEvent(pubsub.TopicSimulations)
	}
}

// archive uploads one report in the background. Uploads never block or
// fail an analysis; a lost archive copy is recoverable from the store.
func (e *Engine) archive(kind, id string, upload func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	if err := upload(ctx); err != nil {
		e.metrics.RecordArchiveUpload(kind, "error")
		e.logger.Warn("archive upload failed",
			logging.String("kind", kind),
			logging.ReportID(id),
			logging.Error(err),
		)
		return
	}
	e.metrics.RecordArchiveUpload(kind, "success")
}

func (e *Engine) resolveCascadeMode(modeID, changeType string) (*modes.Mode, error) {
	if modeID == "" {
		modeID = e.modes.SuggestMode(changeType)
	}
	return e.modes.CascadeMode(modeID)
}

func (e *Engine) resolveIndustry(industryID string) (*modes.IndustryBenchmark, error) {
	if industryID == "" {
		return nil, nil
	}
	return e.modes.Industry(industryID)
}

// simulationInputError converts the simulator's input sentinels into the
// transport-facing validation shape.
func simulationInputError(err error) error {
	switch {
	case errors.Is(err, multiverse.ErrEmptyQuestion):
		return &change.ValidationError{Fields: []change.FieldError{
			{Field: "question", Message: "question is required"},
		}}
	case errors.Is(err, multiverse.ErrUniverseCount):
		return &change.ValidationError{Fields: []change.FieldError{
			{Field: "branches", Message: err.Error()},
		}}
	default:
		return err
	}
}

// mergeConstraints appends the mode's default constraints to the request's,
// keeping request-supplied entries first and dropping duplicates.
func mergeConstraints(requested, defaults []string) []string {
	if len(defaults) == 0 {
		return requested
	}
	seen := make(map[string]struct{}, len(requested))
	for _, c := range requested {
		seen[c] = struct{}{}
	}
	out := requested
	for _, c := range defaults {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
