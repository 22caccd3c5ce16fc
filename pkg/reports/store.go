// Package reports persists finished cascade and simulation reports.
//
// All backends share the same append-only contract: a report is written
// once under a content-derived identifier and never updated. Saving the
// same identifier again succeeds without writing a second copy, so
// replays and retries are harmless.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotFound is returned when no report exists under the given id.
	ErrNotFound = errors.New("report not found")

	// ErrMissingID is returned when a report is saved without an identifier.
	ErrMissingID = errors.New("report identifier is required")
)

// DefaultListLimit caps listings when the caller passes limit <= 0.
const DefaultListLimit = 50

// Store is the persistence contract shared by all backends.
type Store interface {
	SaveReport(ctx context.Context, report *CascadeReport) error
	Report(ctx context.Context, id string) (*CascadeReport, error)
	ListReports(ctx context.Context, limit int) ([]ReportSummary, error)

	SaveSimulation(ctx context.Context, sim *SimulationReport) error
	Simulation(ctx context.Context, id string) (*SimulationReport, error)
	ListSimulations(ctx context.Context, limit int) ([]SimulationSummary, error)

	Close() error
}

// MemoryStore keeps reports in process memory. It is the default backend
// and the one used by tests. Records are kept as encoded payloads so a
// caller can never mutate a stored report through a shared pointer.
type MemoryStore struct {
	mu         sync.RWMutex
	reportRows []ReportSummary
	reportData map[string][]byte
	simRows    []SimulationSummary
	simData    map[string][]byte
}

// NewMemoryStore creates an empty in-memory report store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reportData: make(map[string][]byte),
		simData:    make(map[string][]byte),
	}
}

// SaveReport stores a finished cascade report. Saving an id that already
// exists is a no-op: identifiers are derived from report content, so a
// duplicate id means a duplicate report.
func (m *MemoryStore) SaveReport(ctx context.Context, report *CascadeReport) error {
	if report == nil || report.ID == "" {
		return ErrMissingID
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.reportData[report.ID]; exists {
		return nil
	}
	m.reportData[report.ID] = payload
	m.reportRows = append(m.reportRows, report.Summary())
	return nil
}

// Report returns the report stored under id.
func (m *MemoryStore) Report(ctx context.Context, id string) (*CascadeReport, error) {
	m.mu.RLock()
	payload, ok := m.reportData[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	var report CascadeReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &report, nil
}

// ListReports returns up to limit report summaries, newest first.
func (m *MemoryStore) ListReports(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ReportSummary, 0, min(limit, len(m.reportRows)))
	for i := len(m.reportRows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.reportRows[i])
	}
	return out, nil
}

// SaveSimulation stores a finished simulation report. Duplicate ids are
// no-ops, same as SaveReport.
func (m *MemoryStore) SaveSimulation(ctx context.Context, sim *SimulationReport) error {
	if sim == nil || sim.ID == "" {
		return ErrMissingID
	}

	payload, err := json.Marshal(sim)
	if err != nil {
		return fmt.Errorf("failed to encode simulation: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.simData[sim.ID]; exists {
		return nil
	}
	m.simData[sim.ID] = payload
	m.simRows = append(m.simRows, sim.Summary())
	return nil
}

// Simulation returns the simulation stored under id.
func (m *MemoryStore) Simulation(ctx context.Context, id string) (*SimulationReport, error) {
	m.mu.RLock()
	payload, ok := m.simData[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	var sim SimulationReport
	if err := json.Unmarshal(payload, &sim); err != nil {
		return nil, fmt.Errorf("failed to decode simulation %s: %w", id, err)
	}
	return &sim, nil
}

// ListSimulations returns up to limit simulation summaries, newest first.
func (m *MemoryStore) ListSimulations(ctx context.Context, limit int) ([]SimulationSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]SimulationSummary, 0, min(limit, len(m.simRows)))
	for i := len(m.simRows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.simRows[i])
	}
	return out, nil
}

// Close releases nothing for the memory backend.
func (m *MemoryStore) Close() error {
	return nil
}
