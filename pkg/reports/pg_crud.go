package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SaveReport inserts a cascade report. Existing ids are left untouched.
func (s *PGStore) SaveReport(ctx context.Context, report *CascadeReport) error {
	if report == nil || report.ID == "" {
		return ErrMissingID
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	sum := report.Summary()

	query := `
		INSERT INTO cascade_reports
			(id, title, change_type, recommendation, aggregate_risk, consequence_count, truncated, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.pool.Exec(ctx, query,
		report.ID,
		sum.Title,
		sum.ChangeType,
		sum.Recommendation,
		sum.AggregateRisk,
		sum.ConsequenceCount,
		sum.Truncated,
		payload,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// Report returns the report stored under id.
func (s *PGStore) Report(ctx context.Context, id string) (*CascadeReport, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		"SELECT payload FROM cascade_reports WHERE id = $1", id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	var report CascadeReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &report, nil
}

// ListReports returns up to limit report summaries, newest first.
func (s *PGStore) ListReports(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, title, change_type, recommendation, aggregate_risk, consequence_count, truncated, created_at
		FROM cascade_reports
		ORDER BY created_at DESC, id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var sum ReportSummary
		if err := rows.Scan(
			&sum.ID,
			&sum.Title,
			&sum.ChangeType,
			&sum.Recommendation,
			&sum.AggregateRisk,
			&sum.ConsequenceCount,
			&sum.Truncated,
			&sum.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// SaveSimulation inserts a simulation report. Existing ids are left untouched.
func (s *PGStore) SaveSimulation(ctx context.Context, sim *SimulationReport) error {
	if sim == nil || sim.ID == "" {
		return ErrMissingID
	}

	payload, err := json.Marshal(sim)
	if err != nil {
		return fmt.Errorf("failed to encode simulation: %w", err)
	}
	sum := sim.Summary()

	query := `
		INSERT INTO simulation_reports
			(id, question, universe_count, recommended_universe, confidence, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.pool.Exec(ctx, query,
		sim.ID,
		sum.Question,
		sum.UniverseCount,
		sum.RecommendedUniverse,
		sum.Confidence,
		payload,
		sim.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert simulation: %w", err)
	}
	return nil
}

// Simulation returns the simulation stored under id.
func (s *PGStore) Simulation(ctx context.Context, id string) (*SimulationReport, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		"SELECT payload FROM simulation_reports WHERE id = $1", id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query simulation: %w", err)
	}

	var sim SimulationReport
	if err := json.Unmarshal(payload, &sim); err != nil {
		return nil, fmt.Errorf("failed to decode simulation %s: %w", id, err)
	}
	return &sim, nil
}

// ListSimulations returns up to limit simulation summaries, newest first.
func (s *PGStore) ListSimulations(ctx context.Context, limit int) ([]SimulationSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, question, universe_count, recommended_universe, confidence, created_at
		FROM simulation_reports
		ORDER BY created_at DESC, id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}
	defer rows.Close()

	var out []SimulationSummary
	for rows.Next() {
		var sum SimulationSummary
		if err := rows.Scan(
			&sum.ID,
			&sum.Question,
			&sum.UniverseCount,
			&sum.RecommendedUniverse,
			&sum.Confidence,
			&sum.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan simulation row: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
