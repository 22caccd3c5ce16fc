package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/cascadelab/ripplegraph/pkg/logging"
)

// SQLiteStore persists reports in a single SQLite database file. The
// pure-Go driver keeps deployments CGO-free. Summary columns are stored
// alongside the full JSON payload so listings never decode whole reports.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger logging.Logger
}

// OpenSQLite opens (or creates) the report database at dbPath and runs
// migrations. Pass ":memory:" for an ephemeral store.
func OpenSQLite(dbPath string, logger logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	// WAL mode only applies to file-backed databases.
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("report store ready",
		logging.String("backend", "sqlite"),
		logging.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cascade_reports (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		change_type TEXT NOT NULL,
		recommendation TEXT NOT NULL,
		aggregate_risk REAL NOT NULL,
		consequence_count INTEGER NOT NULL,
		truncated INTEGER NOT NULL DEFAULT 0,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cascade_reports_created ON cascade_reports(created_at DESC);

	CREATE TABLE IF NOT EXISTS simulation_reports (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		universe_count INTEGER NOT NULL,
		recommended_universe TEXT NOT NULL,
		confidence REAL NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_simulation_reports_created ON simulation_reports(created_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// SaveReport inserts a cascade report. Existing ids are left untouched.
func (s *SQLiteStore) SaveReport(ctx context.Context, report *CascadeReport) error {
	if report == nil || report.ID == "" {
		return ErrMissingID
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	sum := report.Summary()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO cascade_reports
			(id, title, change_type, recommendation, aggregate_risk, consequence_count, truncated, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		sum.Title,
		sum.ChangeType,
		sum.Recommendation,
		sum.AggregateRisk,
		sum.ConsequenceCount,
		boolToInt(sum.Truncated),
		string(payload),
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// Report returns the report stored under id.
func (s *SQLiteStore) Report(ctx context.Context, id string) (*CascadeReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM cascade_reports WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	var report CascadeReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &report, nil
}

// ListReports returns up to limit report summaries, newest first.
func (s *SQLiteStore) ListReports(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, change_type, recommendation, aggregate_risk, consequence_count, truncated, created_at
		FROM cascade_reports
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var sum ReportSummary
		var truncated int
		if err := rows.Scan(
			&sum.ID,
			&sum.Title,
			&sum.ChangeType,
			&sum.Recommendation,
			&sum.AggregateRisk,
			&sum.ConsequenceCount,
			&truncated,
			&sum.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		sum.Truncated = truncated != 0
		out = append(out, sum)
	}
	return out, rows.Err()
}

// SaveSimulation inserts a simulation report. Existing ids are left untouched.
func (s *SQLiteStore) SaveSimulation(ctx context.Context, sim *SimulationReport) error {
	if sim == nil || sim.ID == "" {
		return ErrMissingID
	}

	payload, err := json.Marshal(sim)
	if err != nil {
		return fmt.Errorf("failed to encode simulation: %w", err)
	}
	sum := sim.Summary()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO simulation_reports
			(id, question, universe_count, recommended_universe, confidence, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sim.ID,
		sum.Question,
		sum.UniverseCount,
		sum.RecommendedUniverse,
		sum.Confidence,
		string(payload),
		sim.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert simulation: %w", err)
	}
	return nil
}

// Simulation returns the simulation stored under id.
func (s *SQLiteStore) Simulation(ctx context.Context, id string) (*SimulationReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM simulation_reports WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query simulation: %w", err)
	}

	var sim SimulationReport
	if err := json.Unmarshal([]byte(payload), &sim); err != nil {
		return nil, fmt.Errorf("failed to decode simulation %s: %w", id, err)
	}
	return &sim, nil
}

// ListSimulations returns up to limit simulation summaries, newest first.
func (s *SQLiteStore) ListSimulations(ctx context.Context, limit int) ([]SimulationSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, universe_count, recommended_universe, confidence, created_at
		FROM simulation_reports
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
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

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
