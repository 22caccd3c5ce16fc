package reports

import "context"

// migrate creates the report tables if they don't exist.
func (s *PGStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS cascade_reports (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		change_type TEXT NOT NULL,
		recommendation TEXT NOT NULL,
		aggregate_risk DOUBLE PRECISION NOT NULL,
		consequence_count INTEGER NOT NULL,
		truncated BOOLEAN NOT NULL DEFAULT FALSE,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cascade_reports_created ON cascade_reports(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_cascade_reports_recommendation ON cascade_reports(recommendation);

	CREATE TABLE IF NOT EXISTS simulation_reports (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		universe_count INTEGER NOT NULL,
		recommended_universe TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_simulation_reports_created ON simulation_reports(created_at DESC);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}
