package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"godesign/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS solutions (
	id         BIGSERIAL PRIMARY KEY,
	run_id     TEXT NOT NULL,
	design_id  TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_solutions_run ON solutions (run_id);

CREATE TABLE IF NOT EXISTS trace_events (
	id           BIGSERIAL PRIMARY KEY,
	run_id       TEXT NOT NULL,
	seq          INT NOT NULL,
	event_type   TEXT NOT NULL,
	candidate_id TEXT,
	payload      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_trace_events_run ON trace_events (run_id, seq);
`

// Connect opens a postgres connection pool
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return db, nil
}

// EnsureSchema creates the persistence tables when missing
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}
	return nil
}
