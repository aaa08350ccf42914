package postgres

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"godesign/domain/core"
	"godesign/internal/errors"
	"godesign/ports"
)

// TraceRepositoryImpl implements TraceRepository for PostgreSQL
type TraceRepositoryImpl struct {
	db *sqlx.DB
}

// NewTraceRepository creates a new PostgreSQL trace repository
func NewTraceRepository(db *sqlx.DB) ports.TraceRepository {
	return &TraceRepositoryImpl{db: db}
}

// SaveEvents stores a run's decision trace, preserving emission order
func (r *TraceRepositoryImpl) SaveEvents(ctx context.Context, runID core.RunID, events []ports.DecisionEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}
	defer tx.Rollback()

	for seq, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return errors.Wrapf(err, "encode trace event %d for run %s", seq, runID)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trace_events (run_id, seq, event_type, candidate_id, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
		`, runID.String(), seq, string(ev.Type), ev.CandidateID.String(), payload)
		if err != nil {
			return errors.WithCode(errors.CodeDatabaseError, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}
	return nil
}

// ListEvents returns a run's decision trace in emission order
func (r *TraceRepositoryImpl) ListEvents(ctx context.Context, runID core.RunID) ([]ports.DecisionEvent, error) {
	var rows []struct {
		Payload []byte `db:"payload"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT payload FROM trace_events
		WHERE run_id = $1
		ORDER BY seq
	`, runID.String())
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	out := make([]ports.DecisionEvent, 0, len(rows))
	for _, row := range rows {
		var ev ports.DecisionEvent
		if err := json.Unmarshal(row.Payload, &ev); err != nil {
			return nil, errors.Wrapf(err, "decode trace event for run %s", runID)
		}
		out = append(out, ev)
	}
	return out, nil
}
