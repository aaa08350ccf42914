// Package postgres persists run results: solutions and decision traces.
// Persistence is optional; the engine never depends on it.
package postgres

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"godesign/domain/core"
	"godesign/domain/design"
	"godesign/internal/errors"
	"godesign/ports"
)

// SolutionRepositoryImpl implements SolutionRepository for PostgreSQL
type SolutionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSolutionRepository creates a new PostgreSQL solution repository
func NewSolutionRepository(db *sqlx.DB) ports.SolutionRepository {
	return &SolutionRepositoryImpl{db: db}
}

// SaveSolution stores one valid design object under its run
func (r *SolutionRepositoryImpl) SaveSolution(ctx context.Context, runID core.RunID, solution *design.DesignObject) error {
	payload, err := json.Marshal(solution)
	if err != nil {
		return errors.Wrapf(err, "encode solution %s", solution.ID)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO solutions (run_id, design_id, payload, created_at)
		VALUES ($1, $2, $3, NOW())
	`, runID.String(), solution.ID.String(), payload)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}
	return nil
}

// ListSolutions returns a run's solutions in insertion order
func (r *SolutionRepositoryImpl) ListSolutions(ctx context.Context, runID core.RunID) ([]*design.DesignObject, error) {
	var rows []struct {
		Payload []byte `db:"payload"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT payload FROM solutions
		WHERE run_id = $1
		ORDER BY created_at, design_id
	`, runID.String())
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	out := make([]*design.DesignObject, 0, len(rows))
	for _, row := range rows {
		var obj design.DesignObject
		if err := json.Unmarshal(row.Payload, &obj); err != nil {
			return nil, errors.Wrapf(err, "decode solution for run %s", runID)
		}
		out = append(out, &obj)
	}
	return out, nil
}
