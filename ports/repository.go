package ports

import (
	"context"

	"godesign/domain/core"
	"godesign/domain/design"
)

// SolutionRepository persists the valid design objects a run produced
type SolutionRepository interface {
	SaveSolution(ctx context.Context, runID core.RunID, solution *design.DesignObject) error
	ListSolutions(ctx context.Context, runID core.RunID) ([]*design.DesignObject, error)
}

// TraceRepository persists a run's decision trace for later reconstruction
type TraceRepository interface {
	SaveEvents(ctx context.Context, runID core.RunID, events []DecisionEvent) error
	ListEvents(ctx context.Context, runID core.RunID) ([]DecisionEvent, error)
}
