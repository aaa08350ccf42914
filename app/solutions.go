package app

import (
	"sort"

	"github.com/montanaflynn/stats"

	"godesign/adapters/assign"
	"godesign/domain/core"
	"godesign/domain/design"
)

// Scorer ranks solutions; lower is better
type Scorer func(solution *design.DesignObject) float64

// DefaultScorer prefers smaller designs, counting relationships at half
// the weight of components
func DefaultScorer(solution *design.DesignObject) float64 {
	if solution.Structure == nil {
		return 0
	}
	return float64(solution.Structure.ComponentCount()) +
		0.5*float64(solution.Structure.RelationshipCount())
}

// BestSolutions returns a run's top n solutions by the given scorer. A nil
// scorer falls back to DefaultScorer; ties break on id for stable output.
func (s *ExplorationService) BestSolutions(runID core.RunID, n int, scorer Scorer) ([]*design.DesignObject, error) {
	rec, err := s.record(runID)
	if err != nil {
		return nil, err
	}
	if scorer == nil {
		scorer = DefaultScorer
	}
	ranked := make([]*design.DesignObject, len(rec.result.Solutions))
	copy(ranked, rec.result.Solutions)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := scorer(ranked[i]), scorer(ranked[j])
		if si != sj {
			return si < sj
		}
		return ranked[i].ID < ranked[j].ID
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// FilterSolutions returns the run's solutions that satisfy the predicate
func (s *ExplorationService) FilterSolutions(runID core.RunID, keep func(*design.DesignObject) bool) ([]*design.DesignObject, error) {
	rec, err := s.record(runID)
	if err != nil {
		return nil, err
	}
	out := make([]*design.DesignObject, 0, len(rec.result.Solutions))
	for _, sol := range rec.result.Solutions {
		if keep == nil || keep(sol) {
			out = append(out, sol)
		}
	}
	return out, nil
}

// SolutionStatistics aggregates structural measures over a run's solutions
type SolutionStatistics struct {
	Count             int     `json:"count"`
	MeanComponents    float64 `json:"mean_components"`
	MedianComponents  float64 `json:"median_components"`
	MeanRelationships float64 `json:"mean_relationships"`
	MeanVariables     float64 `json:"mean_variables"`
	// LargestSpace is the biggest bounded assignment space seen across
	// solutions; zero when every space was unbounded or no solutions exist
	LargestSpace   float64 `json:"largest_space"`
	UnboundedSpace bool    `json:"unbounded_space"`
}

// Statistics summarizes a run's solution set
func (s *ExplorationService) Statistics(runID core.RunID) (SolutionStatistics, error) {
	rec, err := s.record(runID)
	if err != nil {
		return SolutionStatistics{}, err
	}
	out := SolutionStatistics{Count: len(rec.result.Solutions)}
	if out.Count == 0 {
		return out, nil
	}

	components := make([]float64, 0, out.Count)
	relationships := make([]float64, 0, out.Count)
	variables := make([]float64, 0, out.Count)
	for _, sol := range rec.result.Solutions {
		if sol.Structure == nil {
			continue
		}
		components = append(components, float64(sol.Structure.ComponentCount()))
		relationships = append(relationships, float64(sol.Structure.RelationshipCount()))
		if sol.Variables != nil {
			variables = append(variables, float64(len(sol.Variables.VariableNames())))
		}
		space, err := assign.EstimateSpace(sol.Structure)
		if err != nil {
			continue
		}
		if !space.Bounded {
			out.UnboundedSpace = true
		} else if space.Combinations > out.LargestSpace {
			out.LargestSpace = space.Combinations
		}
	}

	out.MeanComponents, _ = stats.Mean(components)
	out.MedianComponents, _ = stats.Median(components)
	out.MeanRelationships, _ = stats.Mean(relationships)
	out.MeanVariables, _ = stats.Mean(variables)
	return out, nil
}
