package engine

import (
	"fmt"

	"godesign/domain/core"
	"godesign/ports"
)

// Strategy selects the frontier ordering discipline
type Strategy string

const (
	StrategyBreadthFirst Strategy = "breadth_first"
	StrategyDepthFirst   Strategy = "depth_first"
	StrategyBestFirst    Strategy = "best_first"
	StrategyRandom       Strategy = "random"
)

// ParseStrategy validates a strategy name
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyBreadthFirst, StrategyDepthFirst, StrategyBestFirst, StrategyRandom:
		return Strategy(s), nil
	}
	return "", core.ConfigurationError("strategy", fmt.Errorf("unknown exploration strategy %q", s))
}

// ParseAssignmentStrategy validates an assignment strategy name
func ParseAssignmentStrategy(s string) (ports.AssignmentStrategy, error) {
	switch ports.AssignmentStrategy(s) {
	case ports.AssignRandom, ports.AssignSystematic, ports.AssignHeuristic:
		return ports.AssignmentStrategy(s), nil
	}
	return "", core.ConfigurationError("assignment_strategy", fmt.Errorf("unknown assignment strategy %q", s))
}

// Heuristic scores a candidate for best_first ordering; lower is better.
// Ties are broken by lower depth, then by fingerprint, inside the frontier.
type Heuristic func(c *Candidate) float64

// DefaultHeuristic prefers candidates with fewer error-severity violations
func DefaultHeuristic(c *Candidate) float64 {
	return float64(c.Violations)
}
