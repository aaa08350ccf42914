package ports

import (
	"godesign/domain/design"
)

// AssignmentStrategy selects how the assigner picks values within a domain
type AssignmentStrategy string

const (
	AssignRandom     AssignmentStrategy = "random"     // uniform over the domain
	AssignSystematic AssignmentStrategy = "systematic" // deterministic enumeration order
	AssignHeuristic  AssignmentStrategy = "heuristic"  // pluggable scoring
)

// AssignerPort fills a structure's variable slots, respecting domains and
// dependencies. Variables are assigned in topological dependency order with
// domains narrowed by already-assigned dependency values before sampling.
type AssignerPort interface {
	// Assign walks the structure's variable declarations and assigns a value
	// to each. A dependency cycle is a fatal variable assignment error.
	Assign(s *design.Structure, strategy AssignmentStrategy) (*design.VariableAssignment, error)

	// Modify changes one variable and flags every transitively dependent
	// variable whose value no longer satisfies its narrowed domain.
	// Flagged variables are not re-sampled; re-sampling is a caller decision.
	Modify(va *design.VariableAssignment, variable string, value interface{}) (*design.VariableAssignment, error)

	// IsConsistent reports whether every assigned variable's dependencies
	// are assigned and compatible.
	IsConsistent(va *design.VariableAssignment) bool
}
