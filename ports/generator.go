package ports

import (
	"godesign/domain/constraint"
	"godesign/domain/design"
)

// GeneratorPort produces and mutates structural configurations.
// Constraints passed to Generate are advisory hints; validity is always
// re-checked by the evaluator.
type GeneratorPort interface {
	// Generate produces a plausible structure under the given structural
	// constraints. Failure to produce one returns a structure generation error.
	Generate(constraints []constraint.Constraint) (*design.Structure, error)

	// Modify applies one incremental edit and returns a new structure.
	// The input is never mutated.
	Modify(s *design.Structure, m design.Modification) (*design.Structure, error)

	// Variants returns up to n structurally distinct alternatives; no two
	// returned variants share the same diff against the base.
	Variants(s *design.Structure, n int) ([]*design.Structure, error)
}
