package ports

import (
	"godesign/domain/constraint"
	"godesign/domain/design"
)

// EvaluatorPort checks a fully formed candidate against a constraint set.
// Every constraint is evaluated independently; one constraint's violation
// never short-circuits another's evaluation. A returned error means the
// evaluation contract itself failed and is fatal to the run.
type EvaluatorPort interface {
	Evaluate(candidate *design.DesignObject, set *constraint.Set) (constraint.Result, error)
}
