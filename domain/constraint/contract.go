package constraint

import (
	"godesign/domain/core"
	"godesign/domain/design"
)

// Kind classifies what part of a candidate a constraint inspects
type Kind string

const (
	KindStructural Kind = "structural"
	KindVariable   Kind = "variable"
	KindGlobal     Kind = "global"
)

// Constraint is the single capability every constraint variant implements.
// Evaluate returns the violations the candidate incurs; a non-nil error means
// the constraint itself could not be evaluated, which is fatal to the run.
type Constraint interface {
	ID() core.ConstraintID
	Kind() Kind
	Description() string
	Evaluate(candidate *design.DesignObject) ([]Violation, error)
}

// Result aggregates one candidate's evaluation across a constraint set
type Result struct {
	Violations []Violation `json:"violations"`
	IsValid    bool        `json:"is_valid"`
}

// NewResult derives validity from the violation list: valid iff no violation
// has severity at error or above
func NewResult(violations []Violation) Result {
	valid := true
	for _, v := range violations {
		if v.Severity.AtLeast(SeverityError) {
			valid = false
			break
		}
	}
	return Result{Violations: violations, IsValid: valid}
}

// ErrorCount returns the number of violations at error severity or above
func (r Result) ErrorCount() int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity.AtLeast(SeverityError) {
			n++
		}
	}
	return n
}
