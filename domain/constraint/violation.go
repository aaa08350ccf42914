package constraint

import (
	"godesign/domain/core"
)

// Severity ranks how serious a violation is. Only error and above make a
// candidate invalid.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityInfo:     0,
	SeverityWarning:  1,
	SeverityError:    2,
	SeverityCritical: 3,
}

// AtLeast reports whether s ranks at or above other
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// Violation is a structured report that one constraint was not satisfied.
// Message must name the offending entity and the concrete reason.
type Violation struct {
	ConstraintID core.ConstraintID `json:"constraint_id"`
	Severity     Severity          `json:"severity"`
	Message      string            `json:"message"`
	OffendingIDs []string          `json:"offending_ids,omitempty"`
}
