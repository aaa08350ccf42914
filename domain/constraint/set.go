package constraint

import (
	"fmt"

	"godesign/domain/core"
)

// Set is the active collection of constraints a run evaluates against.
// Constraint ids are unique within a set.
type Set struct {
	Name        string
	constraints []Constraint
	byID        map[core.ConstraintID]Constraint
}

// NewSet creates an empty named constraint set
func NewSet(name string) *Set {
	return &Set{
		Name: name,
		byID: make(map[core.ConstraintID]Constraint),
	}
}

// Add appends a constraint; duplicate ids are rejected
func (s *Set) Add(c Constraint) error {
	if c == nil {
		return fmt.Errorf("constraint cannot be nil")
	}
	if c.ID() == "" {
		return fmt.Errorf("constraint id cannot be empty")
	}
	if _, exists := s.byID[c.ID()]; exists {
		return fmt.Errorf("constraint %s already present in set %s", c.ID(), s.Name)
	}
	s.constraints = append(s.constraints, c)
	s.byID[c.ID()] = c
	return nil
}

// Get returns the constraint with the given id
func (s *Set) Get(id core.ConstraintID) (Constraint, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// All returns the constraints in insertion order
func (s *Set) All() []Constraint {
	out := make([]Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// OfKind returns the constraints matching a kind, in insertion order
func (s *Set) OfKind(kind Kind) []Constraint {
	var out []Constraint
	for _, c := range s.constraints {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of constraints
func (s *Set) Len() int {
	return len(s.constraints)
}

// IDs returns constraint ids in insertion order
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.constraints))
	for _, c := range s.constraints {
		out = append(out, c.ID().String())
	}
	return out
}
