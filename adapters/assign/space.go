package assign

import (
	"godesign/domain/design"
)

// Space estimates how large a structure's assignment space is. Surfaced
// through introspection and used to judge whether systematic enumeration is
// feasible.
type Space struct {
	Variables    int     `json:"variables"`
	Bounded      bool    `json:"bounded"`
	Combinations float64 `json:"combinations"` // meaningful only when bounded
}

// EstimateSpace multiplies domain sizes across every declared slot.
// Continuous or unbounded domains make the space unbounded.
func EstimateSpace(s *design.Structure) (Space, error) {
	va, err := declareSlots(s)
	if err != nil {
		return Space{}, err
	}
	space := Space{Bounded: true, Combinations: 1}
	for _, name := range va.VariableNames() {
		space.Variables++
		size := va.Domains[name].Size()
		if size < 0 {
			space.Bounded = false
			continue
		}
		space.Combinations *= float64(size)
	}
	if !space.Bounded {
		space.Combinations = 0
	}
	return space, nil
}
