// Package assign provides the default variable assigner: dependency-aware
// assignment over a structure's declared variable slots, with domain
// narrowing applied before sampling.
package assign

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"godesign/domain/core"
	"godesign/domain/design"
	"godesign/ports"
)

// Assigner fills variable slots in topological dependency order. A cycle in
// the dependency relation means the structure cannot be assigned at all, not
// merely that one candidate is invalid.
type Assigner struct {
	rng *rand.Rand
}

// New creates an assigner with a seeded value stream
func New(seed int64) *Assigner {
	return &Assigner{rng: ports.HashedStream("assigner", seed)}
}

// Metadata implements the plugin registration contract
func (a *Assigner) Metadata() ports.PluginMetadata {
	return ports.PluginMetadata{
		Name:        "dependency_assigner",
		Version:     "1.0.0",
		Description: "topological variable assigner with pre-sampling domain narrowing",
		Role:        ports.RoleVariableAssigner,
	}
}

// ValidateDependencies reports unmet plugin dependencies; the default
// assigner has none
func (a *Assigner) ValidateDependencies(available []string) error {
	return nil
}

// Assign walks the structure's variable declarations and assigns every slot
func (a *Assigner) Assign(s *design.Structure, strategy ports.AssignmentStrategy) (*design.VariableAssignment, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: structure is nil", core.ErrVariableAssignment)
	}
	va, err := declareSlots(s)
	if err != nil {
		return nil, core.VariableAssignmentError("<declaration>", err)
	}

	order, err := topologicalOrder(va)
	if err != nil {
		return nil, err
	}

	for _, variable := range order {
		domain := va.Domains[variable]
		// narrow the domain by every already-assigned dependency before
		// sampling; sample-then-reject is not equivalent for continuous
		// domains and breaks reproducibility
		for _, dep := range va.Dependencies[variable] {
			onValue, ok := va.Assignments[dep.On]
			if !ok {
				return nil, core.VariableAssignmentError(variable,
					fmt.Errorf("dependency %s is unassigned despite topological ordering", dep.On))
			}
			domain, err = dep.Narrow(domain, onValue)
			if err != nil {
				return nil, core.VariableAssignmentError(variable, err)
			}
			if dep.Kind == design.KindCustom && len(domain.Values) > 0 {
				domain = filterByCheck(domain, dep, onValue)
			}
		}
		value, err := a.sample(domain, strategy)
		if err != nil {
			return nil, core.VariableAssignmentError(variable, err)
		}
		for _, dep := range va.Dependencies[variable] {
			if !dep.Compatible(value, va.Assignments[dep.On]) {
				return nil, core.VariableAssignmentError(variable,
					fmt.Errorf("sampled value %v is incompatible with %s dependency on %s", value, dep.Kind, dep.On))
			}
		}
		if err := va.Assign(variable, value); err != nil {
			return nil, core.VariableAssignmentError(variable, err)
		}
	}
	return va, nil
}

// Modify changes one variable and cascades: every transitive dependent whose
// value no longer satisfies its dependencies is flagged, never re-sampled
func (a *Assigner) Modify(va *design.VariableAssignment, variable string, value interface{}) (*design.VariableAssignment, error) {
	if va == nil {
		return nil, fmt.Errorf("%w: assignment is nil", core.ErrVariableAssignment)
	}
	out := va.Clone()
	if err := out.Assign(variable, value); err != nil {
		return nil, core.VariableAssignmentError(variable, err)
	}

	queue := out.Dependents(variable)
	visited := map[string]bool{variable: true}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true
		current, assigned := out.Value(name)
		if assigned {
			for _, dep := range out.Dependencies[name] {
				onValue, ok := out.Value(dep.On)
				if !ok {
					continue
				}
				if !dep.Compatible(current, onValue) {
					out.Flag(name, fmt.Sprintf("value %v violates %s dependency on %s after %s changed",
						current, dep.Kind, dep.On, variable))
					break
				}
			}
		}
		queue = append(queue, out.Dependents(name)...)
	}
	return out, nil
}

// IsConsistent reports the assignment-level consistency invariant
func (a *Assigner) IsConsistent(va *design.VariableAssignment) bool {
	return va != nil && va.IsConsistent()
}

// declareSlots builds the assignment skeleton from component slot
// declarations, namespacing slot names by component id
func declareSlots(s *design.Structure) (*design.VariableAssignment, error) {
	va := design.NewVariableAssignment()
	for _, id := range s.ComponentIDs() {
		comp, _ := s.Component(id)
		slots, err := design.ComponentSlots(comp)
		if err != nil {
			return nil, err
		}
		for _, slot := range slots {
			d := slot.Domain
			d.Name = design.QualifiedSlotName(id, slot.Domain.Name)
			if err := va.DeclareDomain(d); err != nil {
				return nil, err
			}
		}
		for _, slot := range slots {
			name := design.QualifiedSlotName(id, slot.Domain.Name)
			for _, dep := range slot.DependsOn {
				on := design.QualifiedSlotName(id, dep.On)
				if err := va.DeclareDependency(name, design.Dependency{On: on, Kind: dep.Kind}); err != nil {
					return nil, err
				}
			}
		}
	}
	return va, nil
}

// topologicalOrder is Kahn's algorithm over the dependency relation. Ties are
// broken alphabetically for deterministic enumeration. A cycle is fatal.
func topologicalOrder(va *design.VariableAssignment) ([]string, error) {
	indegree := make(map[string]int)
	dependents := make(map[string][]string)
	for _, name := range va.VariableNames() {
		indegree[name] = len(va.Dependencies[name])
		for _, dep := range va.Dependencies[name] {
			dependents[dep.On] = append(dependents[dep.On], name)
		}
	}

	var ready []string
	for name, n := range indegree {
		if n == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		var unlocked []string
		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				unlocked = append(unlocked, dependent)
			}
		}
		sort.Strings(unlocked)
		ready = append(ready, unlocked...)
	}

	if len(order) != len(indegree) {
		var cyclic []string
		for name, n := range indegree {
			if n > 0 {
				cyclic = append(cyclic, name)
			}
		}
		sort.Strings(cyclic)
		return nil, core.DependencyCycleError(cyclic)
	}
	return order, nil
}

// sample draws one value from a (possibly narrowed) domain
func (a *Assigner) sample(d design.Domain, strategy ports.AssignmentStrategy) (interface{}, error) {
	switch d.Type {
	case design.DomainEnum, design.DomainString:
		if len(d.Values) == 0 {
			return nil, fmt.Errorf("%w: no admissible values remain", core.ErrDomainExhausted)
		}
		switch strategy {
		case ports.AssignSystematic:
			return d.Values[0], nil
		case ports.AssignHeuristic:
			return d.Values[len(d.Values)/2], nil
		default:
			return d.Values[a.rng.Intn(len(d.Values))], nil
		}
	case design.DomainBool:
		switch strategy {
		case ports.AssignSystematic:
			return false, nil
		case ports.AssignHeuristic:
			return true, nil
		default:
			return a.rng.Intn(2) == 1, nil
		}
	case design.DomainInt:
		lo, hi, err := bounds(d)
		if err != nil {
			return nil, err
		}
		loInt, hiInt := int(math.Ceil(lo)), int(math.Floor(hi))
		if loInt > hiInt {
			return nil, fmt.Errorf("%w: integer range [%v, %v] is empty", core.ErrDomainExhausted, lo, hi)
		}
		switch strategy {
		case ports.AssignSystematic:
			return loInt, nil
		case ports.AssignHeuristic:
			return loInt + (hiInt-loInt)/2, nil
		default:
			return loInt + a.rng.Intn(hiInt-loInt+1), nil
		}
	case design.DomainFloat:
		lo, hi, err := bounds(d)
		if err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, fmt.Errorf("%w: float range [%v, %v] is empty", core.ErrDomainExhausted, lo, hi)
		}
		switch strategy {
		case ports.AssignSystematic:
			return lo, nil
		case ports.AssignHeuristic:
			return lo + (hi-lo)/2, nil
		default:
			return lo + a.rng.Float64()*(hi-lo), nil
		}
	}
	return nil, fmt.Errorf("unknown domain type %q", d.Type)
}

func bounds(d design.Domain) (float64, float64, error) {
	if d.Min == nil || d.Max == nil {
		return 0, 0, fmt.Errorf("numeric domain %s has no bounds to sample from", d.Name)
	}
	return *d.Min, *d.Max, nil
}

// filterByCheck keeps only enumerated values passing a custom dependency check
func filterByCheck(d design.Domain, dep design.Dependency, onValue interface{}) design.Domain {
	var kept []interface{}
	for _, v := range d.Values {
		if dep.Compatible(v, onValue) {
			kept = append(kept, v)
		}
	}
	d.Values = kept
	return d
}
