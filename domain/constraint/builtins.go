package constraint

import (
	"fmt"
	"sort"

	"godesign/domain/core"
	"godesign/domain/design"
)

type base struct {
	id          core.ConstraintID
	kind        Kind
	description string
}

func (b base) ID() core.ConstraintID { return b.id }
func (b base) Kind() Kind            { return b.kind }
func (b base) Description() string   { return b.description }

// MinComponents requires at least n components in the structure
type MinComponents struct {
	base
	Min int
}

// NewMinComponents creates a minimum component count constraint
func NewMinComponents(id string, min int) *MinComponents {
	return &MinComponents{
		base: base{
			id:          core.ConstraintID(id),
			kind:        KindStructural,
			description: fmt.Sprintf("structure must contain at least %d components", min),
		},
		Min: min,
	}
}

func (c *MinComponents) Evaluate(candidate *design.DesignObject) ([]Violation, error) {
	if candidate.Structure == nil {
		return missingStructure(c.id, candidate), nil
	}
	if n := candidate.Structure.ComponentCount(); n < c.Min {
		return []Violation{{
			ConstraintID: c.id,
			Severity:     SeverityError,
			Message:      fmt.Sprintf("design %s has %d components, minimum is %d", candidate.ID, n, c.Min),
			OffendingIDs: []string{candidate.ID.String()},
		}}, nil
	}
	return nil, nil
}

// MaxComponents requires at most n components in the structure
type MaxComponents struct {
	base
	Max int
}

// NewMaxComponents creates a maximum component count constraint
func NewMaxComponents(id string, max int) *MaxComponents {
	return &MaxComponents{
		base: base{
			id:          core.ConstraintID(id),
			kind:        KindStructural,
			description: fmt.Sprintf("structure must contain at most %d components", max),
		},
		Max: max,
	}
}

func (c *MaxComponents) Evaluate(candidate *design.DesignObject) ([]Violation, error) {
	if candidate.Structure == nil {
		return missingStructure(c.id, candidate), nil
	}
	if n := candidate.Structure.ComponentCount(); n > c.Max {
		extra := candidate.Structure.ComponentIDs()[c.Max:]
		return []Violation{{
			ConstraintID: c.id,
			Severity:     SeverityError,
			Message:      fmt.Sprintf("design %s has %d components, maximum is %d", candidate.ID, n, c.Max),
			OffendingIDs: extra,
		}}, nil
	}
	return nil, nil
}

// RequiredComponentTypes requires at least one component of each listed type
type RequiredComponentTypes struct {
	base
	Types []design.ComponentType
}

// NewRequiredComponentTypes creates a required-types constraint
func NewRequiredComponentTypes(id string, types ...design.ComponentType) *RequiredComponentTypes {
	return &RequiredComponentTypes{
		base: base{
			id:          core.ConstraintID(id),
			kind:        KindStructural,
			description: fmt.Sprintf("structure must contain component types %v", types),
		},
		Types: types,
	}
}

func (c *RequiredComponentTypes) Evaluate(candidate *design.DesignObject) ([]Violation, error) {
	if candidate.Structure == nil {
		return missingStructure(c.id, candidate), nil
	}
	var violations []Violation
	for _, t := range c.Types {
		if len(candidate.Structure.ComponentsOfType(t)) == 0 {
			violations = append(violations, Violation{
				ConstraintID: c.id,
				Severity:     SeverityError,
				Message:      fmt.Sprintf("design %s contains no component of required type %q", candidate.ID, t),
				OffendingIDs: []string{candidate.ID.String()},
			})
		}
	}
	return violations, nil
}

// ForbiddenComponentTypes rejects structures containing any listed type
type ForbiddenComponentTypes struct {
	base
	Types []design.ComponentType
}

// NewForbiddenComponentTypes creates a forbidden-types constraint
func NewForbiddenComponentTypes(id string, types ...design.ComponentType) *ForbiddenComponentTypes {
	return &ForbiddenComponentTypes{
		base: base{
			id:          core.ConstraintID(id),
			kind:        KindStructural,
			description: fmt.Sprintf("structure must not contain component types %v", types),
		},
		Types: types,
	}
}

func (c *ForbiddenComponentTypes) Evaluate(candidate *design.DesignObject) ([]Violation, error) {
	if candidate.Structure == nil {
		return missingStructure(c.id, candidate), nil
	}
	var violations []Violation
	for _, t := range c.Types {
		offenders := candidate.Structure.ComponentsOfType(t)
		if len(offenders) == 0 {
			continue
		}
		ids := make([]string, len(offenders))
		for i, comp := range offenders {
			ids[i] = comp.ID
		}
		violations = append(violations, Violation{
			ConstraintID: c.id,
			Severity:     SeverityError,
			Message:      fmt.Sprintf("components %v have forbidden type %q", ids, t),
			OffendingIDs: ids,
		})
	}
	return violations, nil
}

// MinRelationships requires at least n relationships in the structure
type MinRelationships struct {
	base
	Min int
}

// NewMinRelationships creates a minimum relationship count constraint
func NewMinRelationships(id string, min int) *MinRelationships {
	return &MinRelationships{
		base: base{
			id:          core.ConstraintID(id),
			kind:        KindStructural,
			description: fmt.Sprintf("structure must contain at least %d relationships", min),
		},
		Min: min,
	}
}

func (c *MinRelationships) Evaluate(candidate *design.DesignObject) ([]Violation, error) {
	if candidate.Structure == nil {
		return missingStructure(c.id, candidate), nil
	}
	if n := candidate.Structure.RelationshipCount(); n < c.Min {
		return []Violation{{
			ConstraintID: c.id,
			Severity:     SeverityError,
			Message:      fmt.Sprintf("design %s has %d relationships, minimum is %d", candidate.ID, n, c.Min),
			OffendingIDs: []string{candidate.ID.String()},
		}}, nil
	}
	return nil, nil
}

// VariableRange requires one variable's assigned value to fall in [Min, Max]
type VariableRange struct {
	base
	Variable string
	Min      float64
	Max      float64
}

// NewVariableRange creates a numeric range constraint on one variable
func NewVariableRange(id, variable string, min, max float64) *VariableRange {
	return &VariableRange{
		base: base{
			id:          core.ConstraintID(id),
			kind:        KindVariable,
			description: fmt.Sprintf("variable %s must be within [%v, %v]", variable, min, max),
		},
		Variable: variable,
		Min:      min,
		Max:      max,
	}
}

func (c *VariableRange) Evaluate(candidate *design.DesignObject) ([]Violation, error) {
	if candidate.Variables == nil {
		return []Violation{{
			ConstraintID: c.id,
			Severity:     SeverityError,
			Message:      fmt.Sprintf("design %s has no variable assignment, cannot check variable %s", candidate.ID, c.Variable),
			OffendingIDs: []string{candidate.ID.String()},
		}}, nil
	}
	value, ok := candidate.Variables.Value(c.Variable)
	if !ok {
		return []Violation{{
			ConstraintID: c.id,
			Severity:     SeverityError,
			Message:      fmt.Sprintf("variable %s is not assigned in design %s", c.Variable, candidate.ID),
			OffendingIDs: []string{c.Variable},
		}}, nil
	}
	f, numeric := toFloat(value)
	if !numeric {
		return []Violation{{
			ConstraintID: c.id,
			Severity:     SeverityError,
			Message:      fmt.Sprintf("variable %s has non-numeric value %v", c.Variable, value),
			OffendingIDs: []string{c.Variable},
		}}, nil
	}
	if f < c.Min || f > c.Max {
		return []Violation{{
			ConstraintID: c.id,
			Severity:     SeverityError,
			Message:      fmt.Sprintf("variable %s value %v is outside range [%v, %v]", c.Variable, value, c.Min, c.Max),
			OffendingIDs: []string{c.Variable},
		}}, nil
	}
	return nil, nil
}

// ComponentProperty requires every component of a type to carry a property
// with an expected value. A nil Expected only requires presence.
type ComponentProperty struct {
	base
	ComponentType design.ComponentType
	Property      string
	Expected      interface{}
}

// NewComponentProperty creates a per-component property constraint
func NewComponentProperty(id string, componentType design.ComponentType, property string, expected interface{}) *ComponentProperty {
	return &ComponentProperty{
		base: base{
			id:          core.ConstraintID(id),
			kind:        KindStructural,
			description: fmt.Sprintf("components of type %q must have property %q", componentType, property),
		},
		ComponentType: componentType,
		Property:      property,
		Expected:      expected,
	}
}

func (c *ComponentProperty) Evaluate(candidate *design.DesignObject) ([]Violation, error) {
	if candidate.Structure == nil {
		return missingStructure(c.id, candidate), nil
	}
	var violations []Violation
	for _, comp := range candidate.Structure.ComponentsOfType(c.ComponentType) {
		value, ok := comp.Property(c.Property)
		if !ok {
			violations = append(violations, Violation{
				ConstraintID: c.id,
				Severity:     SeverityError,
				Message:      fmt.Sprintf("component %s of type %q is missing property %q", comp.ID, c.ComponentType, c.Property),
				OffendingIDs: []string{comp.ID},
			})
			continue
		}
		if c.Expected != nil && fmt.Sprintf("%v", value) != fmt.Sprintf("%v", c.Expected) {
			violations = append(violations, Violation{
				ConstraintID: c.id,
				Severity:     SeverityError,
				Message:      fmt.Sprintf("component %s property %q is %v, expected %v", comp.ID, c.Property, value, c.Expected),
				OffendingIDs: []string{comp.ID},
			})
		}
	}
	return violations, nil
}

// RelationshipPattern requires (or forbids) a relationship of a given type
// between components of given types. Empty source/target types match any.
type RelationshipPattern struct {
	base
	RelType    design.RelationshipType
	SourceType design.ComponentType
	TargetType design.ComponentType
	Forbidden  bool
}

// NewRelationshipPattern creates a required relationship pattern constraint
func NewRelationshipPattern(id string, relType design.RelationshipType, sourceType, targetType design.ComponentType) *RelationshipPattern {
	return &RelationshipPattern{
		base: base{
			id:          core.ConstraintID(id),
			kind:        KindStructural,
			description: fmt.Sprintf("structure must contain a %q relationship from %q to %q", relType, sourceType, targetType),
		},
		RelType:    relType,
		SourceType: sourceType,
		TargetType: targetType,
	}
}

// NewForbiddenRelationshipPattern creates a forbidden relationship pattern constraint
func NewForbiddenRelationshipPattern(id string, relType design.RelationshipType, sourceType, targetType design.ComponentType) *RelationshipPattern {
	c := NewRelationshipPattern(id, relType, sourceType, targetType)
	c.Forbidden = true
	c.description = fmt.Sprintf("structure must not contain a %q relationship from %q to %q", relType, sourceType, targetType)
	return c
}

func (c *RelationshipPattern) Evaluate(candidate *design.DesignObject) ([]Violation, error) {
	if candidate.Structure == nil {
		return missingStructure(c.id, candidate), nil
	}
	var matches []string
	for _, id := range candidate.Structure.RelationshipIDs() {
		rel := candidate.Structure.Relationships[id]
		if rel.Type != c.RelType {
			continue
		}
		if c.SourceType != "" {
			src, ok := candidate.Structure.Component(rel.SourceID)
			if !ok || src.Type != c.SourceType {
				continue
			}
		}
		if c.TargetType != "" {
			tgt, ok := candidate.Structure.Component(rel.TargetID)
			if !ok || tgt.Type != c.TargetType {
				continue
			}
		}
		matches = append(matches, rel.ID)
	}
	if c.Forbidden && len(matches) > 0 {
		return []Violation{{
			ConstraintID: c.id,
			Severity:     SeverityError,
			Message:      fmt.Sprintf("relationships %v match forbidden pattern %q (%q -> %q)", matches, c.RelType, c.SourceType, c.TargetType),
			OffendingIDs: matches,
		}}, nil
	}
	if !c.Forbidden && len(matches) == 0 {
		return []Violation{{
			ConstraintID: c.id,
			Severity:     SeverityError,
			Message:      fmt.Sprintf("design %s has no %q relationship matching pattern %q -> %q", candidate.ID, c.RelType, c.SourceType, c.TargetType),
			OffendingIDs: []string{candidate.ID.String()},
		}}, nil
	}
	return nil, nil
}

// Connectivity requires the structure to be weakly connected: every component
// reachable from every other over the undirected projection of relationships
type Connectivity struct {
	base
}

// NewConnectivity creates a weak connectivity constraint
func NewConnectivity(id string) *Connectivity {
	return &Connectivity{
		base: base{
			id:          core.ConstraintID(id),
			kind:        KindStructural,
			description: "structure must be weakly connected",
		},
	}
}

func (c *Connectivity) Evaluate(candidate *design.DesignObject) ([]Violation, error) {
	if candidate.Structure == nil {
		return missingStructure(c.id, candidate), nil
	}
	s := candidate.Structure
	ids := s.ComponentIDs()
	if len(ids) <= 1 {
		return nil, nil
	}
	adjacent := make(map[string][]string)
	for _, rel := range s.Relationships {
		adjacent[rel.SourceID] = append(adjacent[rel.SourceID], rel.TargetID)
		adjacent[rel.TargetID] = append(adjacent[rel.TargetID], rel.SourceID)
	}
	visited := map[string]bool{ids[0]: true}
	queue := []string{ids[0]}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adjacent[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	var unreachable []string
	for _, id := range ids {
		if !visited[id] {
			unreachable = append(unreachable, id)
		}
	}
	if len(unreachable) > 0 {
		sort.Strings(unreachable)
		return []Violation{{
			ConstraintID: c.id,
			Severity:     SeverityError,
			Message:      fmt.Sprintf("components %v are unreachable from component %s", unreachable, ids[0]),
			OffendingIDs: unreachable,
		}}, nil
	}
	return nil, nil
}

// Custom wraps an externally supplied evaluation function behind the
// Constraint contract
type Custom struct {
	base
	Fn func(candidate *design.DesignObject) ([]Violation, error)
}

// NewCustom creates a custom constraint from an evaluation function
func NewCustom(id string, kind Kind, description string, fn func(candidate *design.DesignObject) ([]Violation, error)) *Custom {
	return &Custom{
		base: base{id: core.ConstraintID(id), kind: kind, description: description},
		Fn:   fn,
	}
}

func (c *Custom) Evaluate(candidate *design.DesignObject) ([]Violation, error) {
	if c.Fn == nil {
		return nil, fmt.Errorf("custom constraint %s has no evaluation function", c.id)
	}
	return c.Fn(candidate)
}

func missingStructure(id core.ConstraintID, candidate *design.DesignObject) []Violation {
	return []Violation{{
		ConstraintID: id,
		Severity:     SeverityError,
		Message:      fmt.Sprintf("design %s has no structure", candidate.ID),
		OffendingIDs: []string{candidate.ID.String()},
	}}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
