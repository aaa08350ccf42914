// Package shape implements the structural validation boundary: raw design
// payloads must pass the externally supplied shape contract before they enter
// the engine, and the engine never re-derives shape rules itself.
package shape

import (
	"fmt"

	"godesign/domain/core"
	"godesign/domain/design"
	"godesign/ports"
)

// Validator checks design objects against one shape contract
type Validator struct {
	shape ports.Shape
}

// New creates a validator for the given shape
func New(shape ports.Shape) *Validator {
	return &Validator{shape: shape}
}

// Metadata implements the plugin registration contract
func (v *Validator) Metadata() ports.PluginMetadata {
	return ports.PluginMetadata{
		Name:        "shape_validator",
		Version:     "1.0.0",
		Description: "validates design payloads against the supplied shape contract",
		Role:        ports.RoleShapeValidator,
	}
}

// ValidateDependencies reports unmet plugin dependencies; none here
func (v *Validator) ValidateDependencies(available []string) error {
	return nil
}

// Validate rejects payloads whose structure or variables fall outside the
// shape contract. Every rejection names the offending entity.
func (v *Validator) Validate(candidate *design.DesignObject) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", core.ErrShapeValidation)
	}
	if candidate.Structure == nil {
		return fmt.Errorf("%w: design %s has no structure", core.ErrShapeValidation, candidate.ID)
	}
	s := candidate.Structure

	if v.shape.MinComponents > 0 && s.ComponentCount() < v.shape.MinComponents {
		return fmt.Errorf("%w: design %s has %d components, shape requires at least %d",
			core.ErrShapeValidation, candidate.ID, s.ComponentCount(), v.shape.MinComponents)
	}
	if v.shape.MaxComponents > 0 && s.ComponentCount() > v.shape.MaxComponents {
		return fmt.Errorf("%w: design %s has %d components, shape allows at most %d",
			core.ErrShapeValidation, candidate.ID, s.ComponentCount(), v.shape.MaxComponents)
	}

	if len(v.shape.AllowedComponentTypes) > 0 {
		allowed := make(map[design.ComponentType]bool, len(v.shape.AllowedComponentTypes))
		for _, t := range v.shape.AllowedComponentTypes {
			allowed[t] = true
		}
		for _, id := range s.ComponentIDs() {
			c := s.Components[id]
			if !allowed[c.Type] {
				return fmt.Errorf("%w: component %s has type %q, which the shape does not allow",
					core.ErrShapeValidation, c.ID, c.Type)
			}
		}
	}

	if len(v.shape.AllowedRelationshipTypes) > 0 {
		allowed := make(map[design.RelationshipType]bool, len(v.shape.AllowedRelationshipTypes))
		for _, t := range v.shape.AllowedRelationshipTypes {
			allowed[t] = true
		}
		for _, id := range s.RelationshipIDs() {
			r := s.Relationships[id]
			if !allowed[r.Type] {
				return fmt.Errorf("%w: relationship %s has type %q, which the shape does not allow",
					core.ErrShapeValidation, r.ID, r.Type)
			}
		}
	}

	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrShapeValidation, err)
	}

	for _, required := range v.shape.RequiredVariables {
		if candidate.Variables == nil {
			return fmt.Errorf("%w: design %s declares no variables, shape requires %s",
				core.ErrShapeValidation, candidate.ID, required.Name)
		}
		value, ok := candidate.Variables.Value(required.Name)
		if !ok {
			return fmt.Errorf("%w: design %s is missing required variable %s",
				core.ErrShapeValidation, candidate.ID, required.Name)
		}
		if !required.Contains(value) {
			return fmt.Errorf("%w: variable %s value %v is outside the shape's declared domain",
				core.ErrShapeValidation, required.Name, value)
		}
	}
	return nil
}
