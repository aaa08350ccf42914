package design

import "fmt"

// ModificationKind identifies one incremental structural edit
type ModificationKind string

const (
	ModAddComponent        ModificationKind = "add_component"
	ModRemoveComponent     ModificationKind = "remove_component"
	ModChangeComponentType ModificationKind = "change_component_type"
	ModSetProperties       ModificationKind = "set_properties"
	ModAddRelationship     ModificationKind = "add_relationship"
	ModRemoveRelationship  ModificationKind = "remove_relationship"
)

// Modification describes one edit to a structure. Only the fields relevant
// to its kind are populated.
type Modification struct {
	Kind           ModificationKind       `json:"kind"`
	Component      *Component             `json:"component,omitempty"`
	Relationship   *Relationship          `json:"relationship,omitempty"`
	TargetID       string                 `json:"target_id,omitempty"`
	NewType        ComponentType          `json:"new_type,omitempty"`
	Properties     map[string]interface{} `json:"properties,omitempty"`
}

// Diff returns a stable description of the edit, used by the variant
// diversity policy: no two variants of one base may share a Diff.
func (m Modification) Diff() string {
	switch m.Kind {
	case ModAddComponent:
		if m.Component != nil {
			return fmt.Sprintf("%s:%s:%s", m.Kind, m.Component.ID, m.Component.Type)
		}
	case ModRemoveComponent, ModRemoveRelationship:
		return fmt.Sprintf("%s:%s", m.Kind, m.TargetID)
	case ModChangeComponentType:
		return fmt.Sprintf("%s:%s:%s", m.Kind, m.TargetID, m.NewType)
	case ModSetProperties:
		return fmt.Sprintf("%s:%s", m.Kind, m.TargetID)
	case ModAddRelationship:
		if m.Relationship != nil {
			return fmt.Sprintf("%s:%s:%s:%s:%s", m.Kind, m.Relationship.ID,
				m.Relationship.SourceID, m.Relationship.TargetID, m.Relationship.Type)
		}
	}
	return string(m.Kind)
}

// Apply performs the edit against a clone of the structure. The input
// structure is never mutated.
func (m Modification) Apply(s *Structure) (*Structure, error) {
	out := s.Clone()
	switch m.Kind {
	case ModAddComponent:
		if m.Component == nil {
			return nil, fmt.Errorf("%s modification carries no component", m.Kind)
		}
		if err := out.AddComponent(*m.Component); err != nil {
			return nil, err
		}
	case ModRemoveComponent:
		if err := out.RemoveComponent(m.TargetID); err != nil {
			return nil, err
		}
	case ModChangeComponentType:
		c, ok := out.Component(m.TargetID)
		if !ok {
			return nil, fmt.Errorf("component %s not found for retype", m.TargetID)
		}
		if c.Type == m.NewType {
			return nil, fmt.Errorf("component %s already has type %s", m.TargetID, m.NewType)
		}
		if err := out.ReplaceComponent(c.WithType(m.NewType)); err != nil {
			return nil, err
		}
	case ModSetProperties:
		c, ok := out.Component(m.TargetID)
		if !ok {
			return nil, fmt.Errorf("component %s not found for property update", m.TargetID)
		}
		if err := out.ReplaceComponent(c.WithProperties(m.Properties)); err != nil {
			return nil, err
		}
	case ModAddRelationship:
		if m.Relationship == nil {
			return nil, fmt.Errorf("%s modification carries no relationship", m.Kind)
		}
		if err := out.AddRelationship(*m.Relationship); err != nil {
			return nil, err
		}
	case ModRemoveRelationship:
		if err := out.RemoveRelationship(m.TargetID); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown modification kind %q", m.Kind)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
