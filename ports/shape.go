package ports

import (
	"godesign/domain/design"
)

// Shape is the externally supplied contract a raw design payload must satisfy
// before entering the engine. Zero values mean unconstrained.
type Shape struct {
	AllowedComponentTypes    []design.ComponentType    `json:"allowed_component_types,omitempty"`
	AllowedRelationshipTypes []design.RelationshipType `json:"allowed_relationship_types,omitempty"`
	MinComponents            int                       `json:"min_components,omitempty"`
	MaxComponents            int                       `json:"max_components,omitempty"`
	RequiredVariables        []design.Domain           `json:"required_variables,omitempty"`
}

// ShapeValidatorPort validates raw payloads at the engine boundary.
// The engine assumes any design object it receives already passed.
type ShapeValidatorPort interface {
	Validate(candidate *design.DesignObject) error
}
