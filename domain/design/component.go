package design

// ComponentType tags a component with its structural role
type ComponentType string

// Built-in component types the default generator draws from
const (
	TypeProcessor ComponentType = "processor"
	TypeMemory    ComponentType = "memory"
	TypeStorage   ComponentType = "storage"
	TypeNetwork   ComponentType = "network"
	TypeSensor    ComponentType = "sensor"
	TypeActuator  ComponentType = "actuator"
)

// DefaultComponentTypes returns the generator's built-in type pool
func DefaultComponentTypes() []ComponentType {
	return []ComponentType{
		TypeProcessor, TypeMemory, TypeStorage,
		TypeNetwork, TypeSensor, TypeActuator,
	}
}

// Component is one structural element of a candidate design.
// Immutable once placed; edits go through Structure modification operations.
type Component struct {
	ID         string                 `json:"id"`
	Type       ComponentType          `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// NewComponent creates a component with a copied property map
func NewComponent(id string, componentType ComponentType, properties map[string]interface{}) Component {
	return Component{
		ID:         id,
		Type:       componentType,
		Properties: copyProperties(properties),
	}
}

// Property returns a property value and whether it exists
func (c Component) Property(key string) (interface{}, bool) {
	v, ok := c.Properties[key]
	return v, ok
}

// WithProperties returns a copy with the given properties merged in
func (c Component) WithProperties(updates map[string]interface{}) Component {
	merged := copyProperties(c.Properties)
	if merged == nil {
		merged = make(map[string]interface{}, len(updates))
	}
	for k, v := range updates {
		merged[k] = v
	}
	c.Properties = merged
	return c
}

// WithType returns a copy retyped to the given component type
func (c Component) WithType(componentType ComponentType) Component {
	c.Properties = copyProperties(c.Properties)
	c.Type = componentType
	return c
}

func copyProperties(properties map[string]interface{}) map[string]interface{} {
	if properties == nil {
		return nil
	}
	out := make(map[string]interface{}, len(properties))
	for k, v := range properties {
		out[k] = v
	}
	return out
}
