package design

// RelationshipType tags a directed relationship between two components
type RelationshipType string

// Built-in relationship types the default generator draws from
const (
	RelConnectsTo RelationshipType = "connects_to"
	RelDependsOn  RelationshipType = "depends_on"
	RelControls   RelationshipType = "controls"
	RelMonitors   RelationshipType = "monitors"
)

// DefaultRelationshipTypes returns the generator's built-in type pool
func DefaultRelationshipTypes() []RelationshipType {
	return []RelationshipType{RelConnectsTo, RelDependsOn, RelControls, RelMonitors}
}

// Relationship is a directed edge between two components of the same
// structure. Self-relationships are permitted unless a constraint forbids them.
type Relationship struct {
	ID         string                 `json:"id"`
	SourceID   string                 `json:"source_id"`
	TargetID   string                 `json:"target_id"`
	Type       RelationshipType       `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// NewRelationship creates a relationship with a copied property map
func NewRelationship(id, sourceID, targetID string, relType RelationshipType, properties map[string]interface{}) Relationship {
	return Relationship{
		ID:         id,
		SourceID:   sourceID,
		TargetID:   targetID,
		Type:       relType,
		Properties: copyProperties(properties),
	}
}

// Touches reports whether the relationship has componentID as an endpoint
func (r Relationship) Touches(componentID string) bool {
	return r.SourceID == componentID || r.TargetID == componentID
}
