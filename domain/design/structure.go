package design

import (
	"fmt"
	"reflect"
	"sort"

	"godesign/domain/core"
)

// Structure is a set of components plus the directed relationships between
// them. Invariant: every relationship endpoint resolves to a component in the
// same structure once a generation or modification step completes.
type Structure struct {
	Components     map[string]Component    `json:"components"`
	Relationships  map[string]Relationship `json:"relationships"`
	GeneratedUnder []string                `json:"generated_under,omitempty"`
}

// NewStructure creates an empty structure recording the constraint ids it
// was generated under
func NewStructure(generatedUnder []string) *Structure {
	under := make([]string, len(generatedUnder))
	copy(under, generatedUnder)
	return &Structure{
		Components:     make(map[string]Component),
		Relationships:  make(map[string]Relationship),
		GeneratedUnder: under,
	}
}

// AddComponent places a component; component ids are unique within a structure
func (s *Structure) AddComponent(c Component) error {
	if c.ID == "" {
		return fmt.Errorf("component id cannot be empty")
	}
	if _, exists := s.Components[c.ID]; exists {
		return fmt.Errorf("component %s already exists in structure", c.ID)
	}
	s.Components[c.ID] = c
	return nil
}

// RemoveComponent removes a component and every relationship touching it
func (s *Structure) RemoveComponent(componentID string) error {
	if _, exists := s.Components[componentID]; !exists {
		return fmt.Errorf("component %s: %w", componentID, core.ErrNotFound)
	}
	delete(s.Components, componentID)
	for id, rel := range s.Relationships {
		if rel.Touches(componentID) {
			delete(s.Relationships, id)
		}
	}
	return nil
}

// ReplaceComponent swaps an existing component with a modified copy of itself
func (s *Structure) ReplaceComponent(c Component) error {
	if _, exists := s.Components[c.ID]; !exists {
		return fmt.Errorf("component %s: %w", c.ID, core.ErrNotFound)
	}
	s.Components[c.ID] = c
	return nil
}

// AddRelationship places a relationship; both endpoints must already exist
func (s *Structure) AddRelationship(r Relationship) error {
	if r.ID == "" {
		return fmt.Errorf("relationship id cannot be empty")
	}
	if _, exists := s.Relationships[r.ID]; exists {
		return fmt.Errorf("relationship %s already exists in structure", r.ID)
	}
	if _, ok := s.Components[r.SourceID]; !ok {
		return fmt.Errorf("relationship %s: source component %s: %w", r.ID, r.SourceID, core.ErrNotFound)
	}
	if _, ok := s.Components[r.TargetID]; !ok {
		return fmt.Errorf("relationship %s: target component %s: %w", r.ID, r.TargetID, core.ErrNotFound)
	}
	s.Relationships[r.ID] = r
	return nil
}

// RemoveRelationship removes a relationship by id
func (s *Structure) RemoveRelationship(relationshipID string) error {
	if _, exists := s.Relationships[relationshipID]; !exists {
		return fmt.Errorf("relationship %s: %w", relationshipID, core.ErrNotFound)
	}
	delete(s.Relationships, relationshipID)
	return nil
}

// Component returns the component with the given id
func (s *Structure) Component(id string) (Component, bool) {
	c, ok := s.Components[id]
	return c, ok
}

// ComponentCount returns the number of components
func (s *Structure) ComponentCount() int {
	return len(s.Components)
}

// RelationshipCount returns the number of relationships
func (s *Structure) RelationshipCount() int {
	return len(s.Relationships)
}

// ComponentsOfType returns components matching the given type
func (s *Structure) ComponentsOfType(componentType ComponentType) []Component {
	var out []Component
	for _, id := range s.ComponentIDs() {
		if c := s.Components[id]; c.Type == componentType {
			out = append(out, c)
		}
	}
	return out
}

// ComponentIDs returns component ids in sorted order
func (s *Structure) ComponentIDs() []string {
	ids := make([]string, 0, len(s.Components))
	for id := range s.Components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RelationshipIDs returns relationship ids in sorted order
func (s *Structure) RelationshipIDs() []string {
	ids := make([]string, 0, len(s.Relationships))
	for id := range s.Relationships {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks the endpoint-resolution invariant
func (s *Structure) Validate() error {
	for id, rel := range s.Relationships {
		if _, ok := s.Components[rel.SourceID]; !ok {
			return fmt.Errorf("relationship %s references missing source component %s", id, rel.SourceID)
		}
		if _, ok := s.Components[rel.TargetID]; !ok {
			return fmt.Errorf("relationship %s references missing target component %s", id, rel.TargetID)
		}
	}
	return nil
}

// Clone returns a deep copy; modification operations never mutate their input
func (s *Structure) Clone() *Structure {
	out := NewStructure(s.GeneratedUnder)
	for id, c := range s.Components {
		c.Properties = copyProperties(c.Properties)
		out.Components[id] = c
	}
	for id, r := range s.Relationships {
		r.Properties = copyProperties(r.Properties)
		out.Relationships[id] = r
	}
	return out
}

// Equal reports structural equality: same component set and relationship set
func (s *Structure) Equal(other *Structure) bool {
	if s == nil || other == nil {
		return s == other
	}
	return reflect.DeepEqual(s.Components, other.Components) &&
		reflect.DeepEqual(s.Relationships, other.Relationships)
}

// FingerprintTokens returns one canonical token per component and
// relationship, independent of insertion order
func (s *Structure) FingerprintTokens() []string {
	tokens := make([]string, 0, len(s.Components)+len(s.Relationships))
	for _, id := range s.ComponentIDs() {
		c := s.Components[id]
		tokens = append(tokens, fmt.Sprintf("c:%s:%s:%s", c.ID, c.Type, core.ComputeMapHash(c.Properties)))
	}
	for _, id := range s.RelationshipIDs() {
		r := s.Relationships[id]
		tokens = append(tokens, fmt.Sprintf("r:%s:%s:%s:%s:%s", r.ID, r.SourceID, r.TargetID, r.Type, core.ComputeMapHash(r.Properties)))
	}
	return tokens
}
