package design

import (
	"encoding/json"
	"testing"
)

func buildTestStructure(t *testing.T) *Structure {
	t.Helper()
	s := NewStructure([]string{"min_components"})
	if err := s.AddComponent(NewComponent("cpu-1", TypeProcessor, map[string]interface{}{"cores": 4.0})); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if err := s.AddComponent(NewComponent("disk-1", TypeStorage, nil)); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if err := s.AddRelationship(NewRelationship("rel-1", "cpu-1", "disk-1", RelConnectsTo, nil)); err != nil {
		t.Fatalf("AddRelationship: %v", err)
	}
	return s
}

func TestAddComponentRejectsDuplicates(t *testing.T) {
	s := buildTestStructure(t)
	err := s.AddComponent(NewComponent("cpu-1", TypeProcessor, nil))
	if err == nil {
		t.Error("Expected error adding duplicate component id")
	}
}

func TestAddRelationshipRequiresEndpoints(t *testing.T) {
	s := buildTestStructure(t)

	tests := []struct {
		name string
		rel  Relationship
	}{
		{"missing source", NewRelationship("rel-2", "ghost", "disk-1", RelConnectsTo, nil)},
		{"missing target", NewRelationship("rel-3", "cpu-1", "ghost", RelConnectsTo, nil)},
	}
	for _, test := range tests {
		if err := s.AddRelationship(test.rel); err == nil {
			t.Errorf("%s: expected error, got none", test.name)
		}
	}

	// self-relationships are allowed
	if err := s.AddRelationship(NewRelationship("rel-self", "cpu-1", "cpu-1", RelMonitors, nil)); err != nil {
		t.Errorf("Self-relationship should be allowed: %v", err)
	}
}

func TestRemoveComponentRemovesIncidentRelationships(t *testing.T) {
	s := buildTestStructure(t)
	if err := s.RemoveComponent("cpu-1"); err != nil {
		t.Fatalf("RemoveComponent: %v", err)
	}
	if s.RelationshipCount() != 0 {
		t.Errorf("Expected dangling relationships to be removed, %d remain", s.RelationshipCount())
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Structure invalid after component removal: %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := buildTestStructure(t)
	clone := s.Clone()

	if !s.Equal(clone) {
		t.Fatal("Clone should equal its source")
	}

	c := clone.Components["cpu-1"]
	c.Properties["cores"] = 16.0
	clone.Components["cpu-1"] = c

	if v, _ := s.Components["cpu-1"].Property("cores"); v != 4.0 {
		t.Errorf("Mutating a clone changed the source: cores = %v", v)
	}
	if s.Equal(clone) {
		t.Error("Structures should differ after clone mutation")
	}
}

func TestEqualIgnoresInsertionOrder(t *testing.T) {
	a := NewStructure(nil)
	b := NewStructure(nil)

	_ = a.AddComponent(NewComponent("x", TypeSensor, nil))
	_ = a.AddComponent(NewComponent("y", TypeActuator, nil))

	_ = b.AddComponent(NewComponent("y", TypeActuator, nil))
	_ = b.AddComponent(NewComponent("x", TypeSensor, nil))

	if !a.Equal(b) {
		t.Error("Structures with the same component sets should be equal regardless of insertion order")
	}
}

func TestFingerprintTokensAreCanonical(t *testing.T) {
	a := NewStructure(nil)
	b := NewStructure(nil)

	_ = a.AddComponent(NewComponent("x", TypeSensor, nil))
	_ = a.AddComponent(NewComponent("y", TypeActuator, nil))
	_ = b.AddComponent(NewComponent("y", TypeActuator, nil))
	_ = b.AddComponent(NewComponent("x", TypeSensor, nil))

	ta, tb := a.FingerprintTokens(), b.FingerprintTokens()
	if len(ta) != len(tb) {
		t.Fatalf("Token counts differ: %d vs %d", len(ta), len(tb))
	}
	for i := range ta {
		if ta[i] != tb[i] {
			t.Errorf("Token %d differs: %q vs %q", i, ta[i], tb[i])
		}
	}
}

func TestStructureJSONRoundTrip(t *testing.T) {
	s := buildTestStructure(t)
	slots := SlotProperty(Slot{Domain: IntDomain("cores", 1, 16)})
	c := s.Components["cpu-1"].WithProperties(map[string]interface{}{VariableSlotsKey: slots})
	if err := s.ReplaceComponent(c); err != nil {
		t.Fatalf("ReplaceComponent: %v", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var restored Structure
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !s.Equal(&restored) {
		t.Error("Structure changed across a JSON round trip")
	}
}
