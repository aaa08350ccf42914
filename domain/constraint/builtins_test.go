package constraint

import (
	"strings"
	"testing"

	"godesign/domain/design"
)

func candidateWith(t *testing.T, build func(s *design.Structure)) *design.DesignObject {
	t.Helper()
	obj := design.NewDesignObject()
	obj.Structure = design.NewStructure(nil)
	build(obj.Structure)
	return obj
}

func pipelineCandidate(t *testing.T) *design.DesignObject {
	return candidateWith(t, func(s *design.Structure) {
		_ = s.AddComponent(design.NewComponent("cpu-1", design.TypeProcessor, map[string]interface{}{"tier": "fast"}))
		_ = s.AddComponent(design.NewComponent("disk-1", design.TypeStorage, nil))
		_ = s.AddComponent(design.NewComponent("sensor-1", design.TypeSensor, nil))
		_ = s.AddRelationship(design.NewRelationship("rel-1", "cpu-1", "disk-1", design.RelConnectsTo, nil))
		_ = s.AddRelationship(design.NewRelationship("rel-2", "sensor-1", "cpu-1", design.RelMonitors, nil))
	})
}

func TestComponentCountConstraints(t *testing.T) {
	obj := pipelineCandidate(t)

	tests := []struct {
		name       string
		constraint Constraint
		violations int
	}{
		{"min satisfied", NewMinComponents("min_3", 3), 0},
		{"min violated", NewMinComponents("min_5", 5), 1},
		{"max satisfied", NewMaxComponents("max_4", 4), 0},
		{"max violated", NewMaxComponents("max_2", 2), 1},
		{"min relationships satisfied", NewMinRelationships("rels_2", 2), 0},
		{"min relationships violated", NewMinRelationships("rels_3", 3), 1},
	}

	for _, test := range tests {
		violations, err := test.constraint.Evaluate(obj)
		if err != nil {
			t.Fatalf("%s: Evaluate: %v", test.name, err)
		}
		if len(violations) != test.violations {
			t.Errorf("%s: got %d violations, want %d", test.name, len(violations), test.violations)
		}
	}
}

func TestViolationsNameOffenders(t *testing.T) {
	obj := pipelineCandidate(t)

	forbidden := NewForbiddenComponentTypes("no_sensors", design.TypeSensor)
	violations, err := forbidden.Evaluate(obj)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("Expected 1 violation, got %d", len(violations))
	}
	v := violations[0]
	if len(v.OffendingIDs) != 1 || v.OffendingIDs[0] != "sensor-1" {
		t.Errorf("Violation should name sensor-1, got %v", v.OffendingIDs)
	}
	if !strings.Contains(v.Message, "sensor-1") {
		t.Errorf("Message should name the offending component: %q", v.Message)
	}
}

func TestRequiredComponentTypes(t *testing.T) {
	obj := pipelineCandidate(t)

	satisfied := NewRequiredComponentTypes("req", design.TypeProcessor, design.TypeStorage)
	if violations, _ := satisfied.Evaluate(obj); len(violations) != 0 {
		t.Errorf("Expected no violations, got %v", violations)
	}

	missing := NewRequiredComponentTypes("req_net", design.TypeNetwork, design.TypeActuator)
	violations, _ := missing.Evaluate(obj)
	if len(violations) != 2 {
		t.Errorf("Expected one violation per missing type, got %d", len(violations))
	}
}

func TestVariableRange(t *testing.T) {
	obj := pipelineCandidate(t)
	obj.Variables = design.NewVariableAssignment()
	_ = obj.Variables.DeclareDomain(design.IntDomain("cpu-1.cores", 1, 64))
	_ = obj.Variables.Assign("cpu-1.cores", 8)

	inRange := NewVariableRange("cores_ok", "cpu-1.cores", 4, 16)
	if violations, _ := inRange.Evaluate(obj); len(violations) != 0 {
		t.Errorf("8 in [4,16] should pass, got %v", violations)
	}

	outOfRange := NewVariableRange("cores_low", "cpu-1.cores", 16, 64)
	violations, _ := outOfRange.Evaluate(obj)
	if len(violations) != 1 {
		t.Fatalf("8 outside [16,64] should fail, got %d violations", len(violations))
	}
	if violations[0].OffendingIDs[0] != "cpu-1.cores" {
		t.Errorf("Violation should name the variable, got %v", violations[0].OffendingIDs)
	}

	unassigned := NewVariableRange("missing", "ghost", 0, 1)
	if violations, _ := unassigned.Evaluate(obj); len(violations) != 1 {
		t.Error("Unassigned variable should produce a violation, not an error")
	}
}

func TestComponentProperty(t *testing.T) {
	obj := pipelineCandidate(t)

	presence := NewComponentProperty("has_tier", design.TypeProcessor, "tier", nil)
	if violations, _ := presence.Evaluate(obj); len(violations) != 0 {
		t.Errorf("cpu-1 carries tier, got %v", violations)
	}

	wrongValue := NewComponentProperty("tier_slow", design.TypeProcessor, "tier", "slow")
	if violations, _ := wrongValue.Evaluate(obj); len(violations) != 1 {
		t.Error("tier=fast should violate an expected value of slow")
	}

	missing := NewComponentProperty("disk_cap", design.TypeStorage, "capacity", nil)
	violations, _ := missing.Evaluate(obj)
	if len(violations) != 1 || violations[0].OffendingIDs[0] != "disk-1" {
		t.Errorf("Missing property should name disk-1, got %v", violations)
	}
}

func TestRelationshipPattern(t *testing.T) {
	obj := pipelineCandidate(t)

	present := NewRelationshipPattern("monitor", design.RelMonitors, design.TypeSensor, design.TypeProcessor)
	if violations, _ := present.Evaluate(obj); len(violations) != 0 {
		t.Errorf("sensor-1 monitors cpu-1, got %v", violations)
	}

	absent := NewRelationshipPattern("control", design.RelControls, "", "")
	if violations, _ := absent.Evaluate(obj); len(violations) != 1 {
		t.Error("No controls relationship exists, expected a violation")
	}

	forbidden := NewForbiddenRelationshipPattern("no_monitor", design.RelMonitors, "", "")
	violations, _ := forbidden.Evaluate(obj)
	if len(violations) != 1 || violations[0].OffendingIDs[0] != "rel-2" {
		t.Errorf("Forbidden pattern should name rel-2, got %v", violations)
	}
}

func TestConnectivity(t *testing.T) {
	connected := pipelineCandidate(t)
	c := NewConnectivity("connected")
	if violations, _ := c.Evaluate(connected); len(violations) != 0 {
		t.Errorf("Pipeline candidate is connected, got %v", violations)
	}

	split := candidateWith(t, func(s *design.Structure) {
		_ = s.AddComponent(design.NewComponent("a", design.TypeProcessor, nil))
		_ = s.AddComponent(design.NewComponent("b", design.TypeStorage, nil))
		_ = s.AddComponent(design.NewComponent("c", design.TypeSensor, nil))
		_ = s.AddRelationship(design.NewRelationship("rel-1", "a", "b", design.RelConnectsTo, nil))
	})
	violations, _ := c.Evaluate(split)
	if len(violations) != 1 {
		t.Fatalf("Disconnected structure should violate, got %d", len(violations))
	}
	if violations[0].OffendingIDs[0] != "c" {
		t.Errorf("Violation should name the unreachable component, got %v", violations[0].OffendingIDs)
	}
}

func TestMissingStructureIsViolationNotError(t *testing.T) {
	empty := design.NewDesignObject()
	for _, c := range []Constraint{
		NewMinComponents("min", 1),
		NewMaxComponents("max", 1),
		NewConnectivity("conn"),
	} {
		violations, err := c.Evaluate(empty)
		if err != nil {
			t.Errorf("%s: structural absence should not be an error: %v", c.ID(), err)
		}
		if len(violations) != 1 {
			t.Errorf("%s: expected 1 violation, got %d", c.ID(), len(violations))
		}
	}
}

func TestResultValidity(t *testing.T) {
	warning := Violation{ConstraintID: "w", Severity: SeverityWarning, Message: "advisory"}
	errViolation := Violation{ConstraintID: "e", Severity: SeverityError, Message: "broken"}

	if r := NewResult([]Violation{warning}); !r.IsValid {
		t.Error("Warnings alone should leave a result valid")
	}
	if r := NewResult([]Violation{warning, errViolation}); r.IsValid {
		t.Error("An error severity violation should invalidate the result")
	}
	if r := NewResult(nil); !r.IsValid || r.ErrorCount() != 0 {
		t.Error("Empty violation list should be valid")
	}
}

func TestSetRejectsDuplicateIDs(t *testing.T) {
	set := NewSet("test")
	if err := set.Add(NewMinComponents("dup", 1)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := set.Add(NewMaxComponents("dup", 5)); err == nil {
		t.Error("Adding a second constraint with the same id should fail")
	}
	if set.Len() != 1 {
		t.Errorf("Set should hold 1 constraint, has %d", set.Len())
	}
}

func TestSetRejectsEmptyAndNilConstraints(t *testing.T) {
	set := NewSet("test")
	if err := set.Add(nil); err == nil {
		t.Error("Adding a nil constraint should fail")
	}
	if err := set.Add(NewMinComponents("", 1)); err == nil {
		t.Error("Adding a constraint with an empty id should fail")
	}
	if set.Len() != 0 {
		t.Errorf("Set should be empty, has %d", set.Len())
	}
}
