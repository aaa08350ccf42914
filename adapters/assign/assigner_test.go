package assign

import (
	"testing"

	"godesign/domain/core"
	"godesign/domain/design"
	"godesign/ports"
)

func storageStructure(t *testing.T) *design.Structure {
	t.Helper()
	s := design.NewStructure(nil)
	slots := design.SlotProperty(
		design.Slot{Domain: design.IntDomain("capacity_gb", 100, 200)},
		design.Slot{
			Domain:    design.IntDomain("used_gb", 0, 4096),
			DependsOn: []design.SlotDependency{{On: "capacity_gb", Kind: design.KindLessEqual}},
		},
	)
	if err := s.AddComponent(design.NewComponent("disk-1", design.TypeStorage,
		map[string]interface{}{design.VariableSlotsKey: slots})); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	return s
}

func TestAssignRespectsDependencies(t *testing.T) {
	a := New(42)
	s := storageStructure(t)

	for i := 0; i < 25; i++ {
		va, err := a.Assign(s, ports.AssignRandom)
		if err != nil {
			t.Fatalf("Assign: %v", err)
		}
		if !va.IsComplete() {
			t.Fatal("Assignment should cover every declared slot")
		}
		if !va.IsConsistent() {
			capacity, _ := va.Value("disk-1.capacity_gb")
			used, _ := va.Value("disk-1.used_gb")
			t.Fatalf("Inconsistent assignment: used=%v capacity=%v", used, capacity)
		}
	}
}

func TestAssignNamespacesSlotNames(t *testing.T) {
	a := New(1)
	s := storageStructure(t)
	va, err := a.Assign(s, ports.AssignSystematic)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	names := va.VariableNames()
	want := []string{"disk-1.capacity_gb", "disk-1.used_gb"}
	if len(names) != len(want) {
		t.Fatalf("Variable names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Variable name %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestAssignmentStrategies(t *testing.T) {
	a := New(0)
	s := design.NewStructure(nil)
	slots := design.SlotProperty(design.Slot{Domain: design.IntDomain("n", 10, 20)})
	_ = s.AddComponent(design.NewComponent("c", design.TypeProcessor,
		map[string]interface{}{design.VariableSlotsKey: slots}))

	systematic, err := a.Assign(s, ports.AssignSystematic)
	if err != nil {
		t.Fatalf("Assign systematic: %v", err)
	}
	if v, _ := systematic.Value("c.n"); v != 10 {
		t.Errorf("Systematic strategy should take the lowest value, got %v", v)
	}

	heuristic, err := a.Assign(s, ports.AssignHeuristic)
	if err != nil {
		t.Fatalf("Assign heuristic: %v", err)
	}
	if v, _ := heuristic.Value("c.n"); v != 15 {
		t.Errorf("Heuristic strategy should take the midpoint, got %v", v)
	}
}

func TestDependencyCycleIsFatal(t *testing.T) {
	a := New(9)
	s := design.NewStructure(nil)
	slots := design.SlotProperty(
		design.Slot{
			Domain:    design.IntDomain("x", 0, 10),
			DependsOn: []design.SlotDependency{{On: "y", Kind: design.KindLessThan}},
		},
		design.Slot{
			Domain:    design.IntDomain("y", 0, 10),
			DependsOn: []design.SlotDependency{{On: "x", Kind: design.KindLessThan}},
		},
	)
	_ = s.AddComponent(design.NewComponent("c", design.TypeProcessor,
		map[string]interface{}{design.VariableSlotsKey: slots}))

	_, err := a.Assign(s, ports.AssignRandom)
	if err == nil {
		t.Fatal("Cyclic dependencies should fail assignment")
	}
	if !core.IsDependencyCycle(err) {
		t.Errorf("Expected a dependency cycle error, got %v", err)
	}
}

func TestNarrowedDomainExhaustion(t *testing.T) {
	a := New(2)
	s := design.NewStructure(nil)
	slots := design.SlotProperty(
		design.Slot{Domain: design.IntDomain("low", 0, 0)},
		design.Slot{
			Domain:    design.IntDomain("lower", 5, 10),
			DependsOn: []design.SlotDependency{{On: "low", Kind: design.KindLessThan}},
		},
	)
	_ = s.AddComponent(design.NewComponent("c", design.TypeProcessor,
		map[string]interface{}{design.VariableSlotsKey: slots}))

	_, err := a.Assign(s, ports.AssignRandom)
	if err == nil {
		t.Fatal("Narrowing [5,10] below 0 should exhaust the domain")
	}
	if !core.IsVariableAssignment(err) {
		t.Errorf("Expected a variable assignment error, got %v", err)
	}
}

func TestModifyFlagsViolatedDependents(t *testing.T) {
	a := New(4)
	s := storageStructure(t)
	va, err := a.Assign(s, ports.AssignSystematic)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	// systematic leaves capacity=100, used=0
	modified, err := a.Modify(va, "disk-1.used_gb", 150)
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if _, ok := modified.Value("disk-1.used_gb"); !ok {
		t.Fatal("Modify should assign the new value")
	}
	if va.Flagged != nil && len(va.Flagged) > 0 {
		t.Error("Modify should not mutate its input")
	}

	// shrinking the capacity below used flags the dependent, never re-samples it
	shrunk, err := a.Modify(modified, "disk-1.capacity_gb", 120)
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if _, flagged := shrunk.Flagged["disk-1.used_gb"]; !flagged {
		t.Error("used_gb no longer satisfies less_equal and should be flagged")
	}
	if v, _ := shrunk.Value("disk-1.used_gb"); v != 150 {
		t.Errorf("Flagged variable should keep its value, got %v", v)
	}
	if a.IsConsistent(shrunk) {
		t.Error("Assignment with a violated dependency should be inconsistent")
	}
}

func TestEstimateSpace(t *testing.T) {
	s := storageStructure(t)
	space, err := EstimateSpace(s)
	if err != nil {
		t.Fatalf("EstimateSpace: %v", err)
	}
	if !space.Bounded {
		t.Fatal("Two bounded int domains should produce a bounded space")
	}
	if space.Variables != 2 {
		t.Errorf("Expected 2 variables, got %d", space.Variables)
	}
	// 101 capacities times 4097 used values
	want := 101.0 * 4097.0
	if space.Combinations != want {
		t.Errorf("Combinations = %v, want %v", space.Combinations, want)
	}

	unbounded := design.NewStructure(nil)
	slots := design.SlotProperty(design.Slot{Domain: design.FloatDomain("f", 0, 1)})
	_ = unbounded.AddComponent(design.NewComponent("c", design.TypeSensor,
		map[string]interface{}{design.VariableSlotsKey: slots}))
	space, err = EstimateSpace(unbounded)
	if err != nil {
		t.Fatalf("EstimateSpace: %v", err)
	}
	if space.Bounded {
		t.Error("A float domain should make the space unbounded")
	}
}
