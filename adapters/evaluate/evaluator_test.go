package evaluate

import (
	"fmt"
	"testing"

	"godesign/domain/constraint"
	"godesign/domain/core"
	"godesign/domain/design"
)

func smallCandidate(t *testing.T) *design.DesignObject {
	t.Helper()
	obj := design.NewDesignObject()
	obj.Structure = design.NewStructure(nil)
	_ = obj.Structure.AddComponent(design.NewComponent("a", design.TypeProcessor, nil))
	_ = obj.Structure.AddComponent(design.NewComponent("b", design.TypeStorage, nil))
	_ = obj.Structure.AddRelationship(design.NewRelationship("r1", "a", "b", design.RelConnectsTo, nil))
	obj.Variables = design.NewVariableAssignment()
	return obj
}

func standardSet(t *testing.T) *constraint.Set {
	t.Helper()
	set := constraint.NewSet("test")
	for _, c := range []constraint.Constraint{
		constraint.NewMinComponents("min_2", 2),
		constraint.NewMaxComponents("max_10", 10),
		constraint.NewConnectivity("connected"),
		constraint.NewForbiddenComponentTypes("no_actuators", design.TypeActuator),
	} {
		if err := set.Add(c); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return set
}

func TestEvaluateCollectsAllViolations(t *testing.T) {
	obj := smallCandidate(t)
	set := constraint.NewSet("failing")
	_ = set.Add(constraint.NewMinComponents("min_5", 5))
	_ = set.Add(constraint.NewMinRelationships("rels_3", 3))
	_ = set.Add(constraint.NewMaxComponents("max_10", 10))

	result, err := New().Evaluate(obj, set)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.IsValid {
		t.Error("Two violated constraints should invalidate the candidate")
	}
	if len(result.Violations) != 2 {
		t.Errorf("All violations should be collected in one pass, got %d", len(result.Violations))
	}
}

func TestEvaluateValidCandidate(t *testing.T) {
	result, err := New().Evaluate(smallCandidate(t), standardSet(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !result.IsValid {
		t.Errorf("Expected a valid result, got violations %v", result.Violations)
	}
}

func TestConstraintErrorIsFatal(t *testing.T) {
	set := constraint.NewSet("broken")
	_ = set.Add(constraint.NewCustom("oracle", constraint.KindGlobal, "always errors",
		func(candidate *design.DesignObject) ([]constraint.Violation, error) {
			return nil, fmt.Errorf("oracle unavailable")
		}))

	_, err := New().Evaluate(smallCandidate(t), set)
	if err == nil {
		t.Fatal("A constraint error must abort evaluation")
	}
	if !core.IsConstraintEvaluation(err) {
		t.Errorf("Expected a constraint evaluation error, got %v", err)
	}
}

func TestConstraintPanicIsContained(t *testing.T) {
	set := constraint.NewSet("panicking")
	_ = set.Add(constraint.NewCustom("bomb", constraint.KindGlobal, "panics",
		func(candidate *design.DesignObject) ([]constraint.Violation, error) {
			panic("boom")
		}))

	_, err := New().Evaluate(smallCandidate(t), set)
	if err == nil {
		t.Fatal("A panicking constraint must surface as an error, not crash")
	}
	if !core.IsConstraintEvaluation(err) {
		t.Errorf("Expected a constraint evaluation error, got %v", err)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	obj := smallCandidate(t)
	set := constraint.NewSet("mixed")
	_ = set.Add(constraint.NewMinComponents("min_5", 5))
	_ = set.Add(constraint.NewMaxComponents("max_1", 1))
	_ = set.Add(constraint.NewConnectivity("connected"))
	_ = set.Add(constraint.NewMinRelationships("rels_2", 2))

	sequential, err := New().Evaluate(obj, set)
	if err != nil {
		t.Fatalf("Evaluate sequential: %v", err)
	}
	parallel, err := New().WithWorkers(4).Evaluate(obj, set)
	if err != nil {
		t.Fatalf("Evaluate parallel: %v", err)
	}

	if len(sequential.Violations) != len(parallel.Violations) {
		t.Fatalf("Violation counts differ: %d vs %d", len(sequential.Violations), len(parallel.Violations))
	}
	for i := range sequential.Violations {
		if sequential.Violations[i].ConstraintID != parallel.Violations[i].ConstraintID {
			t.Errorf("Violation order differs at %d: %s vs %s", i,
				sequential.Violations[i].ConstraintID, parallel.Violations[i].ConstraintID)
		}
	}
}

func TestCacheReturnsSameResult(t *testing.T) {
	obj := smallCandidate(t)
	set := standardSet(t)

	calls := 0
	counted := constraint.NewSet("counted")
	for _, c := range set.All() {
		_ = counted.Add(c)
	}
	_ = counted.Add(constraint.NewCustom("counter", constraint.KindGlobal, "counts calls",
		func(candidate *design.DesignObject) ([]constraint.Violation, error) {
			calls++
			return nil, nil
		}))

	e := New().WithCache(8)
	first, err := e.Evaluate(obj, counted)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	second, err := e.Evaluate(obj, counted)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if calls != 1 {
		t.Errorf("Second evaluation of an identical candidate should hit the cache, constraints ran %d times", calls)
	}
	if first.IsValid != second.IsValid {
		t.Error("Cached result should match the original")
	}

	// a different candidate misses the cache
	other := smallCandidate(t)
	_ = other.Structure.AddComponent(design.NewComponent("c", design.TypeSensor, nil))
	if _, err := e.Evaluate(other, counted); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if calls != 2 {
		t.Errorf("A structurally different candidate should re-run constraints, ran %d times", calls)
	}
}
