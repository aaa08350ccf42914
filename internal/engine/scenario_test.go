package engine

import (
	"context"
	"testing"
	"time"

	"godesign/adapters/assign"
	"godesign/adapters/evaluate"
	"godesign/adapters/generate"
	"godesign/domain/constraint"
	"godesign/domain/design"
	"godesign/internal/introspect"
	"godesign/internal/registry"
	"godesign/ports"
)

// roomRegistry wires a generator restricted to a single slotless component
// type so the search space is purely structural
func roomRegistry(t *testing.T, seed int64) *registry.Registry {
	t.Helper()
	reg := registry.New()
	gen := generate.New(seed).
		WithTypes([]design.ComponentType{"room"}, map[design.ComponentType][]design.Slot{}).
		WithSizeBounds(2, 4)
	if err := reg.Register(ports.RoleStructureGenerator, gen, gen.Metadata()); err != nil {
		t.Fatalf("register generator: %v", err)
	}
	assigner := assign.New(seed)
	if err := reg.Register(ports.RoleVariableAssigner, assigner, assigner.Metadata()); err != nil {
		t.Fatalf("register assigner: %v", err)
	}
	evaluator := evaluate.New()
	if err := reg.Register(ports.RoleConstraintEvaluator, evaluator, evaluator.Metadata()); err != nil {
		t.Fatalf("register evaluator: %v", err)
	}
	return reg
}

func roomConstraints(t *testing.T) *constraint.Set {
	t.Helper()
	set := constraint.NewSet("rooms")
	if err := set.Add(constraint.NewMinComponents("min_rooms", 2)); err != nil {
		t.Fatalf("add constraint: %v", err)
	}
	if err := set.Add(constraint.NewMaxComponents("max_rooms", 4)); err != nil {
		t.Fatalf("add constraint: %v", err)
	}
	return set
}

func TestRoomScenarioBreadthFirst(t *testing.T) {
	opts := DefaultOptions()
	opts.Strategy = StrategyBreadthFirst
	opts.Seed = 31
	opts.Limits = Limits{MaxIterations: 50, MaxSolutions: 3, Timeout: 30 * time.Second}

	store := introspect.NewStore()
	explorer, err := NewExplorer(opts, roomRegistry(t, 31), roomConstraints(t), store, nil, nil)
	if err != nil {
		t.Fatalf("NewExplorer: %v", err)
	}
	result, err := explorer.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if result.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", result.Status, StatusCompleted)
	}
	if len(result.Solutions) != 3 {
		t.Fatalf("found %d solutions, want 3", len(result.Solutions))
	}
	if result.Iterations > 50 {
		t.Fatalf("iterations = %d, exceeded the limit of 50", result.Iterations)
	}
	for i, sol := range result.Solutions {
		n := sol.Structure.ComponentCount()
		if n < 2 || n > 4 {
			t.Fatalf("solution %d has %d components, want 2..4", i, n)
		}
		if rooms := len(sol.Structure.ComponentsOfType("room")); rooms != n {
			t.Fatalf("solution %d has %d room components of %d total", i, rooms, n)
		}
	}

	// breadth-first: the three root generations all precede any expansion
	// that produces depth-2 children
	events := store.Trace()
	generated := 0
	for _, ev := range events {
		switch {
		case ev.Type == ports.DecisionStructureGeneration:
			generated++
		case ev.Type == ports.DecisionBranchExpanded && ev.Depth >= 2:
			if generated < 3 {
				t.Fatalf("depth-2 expansion recorded after only %d root generations", generated)
			}
		}
	}
	if generated < 3 {
		t.Fatalf("only %d structure generations recorded", generated)
	}
}

// depthSignature flattens a trace into the order in which depths were visited
func depthSignature(events []ports.DecisionEvent) []int {
	out := make([]int, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Depth)
	}
	return out
}

func TestStrategiesVisitInDifferentOrders(t *testing.T) {
	reject := constraint.NewCustom("never", constraint.KindGlobal, "rejects everything",
		func(candidate *design.DesignObject) ([]constraint.Violation, error) {
			return []constraint.Violation{{
				ConstraintID: "never",
				Severity:     constraint.SeverityError,
				Message:      "no candidate is acceptable",
			}}, nil
		})

	run := func(strategy Strategy) []ports.DecisionEvent {
		set := constraint.NewSet("reject")
		if err := set.Add(reject); err != nil {
			t.Fatalf("add constraint: %v", err)
		}
		opts := DefaultOptions()
		opts.Strategy = strategy
		opts.Seed = 19
		opts.Limits = Limits{MaxIterations: 40, MaxSolutions: 3, Timeout: 30 * time.Second}

		store := introspect.NewStore()
		explorer, err := NewExplorer(opts, roomRegistry(t, 19), set, store, nil, nil)
		if err != nil {
			t.Fatalf("NewExplorer: %v", err)
		}
		result, err := explorer.Solve(context.Background())
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		if len(result.Solutions) != 0 {
			t.Fatalf("%s found %d solutions under an all-rejecting set", strategy, len(result.Solutions))
		}
		return store.Trace()
	}

	bfs := depthSignature(run(StrategyBreadthFirst))
	dfs := depthSignature(run(StrategyDepthFirst))

	differ := len(bfs) != len(dfs)
	for i := 0; !differ && i < len(bfs); i++ {
		differ = bfs[i] != dfs[i]
	}
	if !differ {
		t.Fatal("breadth_first and depth_first visited candidates in the same order")
	}

	maxDepth := func(sig []int) int {
		m := 0
		for _, d := range sig {
			if d > m {
				m = d
			}
		}
		return m
	}
	// depth-first commits to a branch, so within the same iteration budget it
	// must reach strictly deeper than breadth-first
	if maxDepth(dfs) <= maxDepth(bfs) {
		t.Fatalf("depth_first max depth %d, breadth_first %d; expected strictly deeper", maxDepth(dfs), maxDepth(bfs))
	}
}
