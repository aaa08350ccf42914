package engine

import (
	"testing"

	"godesign/domain/core"
	"godesign/domain/design"
)

func TestArenaTracksParentLinks(t *testing.T) {
	arena := NewArena()
	root := arena.New(nil, design.NewDesignObject(), StageStructurePending, 0)
	child := arena.New(root, design.NewDesignObject(), StageVariablesPending, 3)

	if root.Depth != 0 || root.ParentSeq != 0 {
		t.Fatalf("root depth=%d parentSeq=%d, want 0/0", root.Depth, root.ParentSeq)
	}
	if child.Depth != 1 {
		t.Fatalf("child depth = %d, want 1", child.Depth)
	}
	if child.ParentSeq != root.Seq || child.ParentID != root.ID {
		t.Fatal("child does not reference its parent")
	}
	if child.CreatedStep != 3 {
		t.Fatalf("child created at step %d, want 3", child.CreatedStep)
	}
	got, ok := arena.Get(child.Seq)
	if !ok || got != child {
		t.Fatal("Get did not return the stored candidate")
	}
}

func TestArenaReleaseDropsSpentCandidates(t *testing.T) {
	arena := NewArena()
	root := arena.New(nil, design.NewDesignObject(), StageStructurePending, 0)
	child := arena.New(root, design.NewDesignObject(), StageVariablesPending, 1)

	arena.Release(root)

	if arena.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after release", arena.Len())
	}
	if _, ok := arena.Get(root.Seq); ok {
		t.Fatal("released candidate is still stored")
	}
	// parent links are weak; the child keeps its lineage metadata
	if _, ok := arena.Get(child.Seq); !ok {
		t.Fatal("child was dropped alongside its parent")
	}
	if child.ParentSeq != root.Seq || child.ParentID != root.ID {
		t.Fatal("release mutated the child's parent reference")
	}

	arena.Release(nil) // tolerated
	arena.Release(root)
	if arena.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after redundant releases", arena.Len())
	}
}

func TestComputeFingerprintScopes(t *testing.T) {
	structure := design.NewStructure(nil)
	if err := structure.AddComponent(design.Component{
		ID:   "disk-1",
		Type: design.TypeStorage,
		Properties: map[string]interface{}{
			design.VariableSlotsKey: design.SlotProperty(design.Slot{Domain: design.IntDomain("capacity_gb", 8, 4096)}),
		},
	}); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}

	low := design.NewDesignObject()
	low.Structure = structure
	high := design.NewDesignObject()
	high.Structure = structure.Clone()

	va := design.NewVariableAssignment()
	if err := va.DeclareDomain(design.IntDomain("disk-1.capacity_gb", 8, 4096)); err != nil {
		t.Fatalf("DeclareDomain: %v", err)
	}
	if err := va.Assign("disk-1.capacity_gb", 100); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	low.Variables = va

	vb := va.Clone()
	if err := vb.Assign("disk-1.capacity_gb", 200); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	high.Variables = vb

	if ComputeFingerprint(low, ScopeStructure) != ComputeFingerprint(high, ScopeStructure) {
		t.Fatal("structure scope must ignore variable values")
	}
	if ComputeFingerprint(low, ScopeStructureVariables) == ComputeFingerprint(high, ScopeStructureVariables) {
		t.Fatal("structure_variables scope must distinguish variable values")
	}
}

func TestFingerprintFinality(t *testing.T) {
	obj := design.NewDesignObject()
	if fingerprintFinal(obj, ScopeStructure) || fingerprintFinal(obj, ScopeStructureVariables) {
		t.Fatal("empty candidate has no final fingerprint under any scope")
	}
	obj.Structure = design.NewStructure(nil)
	if !fingerprintFinal(obj, ScopeStructure) {
		t.Fatal("structure scope is final once the structure exists")
	}
	if fingerprintFinal(obj, ScopeStructureVariables) {
		t.Fatal("structure_variables scope is not final before assignment")
	}
	obj.Variables = design.NewVariableAssignment()
	if !fingerprintFinal(obj, ScopeStructureVariables) {
		t.Fatal("structure_variables scope is final once the candidate is complete")
	}
}

func TestParseStrategyAndScope(t *testing.T) {
	for _, name := range []string{"breadth_first", "depth_first", "best_first", "random"} {
		if _, err := ParseStrategy(name); err != nil {
			t.Fatalf("ParseStrategy(%q): %v", name, err)
		}
	}
	if _, err := ParseStrategy("beam"); !core.IsConfiguration(err) {
		t.Fatalf("unknown strategy: err = %v, want configuration error", err)
	}
	for _, name := range []string{"structure", "structure_variables"} {
		if _, err := ParseFingerprintScope(name); err != nil {
			t.Fatalf("ParseFingerprintScope(%q): %v", name, err)
		}
	}
	if _, err := ParseFingerprintScope("full"); !core.IsConfiguration(err) {
		t.Fatalf("unknown scope: err = %v, want configuration error", err)
	}
}
