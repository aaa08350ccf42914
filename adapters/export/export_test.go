package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"godesign/adapters/assign"
	"godesign/domain/design"
	"godesign/ports"
)

func sampleSolutions(t *testing.T) []*design.DesignObject {
	t.Helper()
	obj := design.NewDesignObject()
	obj.Structure = design.NewStructure(nil)
	slots := design.SlotProperty(design.Slot{Domain: design.IntDomain("cores", 1, 16)})
	_ = obj.Structure.AddComponent(design.NewComponent("cpu-1", design.TypeProcessor,
		map[string]interface{}{design.VariableSlotsKey: slots}))
	_ = obj.Structure.AddComponent(design.NewComponent("disk-1", design.TypeStorage, nil))
	_ = obj.Structure.AddRelationship(design.NewRelationship("r1", "cpu-1", "disk-1", design.RelConnectsTo, nil))
	obj.Variables = design.NewVariableAssignment()
	_ = obj.Variables.DeclareDomain(design.IntDomain("cpu-1.cores", 1, 16))
	_ = obj.Variables.Assign("cpu-1.cores", 8.0)
	return []*design.DesignObject{obj}
}

func TestJSONRoundTripPreservesEquality(t *testing.T) {
	solutions := sampleSolutions(t)
	data, err := JSONExporter{}.Export(solutions, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	restored, err := DecodeSolutions(data)
	if err != nil {
		t.Fatalf("DecodeSolutions: %v", err)
	}
	if len(restored) != 1 {
		t.Fatalf("Expected 1 solution, got %d", len(restored))
	}
	if !solutions[0].Equal(restored[0]) {
		t.Error("Design object changed across a JSON round trip")
	}
}

// Sampled integer domains yield Go ints while JSON decoding yields float64;
// equality must hold across the round trip regardless.
func TestJSONRoundTripOfAssignerOutput(t *testing.T) {
	solutions := sampleSolutions(t)
	obj := solutions[0]
	va, err := assign.New(5).Assign(obj.Structure, ports.AssignRandom)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	obj.Variables = va
	if !obj.Variables.IsAssigned("cpu-1.cores") {
		t.Fatal("Assigner left cpu-1.cores unassigned")
	}

	data, err := JSONExporter{}.Export(solutions, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	restored, err := DecodeSolutions(data)
	if err != nil {
		t.Fatalf("DecodeSolutions: %v", err)
	}
	if !obj.Equal(restored[0]) {
		t.Errorf("Design object changed across a JSON round trip: %#v vs %#v",
			obj.Variables.Assignments, restored[0].Variables.Assignments)
	}
}

func TestCSVExport(t *testing.T) {
	data, err := CSVExporter{}.Export(sampleSolutions(t), nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("Parse CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header plus one row, got %d rows", len(rows))
	}
	if rows[0][0] != "id" {
		t.Errorf("First header column should be id, got %q", rows[0][0])
	}
}

func TestDOTExport(t *testing.T) {
	data, err := DOTExporter{}.Export(sampleSolutions(t), nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := string(data)
	for _, want := range []string{"digraph solution_1", `"cpu-1"`, `"cpu-1" -> "disk-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q", want)
		}
	}
}

func TestXLSXExport(t *testing.T) {
	events := []ports.DecisionEvent{{Step: 1, Type: ports.DecisionStructureGeneration}}
	data, err := XLSXExporter{}.Export(sampleSolutions(t), events)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(data) == 0 {
		t.Error("XLSX export produced no bytes")
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("XLSX export should be a zip container")
	}
}

func TestReportExport(t *testing.T) {
	events := []ports.DecisionEvent{
		{Step: 1, Type: ports.DecisionStructureGeneration},
		{Step: 2, Type: ports.DecisionSolutionFound},
	}
	data, err := ReportExporter{}.Export(sampleSolutions(t), events)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "<h1") {
		t.Error("Report should render markdown headings to HTML")
	}
	if !strings.Contains(out, "cpu-1") {
		t.Error("Report should include solution components")
	}
}
