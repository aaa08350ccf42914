package export

import (
	"bytes"
	"fmt"

	"godesign/domain/design"
	"godesign/ports"
)

// DOTExporter renders each solution's structure as a Graphviz digraph
type DOTExporter struct{}

func (DOTExporter) Format() ports.ExportFormat { return ports.FormatDOT }
func (DOTExporter) ContentType() string        { return "text/vnd.graphviz" }

func (DOTExporter) Export(solutions []*design.DesignObject, _ []ports.DecisionEvent) ([]byte, error) {
	var buf bytes.Buffer
	for i, sol := range solutions {
		if sol.Structure == nil {
			continue
		}
		fmt.Fprintf(&buf, "digraph solution_%d {\n", i+1)
		fmt.Fprintf(&buf, "  label=%q;\n", sol.ID.String())
		for _, id := range sol.Structure.ComponentIDs() {
			c := sol.Structure.Components[id]
			fmt.Fprintf(&buf, "  %q [label=%q];\n", c.ID, fmt.Sprintf("%s\n%s", c.ID, c.Type))
		}
		for _, id := range sol.Structure.RelationshipIDs() {
			r := sol.Structure.Relationships[id]
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", r.SourceID, r.TargetID, r.Type)
		}
		buf.WriteString("}\n")
	}
	return buf.Bytes(), nil
}
