package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"godesign/domain/design"
	"godesign/ports"
)

// CSVExporter writes one row per solution with flattened counts and a JSON
// column for the variable map
type CSVExporter struct{}

func (CSVExporter) Format() ports.ExportFormat { return ports.FormatCSV }
func (CSVExporter) ContentType() string        { return "text/csv" }

func (CSVExporter) Export(solutions []*design.DesignObject, _ []ports.DecisionEvent) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "components", "relationships", "variables", "assignments"}); err != nil {
		return nil, err
	}
	for _, sol := range solutions {
		components, relationships := 0, 0
		if sol.Structure != nil {
			components = sol.Structure.ComponentCount()
			relationships = sol.Structure.RelationshipCount()
		}
		variables := 0
		assignments := "{}"
		if sol.Variables != nil {
			variables = len(sol.Variables.Assignments)
			encoded, err := json.Marshal(sol.Variables.Assignments)
			if err != nil {
				return nil, fmt.Errorf("solution %s: %w", sol.ID, err)
			}
			assignments = string(encoded)
		}
		row := []string{
			sol.ID.String(),
			fmt.Sprintf("%d", components),
			fmt.Sprintf("%d", relationships),
			fmt.Sprintf("%d", variables),
			assignments,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
