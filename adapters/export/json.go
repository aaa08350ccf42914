// Package export encodes a run's public results: the solution list and the
// read-only introspection surface. Exporters never touch engine internals,
// and every encoding round-trips through the design object shape.
package export

import (
	"encoding/json"

	"godesign/domain/design"
	"godesign/ports"
)

// JSONExporter encodes solutions and trace as an indented JSON document
type JSONExporter struct{}

type jsonDocument struct {
	Solutions []*design.DesignObject `json:"solutions"`
	Trace     []ports.DecisionEvent  `json:"trace,omitempty"`
}

func (JSONExporter) Format() ports.ExportFormat { return ports.FormatJSON }
func (JSONExporter) ContentType() string        { return "application/json" }

func (JSONExporter) Export(solutions []*design.DesignObject, trace []ports.DecisionEvent) ([]byte, error) {
	return json.MarshalIndent(jsonDocument{Solutions: solutions, Trace: trace}, "", "  ")
}

// DecodeSolutions parses a JSON export back into design objects
func DecodeSolutions(data []byte) ([]*design.DesignObject, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Solutions, nil
}
