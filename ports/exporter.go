package ports

import (
	"godesign/domain/design"
)

// ExportFormat identifies a supported export encoding
type ExportFormat string

const (
	FormatJSON   ExportFormat = "json"
	FormatCSV    ExportFormat = "csv"
	FormatXLSX   ExportFormat = "xlsx"
	FormatDOT    ExportFormat = "dot"
	FormatReport ExportFormat = "report" // markdown summary rendered to HTML
)

// ExporterPort encodes a run's public results. Exporters consume only the
// solution list and the introspection query surface, never engine internals.
type ExporterPort interface {
	Format() ExportFormat
	ContentType() string
	Export(solutions []*design.DesignObject, trace []DecisionEvent) ([]byte, error)
}
