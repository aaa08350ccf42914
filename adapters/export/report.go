package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"godesign/domain/design"
	"godesign/ports"
)

// ReportExporter builds a markdown run summary and renders it to HTML
type ReportExporter struct{}

func (ReportExporter) Format() ports.ExportFormat { return ports.FormatReport }
func (ReportExporter) ContentType() string        { return "text/html" }

func (ReportExporter) Export(solutions []*design.DesignObject, trace []ports.DecisionEvent) ([]byte, error) {
	md := buildMarkdown(solutions, trace)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer), nil
}

func buildMarkdown(solutions []*design.DesignObject, trace []ports.DecisionEvent) string {
	var buf bytes.Buffer
	buf.WriteString("# Exploration Report\n\n")
	fmt.Fprintf(&buf, "Solutions found: **%d**\n\n", len(solutions))

	for i, sol := range solutions {
		fmt.Fprintf(&buf, "## Solution %d (`%s`)\n\n", i+1, sol.ID)
		if sol.Structure != nil {
			fmt.Fprintf(&buf, "- Components: %d\n- Relationships: %d\n",
				sol.Structure.ComponentCount(), sol.Structure.RelationshipCount())
			for _, id := range sol.Structure.ComponentIDs() {
				c := sol.Structure.Components[id]
				fmt.Fprintf(&buf, "  - `%s` (%s)\n", c.ID, c.Type)
			}
		}
		if sol.Variables != nil && len(sol.Variables.Assignments) > 0 {
			buf.WriteString("- Variables:\n")
			for _, name := range sol.Variables.VariableNames() {
				if v, ok := sol.Variables.Value(name); ok {
					fmt.Fprintf(&buf, "  - `%s` = %v\n", name, v)
				}
			}
		}
		buf.WriteString("\n")
	}

	if len(trace) > 0 {
		buf.WriteString("## Decision Summary\n\n")
		counts := make(map[ports.DecisionType]int)
		for _, ev := range trace {
			counts[ev.Type]++
		}
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, string(t))
		}
		sort.Strings(types)
		buf.WriteString("| Decision | Count |\n|---|---|\n")
		for _, t := range types {
			fmt.Fprintf(&buf, "| %s | %d |\n", t, counts[ports.DecisionType(t)])
		}
	}
	return buf.String()
}
