package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"godesign/domain/design"
	"godesign/ports"
)

// XLSXExporter writes a workbook with a Solutions sheet and a Trace sheet
type XLSXExporter struct{}

func (XLSXExporter) Format() ports.ExportFormat { return ports.FormatXLSX }

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) Export(solutions []*design.DesignObject, trace []ports.DecisionEvent) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const solutionsSheet = "Solutions"
	if err := f.SetSheetName("Sheet1", solutionsSheet); err != nil {
		return nil, err
	}
	headers := []string{"ID", "Components", "Relationships", "Variables"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(solutionsSheet, cell, h); err != nil {
			return nil, err
		}
	}
	for row, sol := range solutions {
		components, relationships := 0, 0
		if sol.Structure != nil {
			components = sol.Structure.ComponentCount()
			relationships = sol.Structure.RelationshipCount()
		}
		variables := 0
		if sol.Variables != nil {
			variables = len(sol.Variables.Assignments)
		}
		values := []interface{}{sol.ID.String(), components, relationships, variables}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(solutionsSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	const traceSheet = "Trace"
	if _, err := f.NewSheet(traceSheet); err != nil {
		return nil, err
	}
	traceHeaders := []string{"Step", "Type", "Candidate", "Depth", "Outcome", "Reasoning"}
	for i, h := range traceHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(traceSheet, cell, h); err != nil {
			return nil, err
		}
	}
	for row, ev := range trace {
		values := []interface{}{ev.Step, string(ev.Type), ev.CandidateID.String(), ev.Depth, ev.Outcome, ev.Reasoning}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(traceSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
