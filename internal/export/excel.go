package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"hr-pipeline/internal/pipeline"
	"hr-pipeline/internal/view"

	"github.com/xuri/excelize/v2"
)

// WriteReport generates an Excel workbook for the current pipeline state:
// a per-stage summary, one row per candidate, and the full timeline.
func WriteReport(candidates []*pipeline.Candidate, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	summarySheet := "Summary"
	candidatesSheet := "Candidates"
	timelineSheet := "Timeline"

	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(candidatesSheet)
	f.NewSheet(timelineSheet)

	if err := writeSummarySheet(f, summarySheet, candidates); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeCandidatesSheet(f, candidatesSheet, candidates); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}
	if err := writeTimelineSheet(f, timelineSheet, candidates); err != nil {
		return fmt.Errorf("failed to create timeline sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
}

func writeSummarySheet(f *excelize.File, sheet string, candidates []*pipeline.Candidate) error {
	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "B", 15)

	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Pipeline Report")
	f.SetCellStyle(sheet, "A1", "B1", style)
	f.MergeCell(sheet, "A1", "B1")
	f.SetCellValue(sheet, "A2", "Generated:")
	f.SetCellValue(sheet, "B2", time.Now().Format("2006-01-02 15:04:05"))
	f.SetCellValue(sheet, "A3", "Total Candidates:")
	f.SetCellValue(sheet, "B3", len(candidates))

	counts := make(map[pipeline.Stage]int)
	for _, c := range candidates {
		counts[c.CurrentStage]++
	}

	row := 5
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Stage")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Candidates")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), style)
	row++
	for _, stage := range pipeline.StageOrder {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(stage))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), counts[stage])
		row++
	}
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(pipeline.StageRejected))
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), counts[pipeline.StageRejected])
	return nil
}

func writeCandidatesSheet(f *excelize.File, sheet string, candidates []*pipeline.Candidate) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	headers := []string{"ID", "Name", "Mobile", "Role", "Source", "Stage", "Status", "Requirement", "Created"}
	widths := []float64{38, 25, 14, 20, 18, 20, 18, 38, 20}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", h)
		f.SetColWidth(sheet, col, col, widths[i])
	}
	endCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(sheet, "A1", endCol+"1", style)

	for i, c := range candidates {
		row := i + 2
		values := []any{
			c.ID, c.Name, c.Mobile, c.Role, c.Source,
			string(c.CurrentStage), view.StatusLabel(c), c.RequirementID,
			c.CreatedAt.Format("2006-01-02 15:04"),
		}
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v)
		}
	}
	return nil
}

func writeTimelineSheet(f *excelize.File, sheet string, candidates []*pipeline.Candidate) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	headers := []string{"Candidate", "Action", "Timestamp", "By", "Notes"}
	widths := []float64{25, 22, 22, 20, 50}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", h)
		f.SetColWidth(sheet, col, col, widths[i])
	}
	f.SetCellStyle(sheet, "A1", "E1", style)

	row := 2
	for _, c := range candidates {
		for _, e := range c.Timeline {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), c.Name)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), e.Action)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), e.Timestamp.Format("2006-01-02 15:04:05"))
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), e.By)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), e.Notes)
			row++
		}
	}
	return nil
}
