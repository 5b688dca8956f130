package export

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"hr-pipeline/internal/pipeline"

	"github.com/xuri/excelize/v2"
)

func sampleCandidates() []*pipeline.Candidate {
	now := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	return []*pipeline.Candidate{
		{
			ID: "c1", Name: "Jane Fernandes", Mobile: "9876543210",
			Role: "Accountant", Source: "Naukri",
			CurrentStage: pipeline.StageTelephonic, RequirementID: "req-1",
			CreatedAt: now,
			Timeline: []pipeline.TimelineEntry{
				{ID: "t1", Action: "cv_uploaded", Timestamp: now, By: "admin"},
				{ID: "t2", Action: "shortlisted", Timestamp: now.Add(time.Hour), By: "Priya"},
			},
		},
		{
			ID: "c2", Name: "Ravi Kumar", Mobile: "9123456780",
			Role: "Sales Executive", Source: "Referral",
			CurrentStage: pipeline.StageTelephonic, RequirementID: "req-1",
			CreatedAt: now,
		},
		{
			ID: "c3", Name: "Asha Patel", Mobile: "9000000000",
			Role: "Accountant", Source: "Indeed",
			CurrentStage: pipeline.StageSelected, RequirementID: "req-2",
			CreatedAt: now,
		},
	}
}

func TestWriteReport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.xlsx")
	if err := WriteReport(sampleCandidates(), out); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("Failed to open generated report: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Summary", "Candidates", "Timeline"} {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			t.Errorf("Missing sheet %q", sheet)
		}
	}

	total, _ := f.GetCellValue("Summary", "B3")
	if total != "3" {
		t.Errorf("Expected total 3, got %q", total)
	}

	name, _ := f.GetCellValue("Candidates", "B2")
	if name != "Jane Fernandes" {
		t.Errorf("Expected first candidate row, got %q", name)
	}
	status, _ := f.GetCellValue("Candidates", "G2")
	if status != "Shortlisted" {
		t.Errorf("Expected derived status Shortlisted, got %q", status)
	}

	action, _ := f.GetCellValue("Timeline", "B2")
	if action != "cv_uploaded" {
		t.Errorf("Expected first timeline action, got %q", action)
	}
	by, _ := f.GetCellValue("Timeline", "D3")
	if by != "Priya" {
		t.Errorf("Expected second timeline actor, got %q", by)
	}
}

func TestWriteReportAppendsExtension(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report")
	if err := WriteReport(nil, out); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	if _, err := excelize.OpenFile(out + ".xlsx"); err != nil {
		t.Errorf("Expected report at %s.xlsx: %v", out, err)
	}
}

func TestWriteReportSummaryCounts(t *testing.T) {
	out := filepath.Join(t.TempDir(), "counts.xlsx")
	if err := WriteReport(sampleCandidates(), out); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	// Stage rows start at row 6 in StageOrder order.
	for i, stage := range pipeline.StageOrder {
		label, _ := f.GetCellValue("Summary", "A"+strconv.Itoa(6+i))
		if label != string(stage) {
			t.Errorf("Row %d: expected %q, got %q", 6+i, stage, label)
		}
	}
	telRow := 6 + indexOf(pipeline.StageTelephonic)
	count, _ := f.GetCellValue("Summary", "B"+strconv.Itoa(telRow))
	if count != "2" {
		t.Errorf("Expected 2 candidates in Telephonic, got %q", count)
	}
}

func indexOf(stage pipeline.Stage) int {
	for i, s := range pipeline.StageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}
