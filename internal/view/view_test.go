package view

import (
	"testing"

	"hr-pipeline/internal/pipeline"
)

func TestProjectFiltersByStageAndKeepsOrder(t *testing.T) {
	candidates := []*pipeline.Candidate{
		{ID: "a", Name: "Jane", CurrentStage: pipeline.StageScheduleInterview},
		{ID: "b", Name: "Ravi", CurrentStage: pipeline.StageTelephonic},
		{ID: "c", Name: "Asha", CurrentStage: pipeline.StageScheduleInterview},
	}

	rows := Project(candidates, pipeline.StageScheduleInterview)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "a" || rows[1].ID != "c" {
		t.Errorf("Row order wrong: %v, %v", rows[0].ID, rows[1].ID)
	}
	for _, row := range rows {
		if row.Stage != pipeline.StageScheduleInterview {
			t.Errorf("Row %s carries stage %q", row.ID, row.Stage)
		}
	}
}

func TestProjectActionsAreStageStatic(t *testing.T) {
	candidates := []*pipeline.Candidate{
		{ID: "a", CurrentStage: pipeline.StageTelephonic},
		{ID: "b", CurrentStage: pipeline.StageTelephonic},
	}
	rows := Project(candidates, pipeline.StageTelephonic)
	want := []string{"Record Call Result", "Reject"}
	for _, row := range rows {
		if len(row.Actions) != len(want) {
			t.Fatalf("Row %s: expected %d actions, got %d", row.ID, len(want), len(row.Actions))
		}
		for i := range want {
			if row.Actions[i] != want[i] {
				t.Errorf("Row %s action %d: expected %q, got %q", row.ID, i, want[i], row.Actions[i])
			}
		}
	}
}

func TestProjectTerminalStageHasNoActions(t *testing.T) {
	rows := Project([]*pipeline.Candidate{{ID: "a", CurrentStage: pipeline.StageSelected}}, pipeline.StageSelected)
	if len(rows) != 1 || len(rows[0].Actions) != 0 {
		t.Errorf("Selected candidates must render no actions: %+v", rows)
	}
}

func TestStatusLabelFollowsStage(t *testing.T) {
	cases := []struct {
		stage pipeline.Stage
		want  string
	}{
		{pipeline.StageShortlisting, "Pending"},
		{pipeline.StageTelephonic, "Shortlisted"},
		{pipeline.StageWalkIn, "Interview Scheduled"},
		{pipeline.StageTests, "In Process"},
		{pipeline.StageSelected, "Selected"},
		{pipeline.StageRejected, "Rejected"},
	}
	for _, tc := range cases {
		c := &pipeline.Candidate{CurrentStage: tc.stage}
		if got := StatusLabel(c); got != tc.want {
			t.Errorf("Stage %s: expected %q, got %q", tc.stage, tc.want, got)
		}
	}
}

func TestStatusLabelNoShow(t *testing.T) {
	c := &pipeline.Candidate{
		CurrentStage: pipeline.StageRejected,
		Timeline: []pipeline.TimelineEntry{
			{Action: "walkin_result"},
			{Action: "rejected", Notes: "No Show: did not attend"},
		},
	}
	if got := StatusLabel(c); got != "No Show" {
		t.Errorf("Expected No Show, got %q", got)
	}
}

func TestBadgeLookup(t *testing.T) {
	if BadgeFor("Selected") != BadgeSuccess {
		t.Error("Selected should map to the success badge")
	}
	if BadgeFor("Rejected") != BadgeDanger {
		t.Error("Rejected should map to the danger badge")
	}
	if BadgeFor("Something Unexpected") != BadgeNeutral {
		t.Error("Unknown status should map to the neutral badge")
	}
}
