package view

import (
	"strings"

	"hr-pipeline/internal/pipeline"
)

// Badge is the visual class a status label maps to. Callers own the actual
// rendering; this layer only decides which class applies.
type Badge string

const (
	BadgeSuccess Badge = "success"
	BadgeDanger  Badge = "danger"
	BadgeWarning Badge = "warning"
	BadgeInfo    Badge = "info"
	BadgeNeutral Badge = "neutral"
)

var badgeByStatus = map[string]Badge{
	"Pending":             BadgeWarning,
	"Shortlisted":         BadgeInfo,
	"Interview Scheduled": BadgeInfo,
	"In Process":          BadgeInfo,
	"Selected":            BadgeSuccess,
	"Rejected":            BadgeDanger,
	"No Show":             BadgeDanger,
}

// statusByStage derives the display status from the authoritative stage.
// Display status is never stored; it always follows the stage.
var statusByStage = map[pipeline.Stage]string{
	pipeline.StageShortlisting:      "Pending",
	pipeline.StageTelephonic:        "Shortlisted",
	pipeline.StageOwnerDiscussion:   "Shortlisted",
	pipeline.StageScheduleInterview: "Shortlisted",
	pipeline.StageWalkIn:            "Interview Scheduled",
	pipeline.StageHRInterview:       "In Process",
	pipeline.StageTests:             "In Process",
	pipeline.StageFinalReview:       "In Process",
	pipeline.StageSelected:          "Selected",
	pipeline.StageRejected:          "Rejected",
}

// Row is one renderable entry: display fields, the derived status with its
// badge, and the actions legal for the stage being viewed.
type Row struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Mobile        string         `json:"mobile"`
	Role          string         `json:"role"`
	Source        string         `json:"source"`
	RequirementID string         `json:"requirementId"`
	Stage         pipeline.Stage `json:"stage"`
	Status        string         `json:"status"`
	Badge         Badge          `json:"badge"`
	Actions       []string       `json:"actions"`
}

// StatusLabel derives the display status for a candidate. A rejection tagged
// "No Show" surfaces as No Show rather than the generic Rejected.
func StatusLabel(c *pipeline.Candidate) string {
	if c.CurrentStage == pipeline.StageRejected {
		if n := len(c.Timeline); n > 0 {
			last := c.Timeline[n-1]
			if last.Action == "rejected" && strings.HasPrefix(last.Notes, "No Show") {
				return "No Show"
			}
		}
		return "Rejected"
	}
	if label, ok := statusByStage[c.CurrentStage]; ok {
		return label
	}
	return string(c.CurrentStage)
}

// BadgeFor maps a status label to its badge class; unrecognized labels get
// the neutral badge.
func BadgeFor(status string) Badge {
	if b, ok := badgeByStatus[status]; ok {
		return b
	}
	return BadgeNeutral
}

// Project maps candidates in the given stage to renderable rows. Pure and
// stateless; safe to recompute on every render. The action list is the
// static per-stage list from the transition table, independent of candidate
// data.
func Project(candidates []*pipeline.Candidate, stage pipeline.Stage) []Row {
	actions := pipeline.ActionsFor(stage)
	var rows []Row
	for _, c := range candidates {
		if c.CurrentStage != stage {
			continue
		}
		status := StatusLabel(c)
		rows = append(rows, Row{
			ID:            c.ID,
			Name:          c.Name,
			Mobile:        c.Mobile,
			Role:          c.Role,
			Source:        c.Source,
			RequirementID: c.RequirementID,
			Stage:         c.CurrentStage,
			Status:        status,
			Badge:         BadgeFor(status),
			Actions:       actions,
		})
	}
	return rows
}
