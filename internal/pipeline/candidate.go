package pipeline

import "time"

// TimelineEntry is one record in a candidate's audit trail. The timeline is
// append-only; entries are never mutated or reordered after insertion.
type TimelineEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	By        string    `json:"by"`
	Notes     string    `json:"notes,omitempty"`
}

// Candidate is a person moving through the hiring pipeline. CurrentStage is
// the authoritative position; display status is derived from it elsewhere
// and never stored here.
type Candidate struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Mobile        string          `json:"mobile"`
	Source        string          `json:"source"`
	Role          string          `json:"role"`
	CurrentStage  Stage           `json:"currentStage"`
	RequirementID string          `json:"requirementId"`
	Timeline      []TimelineEntry `json:"timeline"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Clone returns a deep copy. The engine hands out clones so callers can
// never mutate pipeline state directly.
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Timeline = make([]TimelineEntry, len(c.Timeline))
	copy(cp.Timeline, c.Timeline)
	return &cp
}

// Requirement statuses. Review transitions are one-way: Pending moves to
// Approved or Rejected, and Approved may later be Closed.
const (
	RequirementPending  = "Pending"
	RequirementApproved = "Approved"
	RequirementRejected = "Rejected"
	RequirementClosed   = "Closed"
)

// Requirement is an approved hiring need that candidates are sourced
// against. Only Approved requirements accept candidate intake.
type Requirement struct {
	ID             string    `json:"id"`
	Role           string    `json:"role"`
	VacancyCount   int       `json:"vacancyCount"`
	Experience     string    `json:"experience"`
	SalaryRange    string    `json:"salaryRange"`
	JobDescription string    `json:"jobDescription"`
	Status         string    `json:"status"`
	RaisedBy       string    `json:"raisedBy"`
	CreatedDate    time.Time `json:"createdDate"`
}

// IntakeCandidate is a validated intake record ready for upload: parsed
// filename metadata plus the CV file it came from.
type IntakeCandidate struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Source   string `json:"source"`
	FileName string `json:"filename"`
	FilePath string `json:"-"`
}
