package pipeline

// Stage is one position in the fixed hiring pipeline. Candidates enter at
// Shortlisting and advance one stage at a time; Rejected is reachable from
// any non-terminal stage.
type Stage string

const (
	StageShortlisting      Stage = "Shortlisting"
	StageTelephonic        Stage = "Telephonic"
	StageOwnerDiscussion   Stage = "Owner Discussion"
	StageScheduleInterview Stage = "Schedule Interview"
	StageWalkIn            Stage = "Walk-in"
	StageHRInterview       Stage = "HR Interview"
	StageTests             Stage = "Tests"
	StageFinalReview       Stage = "Final Review"
	StageSelected          Stage = "Selected"
	StageRejected          Stage = "Rejected"
)

// StageOrder is the forward sequence of the pipeline, excluding Rejected.
var StageOrder = []Stage{
	StageShortlisting,
	StageTelephonic,
	StageOwnerDiscussion,
	StageScheduleInterview,
	StageWalkIn,
	StageHRInterview,
	StageTests,
	StageFinalReview,
	StageSelected,
}

// Valid reports whether s is a member of the stage enumeration.
func (s Stage) Valid() bool {
	if s == StageRejected {
		return true
	}
	for _, st := range StageOrder {
		if st == s {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are permitted out of s.
func (s Stage) Terminal() bool {
	return s == StageSelected || s == StageRejected
}

// Fixed enumerations shared with the remote API. These must match the server
// exactly; payload validation is done against them on both sides.
var (
	TelephonicStatuses = []string{"Interested", "Not Interested", "Not Reachable", "Call Back Later"}

	OwnerDecisions = []string{"Approved", "On Hold", "Rejected"}

	ScheduleStatuses = []string{"Scheduled", "Rescheduled", "Confirmed"}

	WalkinStatuses = []string{"Attended", "No Show"}

	HRInterviewStatuses = []string{"Cleared", "On Hold", "Needs Second Round"}

	TestResults = []string{"Passed", "Failed", "Waived"}

	RejectionTags = []string{
		"Not Qualified",
		"Salary Mismatch",
		"Location Issue",
		"No Show",
		"Not Interested",
		"Documents Pending",
		"Other",
	}

	JobRoles = []string{
		"Sales Executive",
		"Team Leader",
		"HR Executive",
		"Accountant",
		"Telecaller",
		"Operations Manager",
		"Store Manager",
	}
)
