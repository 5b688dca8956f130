package pipeline

import "strings"

// Field describes one payload field a transition requires or accepts.
// An empty Enum means free text.
type Field struct {
	Name     string
	Required bool
	Enum     []string
}

// Transition is one row of the stage table: the single canonical advance out
// of a stage, its gateway operation, its payload schema, and the label the
// view renders for it. The table is the only source of truth for stage
// ordering, payload validation, and action affordances.
type Transition struct {
	Action    string
	Op        string
	Successor Stage
	Fields    []Field
	Label     string
}

// Payload carries the stage-specific data captured for a transition.
type Payload map[string]string

var transitions = map[Stage]Transition{
	StageShortlisting: {
		Action:    "shortlisted",
		Op:        "candidates.updateShortlist",
		Successor: StageTelephonic,
		Fields: []Field{
			{Name: "notes"},
		},
		Label: "Move to Telephonic",
	},
	StageTelephonic: {
		Action:    "telephonic_round",
		Op:        "candidates.updateTelephonic",
		Successor: StageOwnerDiscussion,
		Fields: []Field{
			{Name: "status", Required: true, Enum: TelephonicStatuses},
			{Name: "notes"},
		},
		Label: "Record Call Result",
	},
	StageOwnerDiscussion: {
		Action:    "owner_discussion",
		Op:        "candidates.updateOwnerDiscussion",
		Successor: StageScheduleInterview,
		Fields: []Field{
			{Name: "decision", Required: true, Enum: OwnerDecisions},
			{Name: "notes"},
		},
		Label: "Record Owner Decision",
	},
	StageScheduleInterview: {
		Action:    "interview_scheduled",
		Op:        "candidates.scheduleInterview",
		Successor: StageWalkIn,
		Fields: []Field{
			{Name: "date", Required: true},
			{Name: "time", Required: true},
			{Name: "status", Required: true, Enum: ScheduleStatuses},
		},
		Label: "Schedule Interview",
	},
	StageWalkIn: {
		Action:    "walkin_result",
		Op:        "candidates.updateWalkin",
		Successor: StageHRInterview,
		Fields: []Field{
			{Name: "status", Required: true, Enum: WalkinStatuses},
			{Name: "notes"},
		},
		Label: "Record Walk-in Result",
	},
	StageHRInterview: {
		Action:    "hr_interview",
		Op:        "candidates.updateHRInterview",
		Successor: StageTests,
		Fields: []Field{
			{Name: "status", Required: true, Enum: HRInterviewStatuses},
			{Name: "notes"},
		},
		Label: "Record HR Interview",
	},
	StageTests: {
		Action:    "tests_result",
		Op:        "candidates.updateTests",
		Successor: StageFinalReview,
		Fields: []Field{
			{Name: "result", Required: true, Enum: TestResults},
			{Name: "notes"},
		},
		Label: "Record Test Result",
	},
	StageFinalReview: {
		Action:    "final_selection",
		Op:        "candidates.updateFinalReview",
		Successor: StageSelected,
		Fields: []Field{
			{Name: "notes"},
		},
		Label: "Mark Selected",
	},
}

// rejectTransition is legal from every non-terminal stage and absorbing.
var rejectTransition = Transition{
	Action:    "rejected",
	Op:        "candidates.reject",
	Successor: StageRejected,
	Fields: []Field{
		{Name: "tag", Required: true, Enum: RejectionTags},
		{Name: "reason"},
	},
	Label: "Reject",
}

// TransitionFor returns the canonical advance transition out of s.
func TransitionFor(s Stage) (Transition, bool) {
	t, ok := transitions[s]
	return t, ok
}

// RejectTransition returns the universal rejection transition.
func RejectTransition() Transition {
	return rejectTransition
}

// ActionsFor returns the action labels rendered for a stage. Terminal stages
// offer no actions.
func ActionsFor(s Stage) []string {
	t, ok := transitions[s]
	if !ok {
		return nil
	}
	return []string{t.Label, rejectTransition.Label}
}

// Validate checks p against the transition's field schema: required fields
// must be present and non-empty, enum fields must hold an allowed value, and
// fields outside the schema are refused.
func (t Transition) Validate(p Payload) error {
	for _, f := range t.Fields {
		v, ok := p[f.Name]
		if f.Required && (!ok || strings.TrimSpace(v) == "") {
			return &ValidationError{Field: f.Name, Reason: "required"}
		}
		if !ok || v == "" {
			continue
		}
		if len(f.Enum) > 0 && !contains(f.Enum, v) {
			return &ValidationError{Field: f.Name, Reason: "must be one of " + strings.Join(f.Enum, ", ")}
		}
	}
	for k := range p {
		if !t.hasField(k) {
			return &ValidationError{Field: k, Reason: "not part of the " + string(t.Successor) + " transition payload"}
		}
	}
	return nil
}

func (t Transition) hasField(name string) bool {
	for _, f := range t.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
