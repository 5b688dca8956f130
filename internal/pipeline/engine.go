package pipeline

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"hr-pipeline/internal/session"

	"github.com/google/uuid"
)

// Remote is the slice of the gateway the engine needs: one persistence call
// per transition, batch upload, and the stage/requirement fetches.
type Remote interface {
	PersistTransition(ctx context.Context, op, candidateID string, payload Payload) error
	UploadCandidates(ctx context.Context, requirementID string, batch []IntakeCandidate) ([]*Candidate, error)
	FetchByStage(ctx context.Context, stage Stage) ([]*Candidate, error)
	FetchByRequirement(ctx context.Context, requirementID string) ([]*Candidate, error)
}

// Engine owns the transition table and applies stage transitions. Local
// state is mutated only after the remote call confirms; a failed persist
// leaves the candidate byte-identical to its pre-call value. Transitions for
// the same candidate are serialized so they apply in issue order.
type Engine struct {
	store  *Store
	remote Remote
	sess   *session.Session

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(store *Store, remote Remote, sess *session.Session) *Engine {
	return &Engine{
		store:  store,
		remote: remote,
		sess:   sess,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (e *Engine) lockFor(id string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	return l
}

// Advance applies the canonical transition out of the candidate's current
// stage. The payload must match the stage's field schema. On success the
// candidate moves to the successor stage and exactly one timeline entry is
// appended; the updated candidate is returned.
func (e *Engine) Advance(ctx context.Context, id string, payload Payload) (*Candidate, error) {
	if !e.sess.HasPermission("candidates", "update") {
		return nil, session.ErrPermissionDenied
	}

	l := e.lockFor(id)
	l.Lock()
	defer l.Unlock()

	c, ok := e.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if c.CurrentStage.Terminal() {
		return nil, &TerminalStateError{CandidateID: id, Stage: c.CurrentStage}
	}

	t, ok := TransitionFor(c.CurrentStage)
	if !ok {
		return nil, &ValidationError{Field: "currentStage", Reason: "no transition defined for stage " + string(c.CurrentStage)}
	}
	if err := t.Validate(payload); err != nil {
		return nil, err
	}

	if err := e.remote.PersistTransition(ctx, t.Op, id, payload); err != nil {
		return nil, &PersistenceError{Op: t.Op, Err: err}
	}

	c.CurrentStage = t.Successor
	c.Timeline = append(c.Timeline, e.entry(t.Action, payload["notes"]))
	e.store.Put(c)

	log.Printf("[Pipeline] %s: %s -> %s by %s", id, t.Op, t.Successor, e.sess.ActorName())
	return c.Clone(), nil
}

// Reject moves the candidate to Rejected from any non-terminal stage. The
// tag must be one of the fixed rejection tags; reason is optional free text.
// Same atomicity contract as Advance.
func (e *Engine) Reject(ctx context.Context, id, tag, reason string) (*Candidate, error) {
	if !e.sess.HasPermission("candidates", "update") {
		return nil, session.ErrPermissionDenied
	}

	l := e.lockFor(id)
	l.Lock()
	defer l.Unlock()

	c, ok := e.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if c.CurrentStage.Terminal() {
		return nil, &TerminalStateError{CandidateID: id, Stage: c.CurrentStage}
	}

	t := RejectTransition()
	payload := Payload{"tag": tag}
	if reason != "" {
		payload["reason"] = reason
	}
	if err := t.Validate(payload); err != nil {
		return nil, err
	}

	if err := e.remote.PersistTransition(ctx, t.Op, id, payload); err != nil {
		return nil, &PersistenceError{Op: t.Op, Err: err}
	}

	notes := tag
	if reason != "" {
		notes = tag + ": " + reason
	}
	c.CurrentStage = StageRejected
	c.Timeline = append(c.Timeline, e.entry(t.Action, notes))
	e.store.Put(c)

	log.Printf("[Pipeline] %s: rejected (%s) by %s", id, tag, e.sess.ActorName())
	return c.Clone(), nil
}

// Ingest uploads a validated intake batch against a requirement and enters
// the created candidates at Shortlisting. The requirement id is checked
// before any network call.
func (e *Engine) Ingest(ctx context.Context, requirementID string, batch []IntakeCandidate) ([]*Candidate, error) {
	if !e.sess.HasPermission("candidates", "create") {
		return nil, session.ErrPermissionDenied
	}
	if strings.TrimSpace(requirementID) == "" {
		return nil, &ValidationError{Field: "requirementId", Reason: "required"}
	}
	if len(batch) == 0 {
		return nil, &ValidationError{Field: "candidates", Reason: "empty batch"}
	}

	created, err := e.remote.UploadCandidates(ctx, requirementID, batch)
	if err != nil {
		return nil, &PersistenceError{Op: "candidates.uploadCVs", Err: err}
	}
	for _, c := range created {
		e.store.Put(c)
	}
	log.Printf("[Pipeline] ingested %d candidates for requirement %s", len(created), requirementID)
	return created, nil
}

// Reload re-fetches the full stage list and resets the store from it.
func (e *Engine) Reload(ctx context.Context, stage Stage) error {
	cs, err := e.remote.FetchByStage(ctx, stage)
	if err != nil {
		return &PersistenceError{Op: "candidates.getByStage", Err: err}
	}
	e.store.Replace(cs)
	return nil
}

// ListByStage returns candidates currently in the given stage, preserving
// insertion order. Pure read; never fetches.
func (e *Engine) ListByStage(stage Stage) []*Candidate {
	var out []*Candidate
	for _, c := range e.store.All() {
		if c.CurrentStage == stage {
			out = append(out, c)
		}
	}
	return out
}

// FilterByText returns candidates whose name, mobile or role contains the
// query, case-insensitively. Pure read over the last-loaded set.
func (e *Engine) FilterByText(query string) []*Candidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return e.store.All()
	}
	var out []*Candidate
	for _, c := range e.store.All() {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(c.Mobile, q) ||
			strings.Contains(strings.ToLower(c.Role), q) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByRequirement re-fetches the requirement-scoped candidate set,
// resets the store from it, then filters by stage locally. An empty
// requirement id degrades to the pure stage filter.
func (e *Engine) FilterByRequirement(ctx context.Context, requirementID string, stage Stage) ([]*Candidate, error) {
	if strings.TrimSpace(requirementID) == "" {
		return e.ListByStage(stage), nil
	}
	cs, err := e.remote.FetchByRequirement(ctx, requirementID)
	if err != nil {
		return nil, &PersistenceError{Op: "candidates.getByRequirement", Err: err}
	}
	e.store.Replace(cs)
	return e.ListByStage(stage), nil
}

func (e *Engine) entry(action, notes string) TimelineEntry {
	return TimelineEntry{
		ID:        uuid.New().String(),
		Action:    action,
		Timestamp: time.Now().UTC(),
		By:        e.sess.ActorName(),
		Notes:     notes,
	}
}
