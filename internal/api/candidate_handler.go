package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"hr-pipeline/internal/pipeline"

	"github.com/google/uuid"
)

type uploadMetadata struct {
	RequirementID string                     `json:"requirementId"`
	Candidates    []pipeline.IntakeCandidate `json:"candidates"`
}

// UploadCandidatesHandler ingests a validated CV batch
// @Summary Upload CVs
// @Description Upload a batch of CV files plus metadata; creates candidates at the Shortlisting stage
// @Tags candidates
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "CV files"
// @Param metadata formData string true "JSON metadata: requirementId + candidates"
// @Success 201 {array} pipeline.Candidate
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /candidates/upload [post]
func (a *API) UploadCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var meta uploadMetadata
	if err := json.Unmarshal([]byte(r.FormValue("metadata")), &meta); err != nil {
		writeError(w, http.StatusBadRequest, "invalid metadata JSON")
		return
	}
	if meta.RequirementID == "" {
		writeError(w, http.StatusBadRequest, "requirementId is required")
		return
	}
	if len(meta.Candidates) == 0 {
		writeError(w, http.StatusBadRequest, "empty candidate batch")
		return
	}

	req, err := a.db.GetRequirement(r.Context(), meta.RequirementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "requirement not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if req.Status != pipeline.RequirementApproved {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("requirement %s is %s; intake needs Approved", req.ID, req.Status))
		return
	}

	// Index uploaded files by name so each candidate record can find its CV.
	files := map[string]int{}
	if r.MultipartForm != nil {
		for i, fh := range r.MultipartForm.File["files"] {
			files[fh.Filename] = i
		}
	}

	actor := userFrom(r.Context())
	now := time.Now().UTC()
	var created []*pipeline.Candidate

	for _, rec := range meta.Candidates {
		c := &pipeline.Candidate{
			ID:            uuid.New().String(),
			Name:          rec.Name,
			Mobile:        rec.Mobile,
			Source:        rec.Source,
			Role:          req.Role,
			CurrentStage:  pipeline.StageShortlisting,
			RequirementID: req.ID,
			CreatedAt:     now,
			Timeline: []pipeline.TimelineEntry{{
				ID:        uuid.New().String(),
				Action:    "cv_uploaded",
				Timestamp: now,
				By:        actor.Name,
				Notes:     rec.FileName,
			}},
		}
		if err := a.db.InsertCandidate(r.Context(), c); err != nil {
			log.Printf("Failed to insert candidate %s: %v", rec.Name, err)
			writeError(w, http.StatusInternalServerError, "failed to store candidate")
			return
		}

		if idx, ok := files[rec.FileName]; ok {
			a.storeCV(r, c.ID, idx)
		}
		created = append(created, c)
	}

	log.Printf("Uploaded %d candidates for requirement %s", len(created), req.ID)
	writeJSON(w, http.StatusCreated, created)
}

// storeCV extracts and persists one uploaded CV. Extraction failures are
// logged, not fatal; the candidate already exists.
func (a *API) storeCV(r *http.Request, candidateID string, fileIndex int) {
	fh := r.MultipartForm.File["files"][fileIndex]
	if fh.Size > a.maxCVSize {
		log.Printf("CV %s over size limit, skipping storage", fh.Filename)
		return
	}
	file, err := fh.Open()
	if err != nil {
		log.Printf("Failed to open CV %s: %v", fh.Filename, err)
		return
	}
	defer file.Close()

	text, size, err := a.extractor.ExtractText(fh.Filename, file)
	if err != nil {
		log.Printf("Failed to extract text from %s: %v", fh.Filename, err)
	}
	if err := a.db.SaveCVFile(r.Context(), uuid.New().String(), candidateID, fh.Filename, text, size); err != nil {
		log.Printf("Failed to save CV file %s: %v", fh.Filename, err)
	}
}

// ListCandidatesHandler lists candidates by stage or requirement
// @Summary List candidates
// @Description List candidates filtered by stage or by requirement id
// @Tags candidates
// @Produce json
// @Param stage query string false "Pipeline stage"
// @Param requirementId query string false "Requirement id"
// @Success 200 {array} pipeline.Candidate
// @Failure 400 {object} map[string]string
// @Router /candidates [get]
func (a *API) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	stage := r.URL.Query().Get("stage")
	requirementID := r.URL.Query().Get("requirementId")

	var (
		candidates []*pipeline.Candidate
		err        error
	)
	switch {
	case requirementID != "":
		candidates, err = a.db.ListByRequirement(r.Context(), requirementID)
	case stage != "":
		if !pipeline.Stage(stage).Valid() {
			writeError(w, http.StatusBadRequest, "unknown stage "+stage)
			return
		}
		candidates, err = a.db.ListByStage(r.Context(), pipeline.Stage(stage))
	default:
		writeError(w, http.StatusBadRequest, "stage or requirementId is required")
		return
	}
	if err != nil {
		log.Printf("List candidates failed: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if candidates == nil {
		candidates = []*pipeline.Candidate{}
	}
	writeJSON(w, http.StatusOK, candidates)
}

// GetCandidateHandler returns one candidate
// @Summary Get candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate id"
// @Success 200 {object} pipeline.Candidate
// @Failure 404 {object} map[string]string
// @Router /candidates/{id} [get]
func (a *API) GetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	c, err := a.db.GetCandidate(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "candidate not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// TransitionHandler builds a handler for one stage-update operation. The
// same transition table the client engine uses is enforced here: the
// candidate must currently be in the stage the operation advances out of,
// and the payload must match that stage's schema.
func (a *API) TransitionHandler(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload pipeline.Payload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}

		c, err := a.db.GetCandidate(r.Context(), r.PathValue("id"))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "candidate not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		if c.CurrentStage.Terminal() {
			writeError(w, http.StatusConflict,
				fmt.Sprintf("candidate is in terminal stage %s", c.CurrentStage))
			return
		}

		t, ok := pipeline.TransitionFor(c.CurrentStage)
		if !ok || t.Op != op {
			writeError(w, http.StatusConflict,
				fmt.Sprintf("candidate is in stage %s; %s does not apply", c.CurrentStage, op))
			return
		}
		if err := t.Validate(payload); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		entry := pipeline.TimelineEntry{
			ID:        uuid.New().String(),
			Action:    t.Action,
			Timestamp: time.Now().UTC(),
			By:        userFrom(r.Context()).Name,
			Notes:     payload["notes"],
		}
		if err := a.db.UpdateStage(r.Context(), c.ID, t.Successor, entry); err != nil {
			log.Printf("Transition %s failed for %s: %v", op, c.ID, err)
			writeError(w, http.StatusInternalServerError, "failed to persist transition")
			return
		}

		c.CurrentStage = t.Successor
		c.Timeline = append(c.Timeline, entry)
		writeJSON(w, http.StatusOK, c)
	}
}

// RejectCandidateHandler rejects a candidate from any non-terminal stage
// @Summary Reject candidate
// @Tags candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate id"
// @Success 200 {object} pipeline.Candidate
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /candidates/{id}/reject [post]
func (a *API) RejectCandidateHandler(w http.ResponseWriter, r *http.Request) {
	var payload pipeline.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	c, err := a.db.GetCandidate(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "candidate not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if c.CurrentStage.Terminal() {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("candidate is in terminal stage %s", c.CurrentStage))
		return
	}

	t := pipeline.RejectTransition()
	if err := t.Validate(payload); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	notes := payload["tag"]
	if reason := payload["reason"]; reason != "" {
		notes += ": " + reason
	}
	entry := pipeline.TimelineEntry{
		ID:        uuid.New().String(),
		Action:    t.Action,
		Timestamp: time.Now().UTC(),
		By:        userFrom(r.Context()).Name,
		Notes:     notes,
	}
	if err := a.db.UpdateStage(r.Context(), c.ID, pipeline.StageRejected, entry); err != nil {
		log.Printf("Reject failed for %s: %v", c.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to persist rejection")
		return
	}

	c.CurrentStage = pipeline.StageRejected
	c.Timeline = append(c.Timeline, entry)
	writeJSON(w, http.StatusOK, c)
}

// GenerateMessageHandler renders a message artifact for a candidate
// @Summary Generate message
// @Description Render a message from a named template; no state change
// @Tags candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate id"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /candidates/{id}/message [post]
func (a *API) GenerateMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateType string `json:"templateType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	c, err := a.db.GetCandidate(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "candidate not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	msg, err := renderMessage(req.TemplateType, c)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}
