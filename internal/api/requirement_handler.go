package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"hr-pipeline/internal/pipeline"

	"github.com/google/uuid"
)

// ListRequirementsHandler lists hiring requirements
// @Summary List requirements
// @Tags requirements
// @Produce json
// @Param status query string false "Filter by status (Pending/Approved/Rejected/Closed)"
// @Success 200 {array} pipeline.Requirement
// @Router /requirements [get]
func (a *API) ListRequirementsHandler(w http.ResponseWriter, r *http.Request) {
	reqs, err := a.db.ListRequirements(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		log.Printf("List requirements failed: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if reqs == nil {
		reqs = []*pipeline.Requirement{}
	}
	writeJSON(w, http.StatusOK, reqs)
}

// CreateRequirementHandler raises a new requirement in Pending
// @Summary Create requirement
// @Tags requirements
// @Accept json
// @Produce json
// @Success 201 {object} pipeline.Requirement
// @Failure 422 {object} map[string]string
// @Router /requirements [post]
func (a *API) CreateRequirementHandler(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Requirement
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Role) == "" {
		writeError(w, http.StatusUnprocessableEntity, "role is required")
		return
	}
	if req.VacancyCount <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "vacancyCount must be positive")
		return
	}

	req.ID = uuid.New().String()
	req.Status = pipeline.RequirementPending
	req.RaisedBy = userFrom(r.Context()).Name
	req.CreatedDate = time.Now().UTC()

	if err := a.db.InsertRequirement(r.Context(), &req); err != nil {
		log.Printf("Insert requirement failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store requirement")
		return
	}
	writeJSON(w, http.StatusCreated, &req)
}

// ApproveRequirementHandler approves a pending requirement
// @Summary Approve requirement
// @Tags requirements
// @Accept json
// @Produce json
// @Param id path string true "Requirement id"
// @Success 200 {object} pipeline.Requirement
// @Failure 409 {object} map[string]string
// @Router /requirements/{id}/approve [post]
func (a *API) ApproveRequirementHandler(w http.ResponseWriter, r *http.Request) {
	a.reviewRequirement(w, r, pipeline.RequirementApproved)
}

// RejectRequirementHandler rejects a pending requirement
// @Summary Reject requirement
// @Tags requirements
// @Accept json
// @Produce json
// @Param id path string true "Requirement id"
// @Success 200 {object} pipeline.Requirement
// @Failure 409 {object} map[string]string
// @Router /requirements/{id}/reject [post]
func (a *API) RejectRequirementHandler(w http.ResponseWriter, r *http.Request) {
	a.reviewRequirement(w, r, pipeline.RequirementRejected)
}

func (a *API) reviewRequirement(w http.ResponseWriter, r *http.Request, newStatus string) {
	var req struct {
		ApprovedBy string `json:"approvedBy"`
		RejectedBy string `json:"rejectedBy"`
		Reason     string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	reviewer := req.ApprovedBy
	if newStatus == pipeline.RequirementRejected {
		reviewer = req.RejectedBy
	}
	if reviewer == "" {
		reviewer = userFrom(r.Context()).Name
	}

	id := r.PathValue("id")
	err := a.db.ReviewRequirement(r.Context(), id, newStatus, reviewer, req.Reason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusConflict, "requirement is not pending review")
			return
		}
		log.Printf("Review requirement %s failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to update requirement")
		return
	}

	updated, err := a.db.GetRequirement(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
