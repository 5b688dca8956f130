package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation - must be registered first
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Health check (for Railway, k8s, etc.)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Auth
	mux.HandleFunc("POST /api/auth/login", a.LoginHandler)
	mux.HandleFunc("POST /api/auth/refresh", a.RefreshHandler)

	// Candidates
	mux.HandleFunc("POST /api/candidates/upload", a.requireAuth(a.UploadCandidatesHandler))
	mux.HandleFunc("GET /api/candidates", a.requireAuth(a.ListCandidatesHandler))
	mux.HandleFunc("GET /api/candidates/{id}", a.requireAuth(a.GetCandidateHandler))
	mux.HandleFunc("POST /api/candidates/{id}/message", a.requireAuth(a.GenerateMessageHandler))
	mux.HandleFunc("POST /api/candidates/{id}/reject", a.requireAuth(a.RejectCandidateHandler))

	// Stage transitions, one route per operation of the transition table
	stageOps := map[string]string{
		"shortlist":        "candidates.updateShortlist",
		"telephonic":       "candidates.updateTelephonic",
		"owner-discussion": "candidates.updateOwnerDiscussion",
		"schedule":         "candidates.scheduleInterview",
		"walkin":           "candidates.updateWalkin",
		"hr-interview":     "candidates.updateHRInterview",
		"tests":            "candidates.updateTests",
		"final-review":     "candidates.updateFinalReview",
	}
	for path, op := range stageOps {
		mux.HandleFunc("POST /api/candidates/{id}/"+path, a.requireAuth(a.TransitionHandler(op)))
	}

	// Requirements
	mux.HandleFunc("GET /api/requirements", a.requireAuth(a.ListRequirementsHandler))
	mux.HandleFunc("POST /api/requirements", a.requireAuth(a.CreateRequirementHandler))
	mux.HandleFunc("POST /api/requirements/{id}/approve", a.requireAuth(a.ApproveRequirementHandler))
	mux.HandleFunc("POST /api/requirements/{id}/reject", a.requireAuth(a.RejectRequirementHandler))

	return mux
}
