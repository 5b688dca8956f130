package api

import (
	"encoding/json"
	"net/http"
	"os"

	"hr-pipeline/internal/intake"
	"hr-pipeline/internal/storage"
)

type API struct {
	db        *storage.DB
	extractor *intake.Extractor
	auth      *tokenStore
	maxCVSize int64
}

func NewAPI(db *storage.DB) *API {
	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}

	return &API{
		db:        db,
		extractor: intake.NewExtractor(uploadsDir),
		auth:      newTokenStore(),
		maxCVSize: intake.MaxFileSize,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
