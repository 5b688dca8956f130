package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hr-pipeline/internal/pipeline"
	"hr-pipeline/internal/session"
)

func authedSession() *session.Session {
	s := session.New()
	s.Begin(session.User{ID: "u1", Name: "tester"},
		map[string][]string{"candidates": {"*"}}, "stale-token", "refresh-token")
	return s
}

func TestCallRetriesOnceAfterRefresh(t *testing.T) {
	attempts := 0
	refreshes := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			refreshes++
			json.NewEncoder(w).Encode(map[string]string{
				"accessToken":  "fresh-token",
				"refreshToken": "fresh-refresh",
			})
		case "/api/candidates/c1/telephonic":
			attempts++
			if r.Header.Get("Authorization") != "Bearer fresh-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	sess := authedSession()
	client := NewClient(srv.URL, sess, 5*time.Second)

	err := client.PersistTransition(context.Background(), "candidates.updateTelephonic", "c1", pipeline.Payload{"status": "Interested"})
	if err != nil {
		t.Fatalf("Expected transparent retry to succeed, got %v", err)
	}
	if attempts != 2 || refreshes != 1 {
		t.Errorf("Expected 2 attempts and 1 refresh, got %d/%d", attempts, refreshes)
	}
	if sess.AccessToken() != "fresh-token" {
		t.Errorf("Session tokens not rotated: %q", sess.AccessToken())
	}
}

func TestSecondUnauthorizedEndsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			json.NewEncoder(w).Encode(map[string]string{
				"accessToken":  "still-bad",
				"refreshToken": "still-bad",
			})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess := authedSession()
	loggedOut := false
	sess.OnLogout(func() { loggedOut = true })
	client := NewClient(srv.URL, sess, 5*time.Second)

	err := client.PersistTransition(context.Background(), "candidates.updateTelephonic", "c1", pipeline.Payload{"status": "Interested"})
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Expected ErrSessionExpired, got %v", err)
	}
	if !loggedOut {
		t.Error("Logout hook did not fire")
	}
	if sess.IsAuthenticated() {
		t.Error("Session should be cleared")
	}
}

func TestFailedRefreshEndsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess := authedSession()
	client := NewClient(srv.URL, sess, 5*time.Second)

	err := client.PersistTransition(context.Background(), "candidates.updateTelephonic", "c1", pipeline.Payload{"status": "Interested"})
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Expected ErrSessionExpired, got %v", err)
	}
	if sess.IsAuthenticated() {
		t.Error("Session should be cleared after a failed refresh")
	}
}

func TestAPIErrorsPassThroughWithoutRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "status must be one of Interested, Not Interested"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, authedSession(), 5*time.Second)
	err := client.PersistTransition(context.Background(), "candidates.updateTelephonic", "c1", pipeline.Payload{"status": "Maybe"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", apiErr.StatusCode)
	}
	if apiErr.Op != "candidates.updateTelephonic" {
		t.Errorf("Expected op on the error, got %q", apiErr.Op)
	}
	if attempts != 1 {
		t.Errorf("Expected exactly one attempt, got %d", attempts)
	}
}

func TestFetchByStageSendsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("stage"); got != "Schedule Interview" {
			t.Errorf("Expected stage query, got %q", got)
		}
		json.NewEncoder(w).Encode([]*pipeline.Candidate{
			{ID: "c1", Name: "Jane", CurrentStage: pipeline.StageScheduleInterview},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, authedSession(), 5*time.Second)
	got, err := client.FetchByStage(context.Background(), pipeline.StageScheduleInterview)
	if err != nil {
		t.Fatalf("FetchByStage failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c1" {
		t.Errorf("Unexpected candidates: %v", got)
	}
}

func TestUploadCandidatesSendsMultipart(t *testing.T) {
	dir := t.TempDir()
	cvPath := filepath.Join(dir, "Jane_9876543210_Naukri.txt")
	if err := os.WriteFile(cvPath, []byte("Jane's CV"), 0644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("Expected multipart request: %v", err)
		}

		var meta struct {
			RequirementID string                     `json:"requirementId"`
			Candidates    []pipeline.IntakeCandidate `json:"candidates"`
		}
		if err := json.Unmarshal([]byte(r.FormValue("metadata")), &meta); err != nil {
			t.Fatalf("Bad metadata part: %v", err)
		}
		if meta.RequirementID != "req-1" || len(meta.Candidates) != 1 {
			t.Errorf("Unexpected metadata: %+v", meta)
		}

		files := r.MultipartForm.File["files"]
		if len(files) != 1 || files[0].Filename != "Jane_9876543210_Naukri.txt" {
			t.Errorf("Unexpected files: %v", files)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]*pipeline.Candidate{
			{ID: "c1", Name: "Jane", CurrentStage: pipeline.StageShortlisting, RequirementID: "req-1"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, authedSession(), 5*time.Second)
	created, err := client.UploadCandidates(context.Background(), "req-1", []pipeline.IntakeCandidate{
		{Name: "Jane", Mobile: "9876543210", Source: "Naukri", FileName: "Jane_9876543210_Naukri.txt", FilePath: cvPath},
	})
	if err != nil {
		t.Fatalf("UploadCandidates failed: %v", err)
	}
	if len(created) != 1 || created[0].CurrentStage != pipeline.StageShortlisting {
		t.Errorf("Unexpected created candidates: %v", created)
	}
}

func TestLoginInstallsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken":  "a1",
			"refreshToken": "r1",
			"user":         session.User{ID: "u1", Name: "Priya", Role: "HR Admin"},
			"permissions":  map[string][]string{"candidates": {"*"}},
		})
	}))
	defer srv.Close()

	sess := session.New()
	client := NewClient(srv.URL, sess, 5*time.Second)
	if err := client.Login(context.Background(), "priya", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !sess.IsAuthenticated() {
		t.Error("Session not authenticated after login")
	}
	if !sess.HasPermission("candidates", "update") {
		t.Error("Permissions not installed")
	}
	if sess.ActorName() != "Priya" {
		t.Errorf("Expected actor Priya, got %q", sess.ActorName())
	}
}

func TestGenerateMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["templateType"] != "interview_invite" {
			t.Errorf("Unexpected template type %q", req["templateType"])
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "Dear Jane, ..."})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, authedSession(), 5*time.Second)
	msg, err := client.GenerateMessage(context.Background(), "c1", "interview_invite")
	if err != nil {
		t.Fatalf("GenerateMessage failed: %v", err)
	}
	if msg != "Dear Jane, ..." {
		t.Errorf("Unexpected message %q", msg)
	}
}
