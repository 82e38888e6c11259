package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"resolveit/internal/complaint"
	"resolveit/internal/session"
)

// testBackend points the CLI config and session at an httptest server.
func testBackend(t *testing.T, handler http.Handler, user complaint.User) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sessionFile := filepath.Join(t.TempDir(), "session.json")
	store := session.NewStore(sessionFile)
	if err := store.Login("test-token", user); err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}

	t.Setenv("RESOLVEIT_BASE_URL", srv.URL)
	t.Setenv("RESOLVEIT_SESSION_FILE", sessionFile)
	return srv
}

func TestResolveCommandBlockedForUnassignedStaff(t *testing.T) {
	resolved := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api/complaints/42", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":         42,
			"title":      "Wifi down",
			"status":     "In Progress",
			"assignedTo": map[string]interface{}{"id": 99, "name": "Someone Else"},
		})
	})
	mux.HandleFunc("/api/complaints/42/resolve", func(w http.ResponseWriter, r *http.Request) {
		resolved = true
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})
	testBackend(t, mux, complaint.User{ID: 1, Name: "Stan Staff", Role: "STAFF"})

	cmd := complaintsResolveCmd()
	cmd.SetArgs([]string{"42"})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected resolve to be denied for staff not assigned to the complaint")
	}
	if !strings.Contains(err.Error(), "not assigned to you") {
		t.Errorf("Expected assignment denial, got: %v", err)
	}
	if resolved {
		t.Error("Resolve endpoint must not be hit when the local check denies")
	}
}

func TestNoteCommandBlockedForPlainUser(t *testing.T) {
	noted := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api/complaints/42", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 42, "title": "Wifi down", "status": "In Progress",
		})
	})
	mux.HandleFunc("/api/complaints/42/progress-note", func(w http.ResponseWriter, r *http.Request) {
		noted = true
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})
	testBackend(t, mux, complaint.User{ID: 5, Name: "Uma User", Role: "USER"})

	cmd := complaintsNoteCmd()
	cmd.SetArgs([]string{"42", "looked at it"})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected note to be denied for a plain user")
	}
	if noted {
		t.Error("Note endpoint must not be hit when the local check denies")
	}
}

func TestResolveCommandAllowedForAssignedStaff(t *testing.T) {
	resolved := false
	status := "In Progress"
	mux := http.NewServeMux()
	mux.HandleFunc("/api/complaints/42", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":         42,
			"title":      "Wifi down",
			"status":     status,
			"assignedTo": map[string]interface{}{"id": 1, "name": "Stan Staff"},
		})
	})
	mux.HandleFunc("/api/complaints/42/resolve", func(w http.ResponseWriter, r *http.Request) {
		resolved = true
		status = "Resolved"
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})
	testBackend(t, mux, complaint.User{ID: 1, Name: "Stan Staff", Role: "STAFF"})

	cmd := complaintsResolveCmd()
	cmd.SetArgs([]string{"42"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Expected resolve to succeed for the assignee: %v", err)
	}
	if !resolved {
		t.Error("Expected the resolve endpoint to be hit")
	}
}
