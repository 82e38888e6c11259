package watch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolveit/internal/api"
	"resolveit/internal/complaint"
	"resolveit/internal/config"
	"resolveit/internal/health"
	"resolveit/internal/session"
	"resolveit/internal/storage"
)

func testWatcher(t *testing.T, complaints *[]map[string]interface{}) (*Watcher, *storage.Storage) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/complaints", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(*complaints)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, sessions.Login("token", complaint.User{ID: 1, Name: "Watcher", Role: "ADMIN"}))

	client := api.New(srv.URL, sessions).WithHTTPClient(srv.Client())

	store := storage.New(filepath.Join(t.TempDir(), "watch.csv"))

	cfg := &config.Config{
		BaseURL:         srv.URL,
		PollInterval:    time.Minute,
		FetchTimeout:    10 * time.Second,
		WorkerPoolSize:  2,
		MaxLoginRetries: 1,
		LoginRetryDelay: time.Millisecond,
	}

	// nil telegram client: notifications become no-ops but the diff
	// logic still runs end to end
	return New(cfg, client, store, nil, health.NewMonitor()), store
}

func TestPollTracksNewOpenComplaints(t *testing.T) {
	complaints := []map[string]interface{}{
		{"id": 1, "title": "Broken light", "status": "New"},
		{"id": 2, "title": "Leaky tap", "status": "In Progress"},
		{"id": 3, "title": "Old issue", "status": "Resolved"},
	}
	w, store := testWatcher(t, &complaints)

	require.NoError(t, w.poll(context.Background()))

	assert.False(t, store.IsNew("1"))
	assert.False(t, store.IsNew("2"))
	// Resolved complaints are never picked up as new
	assert.True(t, store.IsNew("3"))

	assert.Equal(t, "New", store.LastStatus("1"))
	assert.Equal(t, "In Progress", store.LastStatus("2"))
}

func TestPollRecordsStatusChanges(t *testing.T) {
	complaints := []map[string]interface{}{
		{"id": 1, "title": "Broken light", "status": "New"},
	}
	w, store := testWatcher(t, &complaints)

	require.NoError(t, w.poll(context.Background()))
	require.Equal(t, "New", store.LastStatus("1"))

	complaints[0]["status"] = "In Progress"
	require.NoError(t, w.poll(context.Background()))
	assert.Equal(t, "In Progress", store.LastStatus("1"))
}

func TestPollDropsResolvedComplaints(t *testing.T) {
	complaints := []map[string]interface{}{
		{"id": 1, "title": "Broken light", "status": "New"},
	}
	w, store := testWatcher(t, &complaints)

	require.NoError(t, w.poll(context.Background()))
	require.False(t, store.IsNew("1"))

	complaints[0]["status"] = "Resolved"
	require.NoError(t, w.poll(context.Background()))
	assert.True(t, store.IsNew("1"), "resolved complaint should leave tracking")
}

func TestPollDropsVanishedComplaints(t *testing.T) {
	complaints := []map[string]interface{}{
		{"id": 1, "title": "Broken light", "status": "New"},
		{"id": 2, "title": "Leaky tap", "status": "Open"},
	}
	w, store := testWatcher(t, &complaints)

	require.NoError(t, w.poll(context.Background()))
	require.False(t, store.IsNew("2"))

	complaints = complaints[:1]
	require.NoError(t, w.poll(context.Background()))
	assert.True(t, store.IsNew("2"), "vanished complaint should leave tracking")
	assert.False(t, store.IsNew("1"))
}

func TestWorkerPoolCollectsResults(t *testing.T) {
	pool := NewWorkerPool(nil, 3)

	go func() {
		for i := int64(1); i <= 5; i++ {
			pool.Submit(complaint.Complaint{ID: i, Title: "c", Status: "New"})
		}
		pool.Close()
	}()

	var results []ProcessResult
	for r := range pool.Results() {
		require.NoError(t, r.Error)
		results = append(results, r)
	}
	assert.Len(t, results, 5)
}
