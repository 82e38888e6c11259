// Package health provides the health check endpoint for the watch daemon.
//
// This package implements:
//   - HTTP health check endpoint
//   - Poll cycle metrics tracking
//   - Uptime monitoring
package health

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"
)

// Status is the JSON body returned by the /health endpoint.
//
// Fields:
//   - Status: Overall health ("healthy" or "unhealthy")
//   - Uptime: How long the watcher has been running
//   - LastPollTime: When the last poll cycle completed
//   - LastPollStatus: "success" or the error message of the last cycle
//   - PollCycles: Total completed cycles since start
//   - TrackedComplaints: Complaints currently tracked in storage
//   - NotificationsSent: Telegram messages sent since start
type Status struct {
	Status            string `json:"status"`
	Uptime            string `json:"uptime"`
	LastPollTime      string `json:"last_poll_time"`
	LastPollStatus    string `json:"last_poll_status"`
	PollCycles        int64  `json:"poll_cycles"`
	TrackedComplaints int    `json:"tracked_complaints"`
	NotificationsSent int64  `json:"notifications_sent"`
}

// Monitor tracks watcher health metrics.
//
// All fields are protected by RWMutex, safe for concurrent updates from
// the poll loop and worker goroutines.
type Monitor struct {
	startTime         time.Time
	lastPollTime      time.Time
	lastPollStatus    string
	pollCycles        int64
	trackedComplaints int
	notificationsSent int64
	mu                sync.RWMutex
}

// NewMonitor creates a new health monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		startTime:      time.Now(),
		lastPollStatus: "not started",
	}
}

// UpdatePollStatus records the outcome of a completed poll cycle.
//
// Call with "success" after a clean cycle or with the error message when
// the cycle failed.
func (m *Monitor) UpdatePollStatus(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPollTime = time.Now()
	m.lastPollStatus = status
	m.pollCycles++
}

// SetTrackedComplaints records how many complaints storage is tracking.
func (m *Monitor) SetTrackedComplaints(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackedComplaints = n
}

// NotificationSent increments the notification counter.
func (m *Monitor) NotificationSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsSent++
}

// GetStatus returns the current health status.
//
// The watcher reports unhealthy when the last cycle failed; monitoring
// tools can alert on the status field alone.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	health := "healthy"
	if m.lastPollStatus != "success" && m.lastPollStatus != "not started" {
		health = "unhealthy"
	}

	return Status{
		Status:            health,
		Uptime:            time.Since(m.startTime).String(),
		LastPollTime:      m.lastPollTime.Format("2006-01-02 15:04:05"),
		LastPollStatus:    m.lastPollStatus,
		PollCycles:        m.pollCycles,
		TrackedComplaints: m.trackedComplaints,
		NotificationsSent: m.notificationsSent,
	}
}

// StartServer starts the health check HTTP server.
//
// Endpoints:
//   - GET /health: Returns JSON health status
//
// The server runs in a background goroutine and doesn't block.
//
// Example response:
//
//	{
//	  "status": "healthy",
//	  "uptime": "1h2m3s",
//	  "last_poll_time": "2026-01-15 10:30:00",
//	  "last_poll_status": "success",
//	  "poll_cycles": 12,
//	  "tracked_complaints": 4,
//	  "notifications_sent": 7
//	}
func StartServer(monitor *Monitor, port string) {
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := monitor.GetStatus()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(status)
	})

	go func() {
		log.Printf("✓ Health check server started on :%s", port)
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			log.Printf("⚠️  Health check server error: %v", err)
		}
	}()
}
