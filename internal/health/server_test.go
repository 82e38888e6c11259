package health

import "testing"

func TestMonitorStartsHealthy(t *testing.T) {
	m := NewMonitor()
	status := m.GetStatus()

	if status.Status != "healthy" {
		t.Errorf("Expected healthy before first poll, got %q", status.Status)
	}
	if status.LastPollStatus != "not started" {
		t.Errorf("Expected last_poll_status 'not started', got %q", status.LastPollStatus)
	}
	if status.PollCycles != 0 {
		t.Errorf("Expected 0 poll cycles, got %d", status.PollCycles)
	}
}

func TestMonitorTracksPollOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []string
		wantHealth string
		wantCycles int64
	}{
		{"single success", []string{"success"}, "healthy", 1},
		{"single failure", []string{"connection refused"}, "unhealthy", 1},
		{"recovery after failure", []string{"connection refused", "success"}, "healthy", 2},
		{"failure after success", []string{"success", "timeout"}, "unhealthy", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor()
			for _, s := range tt.statuses {
				m.UpdatePollStatus(s)
			}

			status := m.GetStatus()
			if status.Status != tt.wantHealth {
				t.Errorf("Expected status %q, got %q", tt.wantHealth, status.Status)
			}
			if status.PollCycles != tt.wantCycles {
				t.Errorf("Expected %d poll cycles, got %d", tt.wantCycles, status.PollCycles)
			}
		})
	}
}

func TestMonitorCounters(t *testing.T) {
	m := NewMonitor()
	m.SetTrackedComplaints(7)
	m.NotificationSent()
	m.NotificationSent()

	status := m.GetStatus()
	if status.TrackedComplaints != 7 {
		t.Errorf("Expected 7 tracked complaints, got %d", status.TrackedComplaints)
	}
	if status.NotificationsSent != 2 {
		t.Errorf("Expected 2 notifications sent, got %d", status.NotificationsSent)
	}
}
