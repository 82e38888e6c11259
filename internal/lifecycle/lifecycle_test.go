package lifecycle

import "testing"

func TestFromBackend(t *testing.T) {
	tests := []struct {
		status string
		want   State
	}{
		{"new", StateUnderReview},
		{"New", StateUnderReview},
		{"NEW", StateUnderReview},
		{"open", StateInProgress},
		{"Open", StateInProgress},
		{"in progress", StateInProgress},
		{"In Progress", StateInProgress},
		{"resolved", StateResolved},
		{"Resolved", StateResolved},
		{"closed", StateResolved},
		{"Closed", StateResolved},
		{"escalated", StateEscalated},
		{"Escalated", StateEscalated},
		{"", StateUnderReview},
		{"garbage", StateUnderReview},
		{"PENDING", StateUnderReview},
		{"  new  ", StateUnderReview},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := FromBackend(tt.status); got != tt.want {
				t.Errorf("FromBackend(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		state State
		want  int
	}{
		{StateUnderReview, 25},
		{StateInProgress, 60},
		{StateEscalated, 80},
		{StateResolved, 100},
		{State("UNKNOWN"), 20},
	}

	for _, tt := range tests {
		if got := Progress(tt.state); got != tt.want {
			t.Errorf("Progress(%v) = %d, want %d", tt.state, got, tt.want)
		}
	}
}

func TestProgressValuesAreClosed(t *testing.T) {
	allowed := map[int]bool{20: true, 25: true, 60: true, 80: true, 100: true}

	inputs := []string{"new", "open", "in progress", "resolved", "closed", "escalated", "whatever", ""}
	for _, in := range inputs {
		if got := ProgressFor(in); !allowed[got] {
			t.Errorf("ProgressFor(%q) = %d, outside the fixed value set", in, got)
		}
	}
}

func TestProgressForNeverHitsFallback(t *testing.T) {
	// Raw statuses normalize to a canonical state first, so the 20 default
	// is unreachable through this path.
	if got := ProgressFor("unrecognized"); got != 25 {
		t.Errorf("ProgressFor(unrecognized) = %d, want 25", got)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Code
		to   Code
		want bool
	}{
		{"new to in progress", CodeNew, CodeInProgress, true},
		{"in progress back to new", CodeInProgress, CodeNew, true},
		{"in progress to resolved", CodeInProgress, CodeResolved, true},
		{"new straight to resolved", CodeNew, CodeResolved, false},
		{"no reopen from resolved", CodeResolved, CodeInProgress, false},
		{"no reopen from resolved to new", CodeResolved, CodeNew, false},
		{"nothing out of escalated", CodeEscalated, CodeInProgress, false},
		{"no escalation via status endpoint", CodeInProgress, CodeEscalated, false},
		{"closed is terminal", CodeClosed, CodeNew, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	if got := CodeInProgress.Display(); got != "In Progress" {
		t.Errorf("Display() = %q, want %q", got, "In Progress")
	}
	if got := Code("CUSTOM").Display(); got != "CUSTOM" {
		t.Errorf("Display() passthrough = %q, want %q", got, "CUSTOM")
	}
}

func TestBuckets(t *testing.T) {
	for _, s := range []string{"New", "Open", "In Progress", "Under Review"} {
		if !IsOpen(s) {
			t.Errorf("IsOpen(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"Resolved", "Closed"} {
		if IsOpen(s) {
			t.Errorf("IsOpen(%q) = true, want false", s)
		}
		if !IsResolved(s) {
			t.Errorf("IsResolved(%q) = false, want true", s)
		}
	}
	if IsResolved("New") {
		t.Error("IsResolved(New) = true, want false")
	}
}
