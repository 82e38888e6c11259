package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolveit/internal/complaint"
	"resolveit/internal/lifecycle"
)

func TestGenerateSubmittedOnly(t *testing.T) {
	created := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	c := complaint.Complaint{
		ID:        7,
		Title:     "Broken streetlight",
		CreatedAt: complaint.Timestamp{Time: created},
	}

	events := Generate(c, lifecycle.StateUnderReview, now)

	require.Len(t, events, 1)
	assert.Equal(t, "Complaint Submitted", events[0].Title)
	assert.Equal(t, created, events[0].Date)
	assert.Equal(t, MarkCompleted, events[0].Status)
}

func TestGenerateAssignedNotResolved(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	c := complaint.Complaint{
		ID:         7,
		Title:      "Broken streetlight",
		AssignedTo: &complaint.Assignee{ID: 3, Name: "Asha Patel"},
		CreatedAt:  complaint.Timestamp{Time: now.AddDate(0, 0, -5)},
	}

	events := Generate(c, lifecycle.StateInProgress, now)

	require.Len(t, events, 2)
	assert.Equal(t, "Assigned to Staff", events[0].Title)
	assert.Equal(t, MarkInProgress, events[0].Status)
	assert.Equal(t, now, events[0].Date, "assignment event is dated now, not from history")
	assert.Contains(t, events[0].Description, "Asha Patel")
	assert.Equal(t, "Complaint Submitted", events[1].Title)
}

func TestGenerateResolvedAndAssigned(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	c := complaint.Complaint{
		ID:         42,
		Title:      "Leaking pipe",
		AssignedTo: &complaint.Assignee{ID: 3, Name: "Asha Patel"},
		CreatedAt:  complaint.Timestamp{Time: now.AddDate(0, 0, -10)},
	}

	events := Generate(c, lifecycle.StateResolved, now)

	require.Len(t, events, 3)
	assert.Equal(t, "Complaint Resolved", events[0].Title)
	assert.Equal(t, MarkCompleted, events[0].Status)
	assert.Equal(t, "Assigned to Staff", events[1].Title)
	assert.Equal(t, MarkCompleted, events[1].Status, "assignment completes once resolved")
	assert.Equal(t, "Complaint Submitted", events[2].Title)
}

func TestGenerateResolvedWithoutAssignee(t *testing.T) {
	now := time.Now()
	c := complaint.Complaint{ID: 1, Title: "x", CreatedAt: complaint.Timestamp{Time: now}}

	events := Generate(c, lifecycle.StateResolved, now)

	require.Len(t, events, 2)
	assert.Equal(t, "Complaint Resolved", events[0].Title)
	assert.Equal(t, "Complaint Submitted", events[1].Title)
}
