// Package timeline projects a fetched complaint into the display timeline
// and progress view. The projection is recomputed on every fetch and never
// persisted.
package timeline

import (
	"fmt"
	"time"

	"resolveit/internal/complaint"
	"resolveit/internal/lifecycle"
)

// Event marks.
const (
	MarkCompleted  = "COMPLETED"
	MarkInProgress = "IN_PROGRESS"
)

// Event is a single display entry in a complaint's timeline.
type Event struct {
	Title       string
	Description string
	Date        time.Time
	Status      string
}

// Generate builds the ordered timeline for a complaint, most recent first:
// [Resolved?, Assigned?, Submitted].
//
// The assignment and resolution events are dated with the supplied now,
// because the backend does not expose assignedAt or resolvedAt timestamps.
// Keep this approximation until the backend grows real timestamps; the
// ordering is a presentation convention, not a causal history.
func Generate(c complaint.Complaint, state lifecycle.State, now time.Time) []Event {
	events := []Event{{
		Title:       "Complaint Submitted",
		Description: fmt.Sprintf("Complaint %q submitted successfully.", c.Title),
		Date:        c.CreatedAt.Time,
		Status:      MarkCompleted,
	}}

	if c.AssignedTo != nil {
		mark := MarkInProgress
		if state == lifecycle.StateResolved {
			mark = MarkCompleted
		}
		events = prepend(events, Event{
			Title:       "Assigned to Staff",
			Description: fmt.Sprintf("Complaint assigned to %s for investigation.", c.AssignedTo.Name),
			Date:        now,
			Status:      mark,
		})
	}

	if state == lifecycle.StateResolved {
		events = prepend(events, Event{
			Title:       "Complaint Resolved",
			Description: "Your complaint has been successfully resolved by our team.",
			Date:        now,
			Status:      MarkCompleted,
		})
	}

	return events
}

func prepend(events []Event, e Event) []Event {
	return append([]Event{e}, events...)
}
