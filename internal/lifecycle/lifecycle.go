// Package lifecycle contains the pure complaint lifecycle model: the
// canonical states the client derives from backend status strings, the
// progress values shown against each state, and the transition rules the
// mutation endpoints accept. No I/O, only pure functions.
package lifecycle

import "strings"

// State is the canonical lifecycle state the client computes from the
// backend's status vocabulary.
type State string

const (
	StateUnderReview State = "UNDER_REVIEW"
	StateInProgress  State = "IN_PROGRESS"
	StateEscalated   State = "ESCALATED"
	StateResolved    State = "RESOLVED"
)

// FromBackend normalizes a raw backend status string into a canonical state.
//
// The mapping is intentionally lossy: both "resolved" and "closed" collapse
// into StateResolved, and anything unrecognized (including empty) falls back
// to StateUnderReview. Matching is case-insensitive.
func FromBackend(status string) State {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "new":
		return StateUnderReview
	case "open", "in progress":
		return StateInProgress
	case "resolved", "closed":
		return StateResolved
	case "escalated":
		return StateEscalated
	default:
		return StateUnderReview
	}
}

// Progress returns the fixed display progress percentage for a state.
//
// The values are constants, never computed from elapsed time or workload.
// A State value outside the four canonical ones yields 20, mirroring the
// default branch of the original display pipeline.
func Progress(s State) int {
	switch s {
	case StateUnderReview:
		return 25
	case StateInProgress:
		return 60
	case StateEscalated:
		return 80
	case StateResolved:
		return 100
	default:
		return 20
	}
}

// ProgressFor maps a raw backend status straight to a progress value.
// Unrecognized statuses normalize to StateUnderReview first, so this path
// never produces the 20 fallback.
func ProgressFor(backendStatus string) int {
	return Progress(FromBackend(backendStatus))
}

// Code is a raw status code accepted by the status mutation endpoints.
type Code string

const (
	CodeNew         Code = "NEW"
	CodeOpen        Code = "OPEN"
	CodeInProgress  Code = "IN_PROGRESS"
	CodeUnderReview Code = "UNDER_REVIEW"
	CodeResolved    Code = "RESOLVED"
	CodeClosed      Code = "CLOSED"
	CodeEscalated   Code = "ESCALATED"
)

// Display returns the backend's display name for a status code. Unknown
// codes display as themselves, matching the backend's passthrough.
func (c Code) Display() string {
	switch c {
	case CodeNew:
		return "New"
	case CodeOpen:
		return "Open"
	case CodeInProgress:
		return "In Progress"
	case CodeUnderReview:
		return "Under Review"
	case CodeResolved:
		return "Resolved"
	case CodeClosed:
		return "Closed"
	case CodeEscalated:
		return "Escalated"
	default:
		return string(c)
	}
}

// CanTransition reports whether a direct staff/admin status update from one
// code to another is part of the exposed workflow. Escalation travels through
// the escalation subsystem, not the status endpoint, and nothing transitions
// out of RESOLVED or ESCALATED here. The admin-only force reset to NEW is a
// policy decision and lives in the policy package.
func CanTransition(from, to Code) bool {
	switch from {
	case CodeNew:
		return to == CodeInProgress
	case CodeInProgress:
		return to == CodeNew || to == CodeResolved
	default:
		return false
	}
}

// IsOpen reports whether a backend display status counts toward the
// dashboards' "open" bucket.
func IsOpen(displayStatus string) bool {
	switch displayStatus {
	case "New", "Open", "In Progress", "Under Review":
		return true
	}
	return false
}

// IsResolved reports whether a backend display status counts toward the
// dashboards' "resolved" bucket.
func IsResolved(displayStatus string) bool {
	return displayStatus == "Resolved" || displayStatus == "Closed"
}
