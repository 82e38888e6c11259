package policy

import "resolveit/internal/lifecycle"

// Action names a user-triggerable operation on a complaint.
type Action string

const (
	ActionView          Action = "view"
	ActionStartWork     Action = "start-work"    // move to IN_PROGRESS
	ActionResolve       Action = "resolve"
	ActionAssign        Action = "assign"
	ActionForceReset    Action = "force-reset"   // admin reset to NEW
	ActionEscalate      Action = "escalate"
	ActionAddNote       Action = "add-note"
	ActionAutoEscalate  Action = "auto-escalate"
	ActionSendReminders Action = "send-reminders"
	ActionViewReports   Action = "view-reports"
)

// Allowed returns the set of actions the viewer may take on the complaint,
// in a stable order. This is what drives which controls a front end renders
// enabled.
func Allowed(v Viewer, c ComplaintContext) []Action {
	var actions []Action

	if CanViewComplaint(v, c).Allowed {
		actions = append(actions, ActionView)
	}
	if CanUpdateStatus(v, c, lifecycle.CodeInProgress).Allowed {
		actions = append(actions, ActionStartWork)
	}
	if CanResolve(v, c).Allowed {
		actions = append(actions, ActionResolve)
	}
	if CanAssign(v).Allowed {
		actions = append(actions, ActionAssign)
	}
	if v.Role == RoleAdmin {
		actions = append(actions, ActionForceReset)
	}
	if v.Role.IsStaffLike() && c.AssigneeID == v.ID || v.Role == RoleAdmin {
		actions = append(actions, ActionEscalate)
	}
	if CanAddProgressNote(v, c).Allowed {
		actions = append(actions, ActionAddNote)
	}
	if v.Role == RoleAdmin {
		actions = append(actions, ActionAutoEscalate, ActionSendReminders, ActionViewReports)
	}
	return actions
}

// Has reports whether the action set contains a.
func Has(actions []Action, a Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}
