package policy

import (
	"fmt"

	"resolveit/internal/lifecycle"
)

// Viewer is the authenticated user evaluating an action.
type Viewer struct {
	ID   int64
	Role Role
}

// ComplaintContext is the slice of complaint state the gate needs.
type ComplaintContext struct {
	ID         int64
	AssigneeID int64 // 0 when unassigned
	Status     lifecycle.Code
}

// GuardResult is the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // populated when not allowed
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func deny(format string, args ...interface{}) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// CanSubmitComplaint evaluates whether the viewer may file a new complaint.
// Any authenticated role may submit; anonymous submission is a flag on the
// complaint, not a separate permission.
func CanSubmitComplaint(v Viewer) GuardResult {
	if v.Role == RoleUnknown {
		return deny("unrecognized role cannot submit complaints")
	}
	return allow()
}

// CanViewComplaint evaluates read access: admins see everything, staff and
// managers see their assignments, users see their own (ownership is checked
// by the backend; the client gates on assignment only).
func CanViewComplaint(v Viewer, c ComplaintContext) GuardResult {
	switch {
	case v.Role == RoleAdmin:
		return allow()
	case v.Role.IsStaffLike():
		if c.AssigneeID != v.ID {
			return deny("complaint %d is not assigned to you", c.ID)
		}
		return allow()
	case v.Role == RoleUser:
		return allow()
	default:
		return deny("unrecognized role")
	}
}

// CanAssign evaluates the assign action. Admin only: staff and managers
// never assign complaints, not even to themselves.
func CanAssign(v Viewer) GuardResult {
	if v.Role != RoleAdmin {
		return deny("only ADMIN can assign complaints (role: %s)", v.Role)
	}
	return allow()
}

// CanUpdateStatus evaluates a direct status change. Admins may force any
// status, including the reset to NEW. Staff and managers may only move their
// own assignments along the allowed transitions.
func CanUpdateStatus(v Viewer, c ComplaintContext, to lifecycle.Code) GuardResult {
	if v.Role == RoleAdmin {
		return allow()
	}
	if !v.Role.IsStaffLike() {
		return deny("only STAFF, MANAGER or ADMIN can change complaint status (role: %s)", v.Role)
	}
	if c.AssigneeID != v.ID {
		return deny("complaint %d is not assigned to you", c.ID)
	}
	if to == lifecycle.CodeNew {
		return deny("only ADMIN can reset a complaint to NEW")
	}
	if !lifecycle.CanTransition(c.Status, to) {
		return deny("cannot move complaint %d from %s to %s", c.ID, c.Status.Display(), to.Display())
	}
	return allow()
}

// CanResolve evaluates the resolve action: the assignee (staff or manager)
// or any admin.
func CanResolve(v Viewer, c ComplaintContext) GuardResult {
	if v.Role == RoleAdmin {
		return allow()
	}
	if !v.Role.IsStaffLike() {
		return deny("only STAFF, MANAGER or ADMIN can resolve complaints (role: %s)", v.Role)
	}
	if c.AssigneeID != v.ID {
		return deny("complaint %d is not assigned to you", c.ID)
	}
	return allow()
}

// CanAddProgressNote evaluates attaching a progress note or reply: the
// assignee or an admin.
func CanAddProgressNote(v Viewer, c ComplaintContext) GuardResult {
	return CanResolve(v, c)
}

// CanEscalate evaluates a manual escalation. The target must strictly
// outrank the escalator; users cannot escalate at all. The authority list
// itself comes from the backend, this is the client-side sanity gate.
func CanEscalate(v Viewer, target Role) GuardResult {
	if v.Role == RoleUser || v.Role == RoleUnknown {
		return deny("only STAFF, MANAGER or ADMIN can escalate complaints (role: %s)", v.Role)
	}
	if !target.Outranks(v.Role) {
		return deny("escalation target must outrank the escalator (%s does not outrank %s)", target, v.Role)
	}
	return allow()
}

// CanResolveEscalation evaluates resolving an escalation: the escalated-to
// party or an admin.
func CanResolveEscalation(v Viewer, escalatedToID int64) GuardResult {
	if v.Role == RoleAdmin || v.ID == escalatedToID {
		return allow()
	}
	return deny("only the escalation target or an ADMIN can resolve an escalation")
}

// CanAutoEscalate gates the bulk auto-escalation trigger. Admin only.
func CanAutoEscalate(v Viewer) GuardResult {
	if v.Role != RoleAdmin {
		return deny("only ADMIN can trigger auto-escalation (role: %s)", v.Role)
	}
	return allow()
}

// CanSendReminders gates the reminder batch action. Admin only.
func CanSendReminders(v Viewer) GuardResult {
	if v.Role != RoleAdmin {
		return deny("only ADMIN can send escalation reminders (role: %s)", v.Role)
	}
	return allow()
}

// CanViewReports gates report generation and export. Admin only.
func CanViewReports(v Viewer) GuardResult {
	if v.Role != RoleAdmin {
		return deny("only ADMIN can view reports (role: %s)", v.Role)
	}
	return allow()
}

// CanApplyForStaff evaluates submitting a staff application: USER role only,
// and not while a PENDING or APPROVED application exists.
func CanApplyForStaff(v Viewer, applicationStatuses []string) GuardResult {
	if v.Role != RoleUser {
		return deny("only users can apply to become staff (role: %s)", v.Role)
	}
	for _, status := range applicationStatuses {
		switch status {
		case "PENDING":
			return deny("you already have a pending staff application")
		case "APPROVED":
			return deny("your staff application has already been approved")
		}
	}
	return allow()
}

// CanDownloadFile evaluates a file download. A file flagged admin-only is
// downloadable only when the file listing response flagged the viewer as
// admin; the client must not even attempt the call otherwise.
func CanDownloadFile(adminOnly, listingIsAdmin bool) GuardResult {
	if adminOnly && !listingIsAdmin {
		return deny("admin access required to download this file")
	}
	return allow()
}

// CanDeleteFile gates attachment deletion. Admin only.
func CanDeleteFile(v Viewer) GuardResult {
	if v.Role != RoleAdmin {
		return deny("only ADMIN can delete files (role: %s)", v.Role)
	}
	return allow()
}
