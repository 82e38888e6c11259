// Package policy contains the role-based action gate: pure functions that
// decide which actions are available to a viewer for a given complaint.
// No I/O here; callers feed in the fetched state.
package policy

import "strings"

// Role is a user role in strictly increasing privilege order.
type Role int

const (
	RoleUnknown Role = iota
	RoleUser
	RoleStaff
	RoleManager
	RoleAdmin
)

// ParseRole maps a backend role string onto the ordered enum. Unknown
// strings parse to RoleUnknown, which is denied everything.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "USER":
		return RoleUser
	case "STAFF":
		return RoleStaff
	case "MANAGER":
		return RoleManager
	case "ADMIN":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// String returns the backend spelling of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "USER"
	case RoleStaff:
		return "STAFF"
	case RoleManager:
		return "MANAGER"
	case RoleAdmin:
		return "ADMIN"
	default:
		return "UNKNOWN"
	}
}

// Level returns the role's rank in the USER < STAFF < MANAGER < ADMIN order.
func (r Role) Level() int {
	return int(r)
}

// Outranks reports whether r is strictly higher than other. This is the
// escalation eligibility ordering.
func (r Role) Outranks(other Role) bool {
	return r > other && r != RoleUnknown
}

// IsStaffLike reports whether the role works assigned complaints.
func (r Role) IsStaffLike() bool {
	return r == RoleStaff || r == RoleManager
}
