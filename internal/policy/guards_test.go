package policy

import (
	"testing"

	"resolveit/internal/lifecycle"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"USER", RoleUser},
		{"user", RoleUser},
		{"STAFF", RoleStaff},
		{"MANAGER", RoleManager},
		{"ADMIN", RoleAdmin},
		{" admin ", RoleAdmin},
		{"SUPERUSER", RoleUnknown},
		{"", RoleUnknown},
	}
	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutranks(t *testing.T) {
	order := []Role{RoleUser, RoleStaff, RoleManager, RoleAdmin}
	for i, lower := range order {
		for j, higher := range order {
			want := j > i
			if got := higher.Outranks(lower); got != want {
				t.Errorf("%v.Outranks(%v) = %v, want %v", higher, lower, got, want)
			}
		}
	}
	if RoleUnknown.Outranks(RoleUser) {
		t.Error("RoleUnknown must not outrank anyone")
	}
}

func TestCanAssign(t *testing.T) {
	tests := []struct {
		name        string
		role        Role
		wantAllowed bool
	}{
		{"admin can assign", RoleAdmin, true},
		{"staff cannot assign", RoleStaff, false},
		{"manager cannot assign", RoleManager, false},
		{"user cannot assign", RoleUser, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanAssign(Viewer{ID: 1, Role: tt.role})
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanAssign() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Error() == nil {
				t.Error("denied guard should surface an error")
			}
		})
	}
}

func TestCanUpdateStatus(t *testing.T) {
	assigned := ComplaintContext{ID: 42, AssigneeID: 7, Status: lifecycle.CodeNew}

	tests := []struct {
		name        string
		viewer      Viewer
		c           ComplaintContext
		to          lifecycle.Code
		wantAllowed bool
	}{
		{
			name:        "assigned staff starts work",
			viewer:      Viewer{ID: 7, Role: RoleStaff},
			c:           assigned,
			to:          lifecycle.CodeInProgress,
			wantAllowed: true,
		},
		{
			name:        "assigned manager resolves in-progress",
			viewer:      Viewer{ID: 7, Role: RoleManager},
			c:           ComplaintContext{ID: 42, AssigneeID: 7, Status: lifecycle.CodeInProgress},
			to:          lifecycle.CodeResolved,
			wantAllowed: true,
		},
		{
			name:        "staff cannot touch someone else's assignment",
			viewer:      Viewer{ID: 8, Role: RoleStaff},
			c:           assigned,
			to:          lifecycle.CodeInProgress,
			wantAllowed: false,
		},
		{
			name:        "staff cannot force reset",
			viewer:      Viewer{ID: 7, Role: RoleStaff},
			c:           ComplaintContext{ID: 42, AssigneeID: 7, Status: lifecycle.CodeInProgress},
			to:          lifecycle.CodeNew,
			wantAllowed: false,
		},
		{
			name:        "staff cannot skip to resolved from new",
			viewer:      Viewer{ID: 7, Role: RoleStaff},
			c:           assigned,
			to:          lifecycle.CodeResolved,
			wantAllowed: false,
		},
		{
			name:        "user denied regardless of state",
			viewer:      Viewer{ID: 7, Role: RoleUser},
			c:           assigned,
			to:          lifecycle.CodeInProgress,
			wantAllowed: false,
		},
		{
			name:        "admin may force any transition",
			viewer:      Viewer{ID: 1, Role: RoleAdmin},
			c:           ComplaintContext{ID: 42, AssigneeID: 7, Status: lifecycle.CodeResolved},
			to:          lifecycle.CodeNew,
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanUpdateStatus(tt.viewer, tt.c, tt.to)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanUpdateStatus() Allowed = %v (reason %q), want %v", result.Allowed, result.Reason, tt.wantAllowed)
			}
		})
	}
}

func TestCanEscalate(t *testing.T) {
	tests := []struct {
		name        string
		viewer      Role
		target      Role
		wantAllowed bool
	}{
		{"staff to manager", RoleStaff, RoleManager, true},
		{"staff to admin", RoleStaff, RoleAdmin, true},
		{"manager to admin", RoleManager, RoleAdmin, true},
		{"staff to staff rejected", RoleStaff, RoleStaff, false},
		{"manager to staff rejected", RoleManager, RoleStaff, false},
		{"admin has nobody above", RoleAdmin, RoleAdmin, false},
		{"user cannot escalate", RoleUser, RoleAdmin, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanEscalate(Viewer{ID: 1, Role: tt.viewer}, tt.target)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanEscalate() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
		})
	}
}

func TestCanApplyForStaff(t *testing.T) {
	tests := []struct {
		name        string
		role        Role
		statuses    []string
		wantAllowed bool
	}{
		{"fresh user may apply", RoleUser, nil, true},
		{"rejected application does not block", RoleUser, []string{"REJECTED"}, true},
		{"pending application blocks", RoleUser, []string{"PENDING"}, false},
		{"approved application blocks", RoleUser, []string{"REJECTED", "APPROVED"}, false},
		{"staff cannot apply again", RoleStaff, nil, false},
		{"admin cannot apply", RoleAdmin, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanApplyForStaff(Viewer{ID: 1, Role: tt.role}, tt.statuses)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanApplyForStaff() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
		})
	}
}

func TestCanDownloadFile(t *testing.T) {
	tests := []struct {
		name        string
		adminOnly   bool
		isAdmin     bool
		wantAllowed bool
	}{
		{"public file, plain viewer", false, false, true},
		{"public file, admin viewer", false, true, true},
		{"admin-only file, plain viewer", true, false, false},
		{"admin-only file, admin viewer", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanDownloadFile(tt.adminOnly, tt.isAdmin)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanDownloadFile(%v, %v) = %v, want %v", tt.adminOnly, tt.isAdmin, result.Allowed, tt.wantAllowed)
			}
		})
	}
}

func TestAllowedMatrix(t *testing.T) {
	c := ComplaintContext{ID: 5, AssigneeID: 7, Status: lifecycle.CodeInProgress}

	user := Allowed(Viewer{ID: 3, Role: RoleUser}, c)
	for _, forbidden := range []Action{ActionAssign, ActionResolve, ActionForceReset, ActionEscalate, ActionAutoEscalate} {
		if Has(user, forbidden) {
			t.Errorf("USER must not get %s", forbidden)
		}
	}

	staff := Allowed(Viewer{ID: 7, Role: RoleStaff}, c)
	if !Has(staff, ActionResolve) || !Has(staff, ActionAddNote) {
		t.Errorf("assigned STAFF should get resolve and add-note, got %v", staff)
	}
	if Has(staff, ActionAssign) || Has(staff, ActionForceReset) {
		t.Errorf("STAFF must never get assign or force-reset, got %v", staff)
	}

	otherStaff := Allowed(Viewer{ID: 8, Role: RoleStaff}, c)
	if Has(otherStaff, ActionResolve) {
		t.Errorf("unassigned STAFF must not resolve, got %v", otherStaff)
	}

	admin := Allowed(Viewer{ID: 1, Role: RoleAdmin}, c)
	for _, required := range []Action{ActionView, ActionAssign, ActionResolve, ActionForceReset, ActionEscalate, ActionAutoEscalate, ActionSendReminders, ActionViewReports} {
		if !Has(admin, required) {
			t.Errorf("ADMIN should get %s, got %v", required, admin)
		}
	}
}
