// Package complaint provides the domain types shared by the API client, the
// CLI and the monitor, plus the client-side validation applied before a
// submission ever reaches the network.
package complaint

import (
	"fmt"
	"strings"
	"time"
)

// Categories is the closed set of complaint categories the backend accepts.
var Categories = []string{
	"Maintenance",
	"Technical Issues",
	"Transport",
	"Facilities",
	"Safety & Security",
	"Administrative",
	"Other",
}

// Priority levels. The backend defaults to MEDIUM when unset.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Timestamp wraps time.Time to accept the backend's LocalDateTime
// serialization (no zone suffix) alongside RFC 3339.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON parses either "2006-01-02T15:04:05" or RFC 3339.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON emits RFC 3339 (zero value as null).
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ts.Format(time.RFC3339) + `"`), nil
}

// Assignee is the staff reference embedded in a complaint.
type Assignee struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Complaint is the read-mostly copy of a backend complaint. The backend is
// the source of truth; the client re-fetches instead of patching.
type Complaint struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Anonymous   bool      `json:"anonymous"`
	Priority    string    `json:"priority,omitempty"`
	Status      string    `json:"status"`
	RaisedBy    string    `json:"raisedBy,omitempty"`
	AssignedTo  *Assignee `json:"assignedTo,omitempty"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// File is an attachment record as returned by the file listing endpoint.
// Content is referenced by ID only; bytes travel through the download call.
type File struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"fileName"`
	FileType     string    `json:"fileType"`
	FileCategory string    `json:"fileCategory"`
	FileSize     int64     `json:"fileSize"`
	AdminOnly    bool      `json:"adminOnly"`
	UploadedAt   Timestamp `json:"uploadedAt"`
}

// User is the authenticated user returned by login.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Staff application statuses.
const (
	ApplicationPending  = "PENDING"
	ApplicationApproved = "APPROVED"
	ApplicationRejected = "REJECTED"
)

// StaffApplication is a user's request to be promoted to staff.
type StaffApplication struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"userId"`
	UserName           string    `json:"userName,omitempty"`
	Categories         string    `json:"categories"`
	Experience         string    `json:"experience"`
	Skills             string    `json:"skills,omitempty"`
	Availability       string    `json:"availability,omitempty"`
	Motivation         string    `json:"motivation"`
	PreviousExperience string    `json:"previousExperience,omitempty"`
	Status             string    `json:"status"`
	SubmittedAt        Timestamp `json:"submittedAt"`
}

// Escalation types.
const (
	EscalationManual    = "MANUAL"
	EscalationAutomatic = "AUTOMATIC"
	EscalationPriority  = "PRIORITY"
)

// Escalation records a complaint being raised to a higher authority. Once
// resolved it is immutable apart from the resolved timestamp.
type Escalation struct {
	ID             int64     `json:"id"`
	ComplaintID    int64     `json:"complaintId"`
	ComplaintTitle string    `json:"complaintTitle,omitempty"`
	EscalatedBy    string    `json:"escalatedBy,omitempty"`
	EscalatedTo    string    `json:"escalatedTo,omitempty"`
	EscalatedToID  int64     `json:"escalatedToId,omitempty"`
	Reason         string    `json:"reason"`
	Type           string    `json:"escalationType"`
	Active         bool      `json:"isActive"`
	CreatedAt      Timestamp `json:"createdAt"`
	ResolvedAt     Timestamp `json:"resolvedAt,omitempty"`
}

// Stats is the aggregate returned by the stats endpoint.
type Stats struct {
	Total    int64            `json:"total"`
	Recent   int64            `json:"recent"`
	ByStatus map[string]int64 `json:"byStatus"`
}

// CategoryCount is one row of a report's category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// StatusCount is one row of a report's status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Report is the aggregate produced by the report generation endpoint.
type Report struct {
	TotalComplaints    int64           `json:"totalComplaints"`
	ResolvedComplaints int64           `json:"resolvedComplaints"`
	PendingComplaints  int64           `json:"pendingComplaints"`
	ResolutionRate     int             `json:"resolutionRate"`
	CategoryBreakdown  []CategoryCount `json:"categoryBreakdown"`
	StatusBreakdown    []StatusCount   `json:"statusBreakdown"`
	AvgResolutionDays  int             `json:"avgResolutionDays"`
	TopCategory        string          `json:"topCategory"`
	StaffCount         int64           `json:"staffCount"`
}
