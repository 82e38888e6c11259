package api

import (
	"context"
	"fmt"
	"net/http"

	"resolveit/internal/complaint"
)

// ApplicationForm is the payload for a staff application.
type ApplicationForm struct {
	Categories         string `json:"categories"`
	Experience         string `json:"experience"`
	Skills             string `json:"skills,omitempty"`
	Availability       string `json:"availability,omitempty"`
	Motivation         string `json:"motivation"`
	PreviousExperience string `json:"previousExperience,omitempty"`
}

// Apply submits a staff application for the current user. The backend
// rejects duplicates while a PENDING or APPROVED application exists; the
// same rule is available client side via policy.CanApplyForStaff.
func (c *Client) Apply(ctx context.Context, form ApplicationForm) error {
	return c.do(ctx, http.MethodPost, "/api/staff-applications/apply", form, nil)
}

type applicationsResponse struct {
	Success      bool                         `json:"success"`
	Applications []complaint.StaffApplication `json:"applications"`
}

// MyApplications fetches the current user's staff applications.
func (c *Client) MyApplications(ctx context.Context) ([]complaint.StaffApplication, error) {
	var resp applicationsResponse
	if err := c.get(ctx, "/api/staff-applications/my-applications", &resp); err != nil {
		return nil, err
	}
	return resp.Applications, nil
}

// PendingApplications fetches applications awaiting review. Admin only.
func (c *Client) PendingApplications(ctx context.Context) ([]complaint.StaffApplication, error) {
	var resp applicationsResponse
	if err := c.get(ctx, "/api/staff-applications/pending", &resp); err != nil {
		return nil, err
	}
	return resp.Applications, nil
}

// AllApplications fetches every staff application. Admin only.
func (c *Client) AllApplications(ctx context.Context) ([]complaint.StaffApplication, error) {
	var resp applicationsResponse
	if err := c.get(ctx, "/api/staff-applications/all", &resp); err != nil {
		return nil, err
	}
	return resp.Applications, nil
}

// ApproveApplication approves a pending staff application.
func (c *Client) ApproveApplication(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/staff-applications/%d/approve", id), nil, nil)
}

// RejectApplication rejects a pending staff application with a reason.
func (c *Client) RejectApplication(ctx context.Context, id int64, reason string) error {
	body := map[string]string{"reason": reason}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/staff-applications/%d/reject", id), body, nil)
}
