package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"resolveit/internal/complaint"
	rerrors "resolveit/internal/errors"
)

// Complaints fetches every complaint visible to the caller.
func (c *Client) Complaints(ctx context.Context) ([]complaint.Complaint, error) {
	var list []complaint.Complaint
	if err := c.get(ctx, "/api/complaints", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Complaint fetches a single complaint by ID.
func (c *Client) Complaint(ctx context.Context, id int64) (*complaint.Complaint, error) {
	var out complaint.Complaint
	if err := c.get(ctx, fmt.Sprintf("/api/complaints/%d", id), &out); err != nil {
		if rerrors.IsNotFound(err) {
			return nil, rerrors.NewNotFoundError("complaint")
		}
		return nil, err
	}
	return &out, nil
}

// MyAssignments fetches the complaints assigned to the current staff user.
func (c *Client) MyAssignments(ctx context.Context) ([]complaint.Complaint, error) {
	var list []complaint.Complaint
	if err := c.get(ctx, "/api/complaints/my-assignments", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Staff fetches the staff member directory used for assignment.
func (c *Client) Staff(ctx context.Context) ([]complaint.Assignee, error) {
	var list []complaint.Assignee
	if err := c.get(ctx, "/api/complaints/staff", &list); err != nil {
		return nil, err
	}
	return list, nil
}

type statsResponse struct {
	Success bool            `json:"success"`
	Stats   complaint.Stats `json:"stats"`
}

// Stats fetches the aggregate complaint counters.
func (c *Client) Stats(ctx context.Context) (*complaint.Stats, error) {
	var resp statsResponse
	if err := c.get(ctx, "/api/complaints/stats", &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

type submitResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	ID          int64  `json:"id"`
	ComplaintID int64  `json:"complaintId"`
}

func (r submitResponse) id() int64 {
	if r.ComplaintID != 0 {
		return r.ComplaintID
	}
	return r.ID
}

// Submit files a new complaint without attachments. Validation runs first;
// an invalid submission never reaches the network.
func (c *Client) Submit(ctx context.Context, s complaint.Submission) (int64, error) {
	if errs := complaint.ValidateSubmission(s); errs != nil {
		return 0, errs
	}

	var resp submitResponse
	if err := c.do(ctx, http.MethodPost, "/api/complaints", s, &resp); err != nil {
		return 0, err
	}
	return resp.id(), nil
}

// Attachment is one file to upload alongside a submission.
type Attachment struct {
	Name     string
	MimeType string
	Content  []byte
}

// SubmitWithFiles files a new complaint with attachments as a multipart
// request. Both the form fields and every file are validated before the
// request is built.
func (c *Client) SubmitWithFiles(ctx context.Context, s complaint.Submission, files []Attachment) (int64, error) {
	if errs := complaint.ValidateSubmission(s); errs != nil {
		return 0, errs
	}
	for _, f := range files {
		if err := complaint.ValidateFile(f.Name, f.MimeType, int64(len(f.Content))); err != nil {
			return 0, err
		}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("title", s.Title)
	_ = w.WriteField("category", s.Category)
	_ = w.WriteField("description", s.Description)
	_ = w.WriteField("anonymous", fmt.Sprintf("%t", s.Anonymous))
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return 0, rerrors.NewFetchError("failed to build multipart body", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return 0, rerrors.NewFetchError("failed to write attachment", err)
		}
	}
	if err := w.Close(); err != nil {
		return 0, rerrors.NewFetchError("failed to finalize multipart body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/complaints/with-files", &buf)
	if err != nil {
		return 0, rerrors.NewFetchError("failed to build request", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return 0, rerrors.NewFetchError("POST /api/complaints/with-files", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return 0, rerrors.NewFetchError("failed to read response", err)
	}
	if err := statusError(httpResp.StatusCode, data); err != nil {
		return 0, err
	}

	var resp submitResponse
	if err := unmarshalBody(data, &resp); err != nil {
		return 0, err
	}
	return resp.id(), nil
}

// UpdateStatus changes a complaint's status to the given raw code.
// Policy checks (who may move what where) happen before this is called.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/complaints/%d/status", id), body, nil)
}

// UpdateStaffStatus is the staff-dashboard variant of the status update.
func (c *Client) UpdateStaffStatus(ctx context.Context, id int64, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/complaints/%d/staff-status", id), body, nil)
}

// Assign assigns a complaint to a staff member. The backend also forces the
// status to IN_PROGRESS when the complaint is still NEW.
func (c *Client) Assign(ctx context.Context, id, staffID int64) error {
	body := map[string]int64{"staffId": staffID}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/complaints/%d/assign", id), body, nil)
}

// Resolve marks a complaint resolved.
func (c *Client) Resolve(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/complaints/%d/resolve", id), nil, nil)
}

// AddProgressNote attaches a progress note to an assigned complaint.
func (c *Client) AddProgressNote(ctx context.Context, id int64, note string) error {
	body := map[string]string{"note": note}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/complaints/%d/progress-note", id), body, nil)
}
