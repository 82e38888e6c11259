package api

import (
	"context"
	"fmt"
	"net/http"

	"resolveit/internal/complaint"
)

type filesResponse struct {
	Success bool             `json:"success"`
	Files   []complaint.File `json:"files"`
	IsAdmin bool             `json:"isAdmin"`
}

// ComplaintFiles fetches the attachments of a complaint. The second return
// value reports whether the backend considers the caller an admin for this
// listing, which gates downloads of admin-only files.
func (c *Client) ComplaintFiles(ctx context.Context, complaintID int64) ([]complaint.File, bool, error) {
	var resp filesResponse
	if err := c.get(ctx, fmt.Sprintf("/api/complaints/%d/files", complaintID), &resp); err != nil {
		return nil, false, err
	}
	return resp.Files, resp.IsAdmin, nil
}

// DownloadFile fetches the raw bytes of an attachment. Returns the content
// and its MIME type.
func (c *Client) DownloadFile(ctx context.Context, fileID int64) ([]byte, string, error) {
	return c.raw(ctx, http.MethodGet, fmt.Sprintf("/api/complaints/files/%d/download", fileID), nil)
}

// DeleteFile removes an attachment. Admin only, enforced server side.
func (c *Client) DeleteFile(ctx context.Context, fileID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/complaints/files/%d", fileID), nil, nil)
}
