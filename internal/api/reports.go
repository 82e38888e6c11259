package api

import (
	"context"
	"net/http"

	"resolveit/internal/complaint"
)

// reportRequest is the filter body for report generation. The backend
// reads categories as a list; an empty list means no category filter.
type reportRequest struct {
	StartDate  string   `json:"startDate,omitempty"`
	EndDate    string   `json:"endDate,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// GenerateReport builds a complaint report on the backend. Dates are
// YYYY-MM-DD strings; empty filters are omitted. Admin only.
func (c *Client) GenerateReport(ctx context.Context, startDate, endDate string, categories []string) (*complaint.Report, error) {
	body := reportRequest{StartDate: startDate, EndDate: endDate, Categories: categories}
	var out complaint.Report
	if err := c.do(ctx, http.MethodPost, "/api/reports/generate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportReport downloads a report in the given format ("CSV" or "PDF").
// Returns the file bytes and the MIME type reported by the backend.
func (c *Client) ExportReport(ctx context.Context, startDate, endDate string, categories []string, format string) ([]byte, string, error) {
	body := reportRequest{StartDate: startDate, EndDate: endDate, Categories: categories}
	return c.raw(ctx, http.MethodPost, "/api/reports/export?format="+format, body)
}
